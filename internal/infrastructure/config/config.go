package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// Config holds application configuration values.
type Config struct {
	AppBaseURL    string
	HiveAPIURL    string
	SessionExpiry time.Duration

	FeedRefreshInterval time.Duration
	FeedCacheDir        string
	FeedCacheSize       int
	PriorityFeeds       []string
	MaxSnapshotAge      time.Duration
	TagFeedEvictionAge  time.Duration
}

// NewConfig creates a new Config instance, loading values from environment variables.
func NewConfig() usecasecontract.IConfigProvider {
	return &Config{
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		HiveAPIURL:    getEnv("HIVE_API_URL", "https://api.hive.blog"),
		SessionExpiry: time.Hour * time.Duration(getEnvAsInt("SESSION_EXPIRY_HOURS", 72)),

		FeedRefreshInterval: time.Second * time.Duration(getEnvAsInt("FEED_REFRESH_INTERVAL_SECONDS", 300)),
		FeedCacheDir:        getEnv("FEED_CACHE_DIR", "cache/posts"),
		FeedCacheSize:       getEnvAsInt("FEED_CACHE_SIZE", 50),
		PriorityFeeds:       getEnvAsSlice("FEED_PRIORITY_TYPES", []string{"trending", "hot"}),
		MaxSnapshotAge:      time.Second * time.Duration(getEnvAsInt("FEED_MAX_SNAPSHOT_AGE_SECONDS", 12*3600)),
		TagFeedEvictionAge:  time.Second * time.Duration(getEnvAsInt("FEED_TAG_EVICTION_AGE_SECONDS", 3600)),
	}
}

// GetAppBaseURL returns the base URL of the application.
func (c *Config) GetAppBaseURL() string {
	return c.AppBaseURL
}

// GetHiveAPIURL returns the blockchain API node URL.
func (c *Config) GetHiveAPIURL() string {
	return c.HiveAPIURL
}

// GetSessionExpiry returns the expiry duration for login sessions.
func (c *Config) GetSessionExpiry() time.Duration {
	return c.SessionExpiry
}

// GetFeedRefreshInterval returns the steady-state feed refresh interval.
func (c *Config) GetFeedRefreshInterval() time.Duration {
	return c.FeedRefreshInterval
}

// GetFeedCacheDir returns the directory for persisted feed snapshots.
func (c *Config) GetFeedCacheDir() string {
	return c.FeedCacheDir
}

// GetFeedCacheSize returns the maximum number of posts retained per feed.
func (c *Config) GetFeedCacheSize() int {
	return c.FeedCacheSize
}

// GetPriorityFeeds returns the feed types refreshed first during startup.
func (c *Config) GetPriorityFeeds() []string {
	return c.PriorityFeeds
}

// GetMaxSnapshotAge returns the age beyond which a snapshot file is ignored.
func (c *Config) GetMaxSnapshotAge() time.Duration {
	return c.MaxSnapshotAge
}

// GetTagFeedEvictionAge returns the inactivity age after which tag feeds are evicted.
func (c *Config) GetTagFeedEvictionAge() time.Duration {
	return c.TagFeedEvictionAge
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(name string, fallback int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as a comma-separated list or return a default value.
func getEnvAsSlice(name string, fallback []string) []string {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return fallback
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
