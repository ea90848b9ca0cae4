package usecasecontract

import "time"

// IConfigProvider exposes application configuration to usecases and the
// composition root.
type IConfigProvider interface {
	GetAppBaseURL() string
	GetHiveAPIURL() string
	GetSessionExpiry() time.Duration

	// Feed cache settings
	GetFeedRefreshInterval() time.Duration
	GetFeedCacheDir() string
	GetFeedCacheSize() int
	GetPriorityFeeds() []string
	GetMaxSnapshotAge() time.Duration
	GetTagFeedEvictionAge() time.Duration
}
