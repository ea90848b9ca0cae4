package usecasecontract

import (
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// PostsQuery selects what GetPosts returns and how long it may wait.
type PostsQuery struct {
	Limit       int
	WaitTimeout time.Duration
	IncludeNew  bool
	NewOnly     bool
}

// FeedStatus describes one cached feed.
type FeedStatus struct {
	PostCount   int    `json:"post_count"`
	NewCount    int    `json:"new_count"`
	LastUpdated string `json:"last_updated,omitempty"`
	HasData     bool   `json:"has_data"`
	Updating    bool   `json:"updating"`
}

// CacheStatus is the overall posts-cache status document.
type CacheStatus struct {
	Initialized     bool                  `json:"initialized"`
	StartupComplete bool                  `json:"startup_complete"`
	Running         bool                  `json:"running"`
	Feeds           map[string]FeedStatus `json:"feeds"`
	TagCacheCount   int                   `json:"tag_cache_count"`
}

// IPostsCache is the read facade over the background post-feed cache.
// Every method returns promptly; GetPosts may wait at most the query's
// WaitTimeout and only for priority feeds during startup.
type IPostsCache interface {
	GetPosts(feedType, tag string, query PostsQuery) []entity.Post
	MergeNewPosts(feedType, tag string) int
	NewPostCount(feedType, tag string) int
	IsFeedReady(feedType string) bool
	IsFeedUpdating(feedType string) bool
	IsFresh(feedType, tag string) bool
	StartupComplete() bool
	Status() CacheStatus
	ClearCacheFiles(olderThan time.Duration) (int, error)
}
