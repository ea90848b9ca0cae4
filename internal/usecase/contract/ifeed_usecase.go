package usecasecontract

import (
	"context"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// FeedPage is the result of a feed query.
type FeedPage struct {
	Posts        []entity.Post `json:"posts"`
	FeedType     string        `json:"feed_type"`
	Tag          string        `json:"tag,omitempty"`
	Fresh        bool          `json:"fresh"`
	Initializing bool          `json:"initializing"`
}

// IFeedUseCase defines feed-related business logic served to handlers.
type IFeedUseCase interface {
	GetFeed(ctx context.Context, feedType, tag string, limit int, waitTimeout time.Duration, includeNew bool) (*FeedPage, error)
	GetNewPosts(ctx context.Context, feedType, tag string, limit int) ([]entity.Post, int, error)
	MergeNewPosts(ctx context.Context, username, feedType, tag string) (int, error)
	FeedStatus(feedType, tag string) (ready bool, hasContent bool, updating bool, startupComplete bool)
	CacheStatus() CacheStatus
	ClearCacheFiles(olderThan time.Duration) (int, error)
}
