package contract

import (
	"context"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// IFeedFetcher fetches posts for a feed type from the blockchain API.
// Implementations are expected to return within a bounded time; retries,
// if any, are the fetcher's own responsibility.
type IFeedFetcher interface {
	FetchFeed(ctx context.Context, feedType string, tag string, limit int) ([]entity.Post, error)
}
