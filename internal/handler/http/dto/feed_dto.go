package dto

import (
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// FeedResponse is the DTO for a feed page.
type FeedResponse struct {
	Posts        []entity.Post `json:"posts"`
	FeedType     string        `json:"feed_type"`
	Tag          string        `json:"tag,omitempty"`
	Count        int           `json:"count"`
	Fresh        bool          `json:"fresh"`
	Initializing bool          `json:"initializing"`
}

// ToFeedResponse converts a usecase FeedPage into the response DTO.
func ToFeedResponse(page *usecasecontract.FeedPage) FeedResponse {
	return FeedResponse{
		Posts:        page.Posts,
		FeedType:     page.FeedType,
		Tag:          page.Tag,
		Count:        len(page.Posts),
		Fresh:        page.Fresh,
		Initializing: page.Initializing,
	}
}

// NewPostsResponse is the DTO for the new-since-last-view delta.
type NewPostsResponse struct {
	Posts    []entity.Post `json:"posts"`
	FeedType string        `json:"feed_type"`
	Tag      string        `json:"tag,omitempty"`
	NewCount int           `json:"new_count"`
}

// MergeRequest asks to promote buffered new posts into the main list.
type MergeRequest struct {
	Feed string `json:"feed" binding:"required"`
	Tag  string `json:"tag"`
}

// MergeResponse reports how many posts were merged.
type MergeResponse struct {
	Merged   int    `json:"merged"`
	FeedType string `json:"feed_type"`
	Tag      string `json:"tag,omitempty"`
}

// FeedStatusResponse reports readiness flags for one feed.
type FeedStatusResponse struct {
	FeedType        string `json:"feed_type"`
	Tag             string `json:"tag,omitempty"`
	Ready           bool   `json:"ready"`
	HasContent      bool   `json:"has_content"`
	Updating        bool   `json:"updating"`
	StartupComplete bool   `json:"startup_complete"`
}

// ClearCacheRequest controls which snapshot files get deleted.
type ClearCacheRequest struct {
	OlderThanSeconds int `json:"older_than_seconds"`
}

// ClearCacheResponse reports how many snapshot files were removed.
type ClearCacheResponse struct {
	Removed int `json:"removed"`
}
