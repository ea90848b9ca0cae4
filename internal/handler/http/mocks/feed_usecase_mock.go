package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// MockFeedUsecase is a mock implementation of the IFeedUseCase interface
type MockFeedUsecase struct {
	// Control mock behavior
	ShouldFailGetFeed     bool
	ShouldFailGetNewPosts bool
	ShouldFailMerge       bool
	ShouldFailClearCache  bool

	// Return values
	MockPosts           []entity.Post
	MockNewPosts        []entity.Post
	MockNewCount        int
	MockMerged          int
	MockReady           bool
	MockHasContent      bool
	MockUpdating        bool
	MockStartupComplete bool
	MockStatus          usecasecontract.CacheStatus
	MockRemoved         int

	// Captured arguments
	LastFeedType   string
	LastTag        string
	LastUsername   string
	LastLimit      int
	LastWait       time.Duration
	LastIncludeNew bool
}

// Ensure MockFeedUsecase implements the correct interface for handler.NewFeedHandler
var _ usecasecontract.IFeedUseCase = (*MockFeedUsecase)(nil)

func NewMockFeedUsecase() *MockFeedUsecase {
	return &MockFeedUsecase{
		MockPosts: []entity.Post{
			{ID: "alice-hello-world", Author: "alice", Permlink: "hello-world", Title: "Hello World", Category: "photography"},
			{ID: "bob-second-post", Author: "bob", Permlink: "second-post", Title: "Second Post", Category: "travel"},
		},
		MockReady:           true,
		MockHasContent:      true,
		MockStartupComplete: true,
	}
}

func (m *MockFeedUsecase) GetFeed(ctx context.Context, feedType, tag string, limit int, waitTimeout time.Duration, includeNew bool) (*usecasecontract.FeedPage, error) {
	if m.ShouldFailGetFeed {
		return nil, errors.New("feed fetch failed")
	}
	m.LastFeedType, m.LastTag, m.LastLimit, m.LastWait, m.LastIncludeNew = feedType, tag, limit, waitTimeout, includeNew
	return &usecasecontract.FeedPage{
		Posts:    m.MockPosts,
		FeedType: feedType,
		Tag:      tag,
		Fresh:    true,
	}, nil
}

func (m *MockFeedUsecase) GetNewPosts(ctx context.Context, feedType, tag string, limit int) ([]entity.Post, int, error) {
	if m.ShouldFailGetNewPosts {
		return nil, 0, errors.New("new posts fetch failed")
	}
	m.LastFeedType, m.LastTag, m.LastLimit = feedType, tag, limit
	return m.MockNewPosts, m.MockNewCount, nil
}

func (m *MockFeedUsecase) MergeNewPosts(ctx context.Context, username, feedType, tag string) (int, error) {
	if m.ShouldFailMerge {
		return 0, errors.New("merge failed")
	}
	m.LastUsername, m.LastFeedType, m.LastTag = username, feedType, tag
	return m.MockMerged, nil
}

func (m *MockFeedUsecase) FeedStatus(feedType, tag string) (bool, bool, bool, bool) {
	m.LastFeedType, m.LastTag = feedType, tag
	return m.MockReady, m.MockHasContent, m.MockUpdating, m.MockStartupComplete
}

func (m *MockFeedUsecase) CacheStatus() usecasecontract.CacheStatus {
	return m.MockStatus
}

func (m *MockFeedUsecase) ClearCacheFiles(olderThan time.Duration) (int, error) {
	if m.ShouldFailClearCache {
		return 0, errors.New("clear cache failed")
	}
	return m.MockRemoved, nil
}
