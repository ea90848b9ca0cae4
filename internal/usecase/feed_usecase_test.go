package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/logger"
	"github.com/hivebuzz/hivebuzz/internal/usecase"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPostsCache is an in-memory IPostsCache for usecase tests.
type stubPostsCache struct {
	posts           []entity.Post
	newPosts        []entity.Post
	merged          int
	fresh           bool
	ready           bool
	updating        bool
	startupComplete bool

	lastQuery usecasecontract.PostsQuery
}

var _ usecasecontract.IPostsCache = (*stubPostsCache)(nil)

func (s *stubPostsCache) GetPosts(feedType, tag string, query usecasecontract.PostsQuery) []entity.Post {
	s.lastQuery = query
	if query.NewOnly {
		return s.newPosts
	}
	return s.posts
}

func (s *stubPostsCache) MergeNewPosts(feedType, tag string) int { return s.merged }
func (s *stubPostsCache) NewPostCount(feedType, tag string) int  { return len(s.newPosts) }
func (s *stubPostsCache) IsFeedReady(feedType string) bool       { return s.ready }
func (s *stubPostsCache) IsFeedUpdating(feedType string) bool    { return s.updating }
func (s *stubPostsCache) IsFresh(feedType, tag string) bool      { return s.fresh }
func (s *stubPostsCache) StartupComplete() bool                  { return s.startupComplete }
func (s *stubPostsCache) Status() usecasecontract.CacheStatus {
	return usecasecontract.CacheStatus{StartupComplete: s.startupComplete}
}
func (s *stubPostsCache) ClearCacheFiles(olderThan time.Duration) (int, error) { return 2, nil }

// stubActivityRepo records logged activities in memory.
type stubActivityRepo struct {
	logged []entity.Activity
}

func (s *stubActivityRepo) LogActivity(ctx context.Context, activity *entity.Activity) error {
	s.logged = append(s.logged, *activity)
	return nil
}

func (s *stubActivityRepo) GetRecentActivity(ctx context.Context, username string, limit int) ([]entity.Activity, error) {
	return s.logged, nil
}

func TestGetFeedDefaults(t *testing.T) {
	cache := &stubPostsCache{
		posts:           []entity.Post{{ID: "a-1", Title: "One"}},
		fresh:           true,
		startupComplete: true,
	}
	uc := usecase.NewFeedUseCase(cache, &stubActivityRepo{}, logger.NewStdLogger())

	page, err := uc.GetFeed(context.Background(), "", "", 0, 0, false)
	require.NoError(t, err)

	assert.Equal(t, "trending", page.FeedType)
	assert.Len(t, page.Posts, 1)
	assert.True(t, page.Fresh)
	assert.False(t, page.Initializing)
	assert.Equal(t, 20, cache.lastQuery.Limit)
}

func TestGetFeedInitializingDuringStartup(t *testing.T) {
	cache := &stubPostsCache{startupComplete: false}
	uc := usecase.NewFeedUseCase(cache, &stubActivityRepo{}, logger.NewStdLogger())

	page, err := uc.GetFeed(context.Background(), "trending", "", 20, 0, false)
	require.NoError(t, err)
	assert.True(t, page.Initializing)
}

func TestGetNewPosts(t *testing.T) {
	cache := &stubPostsCache{
		newPosts:        []entity.Post{{ID: "b-1", Title: "New"}},
		startupComplete: true,
	}
	uc := usecase.NewFeedUseCase(cache, &stubActivityRepo{}, logger.NewStdLogger())

	posts, count, err := uc.GetNewPosts(context.Background(), "trending", "", 20)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, count)
	assert.True(t, cache.lastQuery.NewOnly)
}

func TestMergeNewPostsLogsActivity(t *testing.T) {
	cache := &stubPostsCache{merged: 3}
	activityRepo := &stubActivityRepo{}
	uc := usecase.NewFeedUseCase(cache, activityRepo, logger.NewStdLogger())

	merged, err := uc.MergeNewPosts(context.Background(), "alice", "trending", "travel")
	require.NoError(t, err)
	assert.Equal(t, 3, merged)

	require.Len(t, activityRepo.logged, 1)
	assert.Equal(t, "alice", activityRepo.logged[0].Username)
	assert.Equal(t, "merge_new_posts", activityRepo.logged[0].Type)
}

func TestMergeNewPostsAnonymousSkipsActivity(t *testing.T) {
	cache := &stubPostsCache{merged: 2}
	activityRepo := &stubActivityRepo{}
	uc := usecase.NewFeedUseCase(cache, activityRepo, logger.NewStdLogger())

	merged, err := uc.MergeNewPosts(context.Background(), "", "trending", "")
	require.NoError(t, err)
	assert.Equal(t, 2, merged)
	assert.Empty(t, activityRepo.logged)
}

func TestMergeNewPostsRequiresFeed(t *testing.T) {
	uc := usecase.NewFeedUseCase(&stubPostsCache{}, &stubActivityRepo{}, logger.NewStdLogger())

	_, err := uc.MergeNewPosts(context.Background(), "alice", "", "")
	assert.Error(t, err)
}

func TestFeedStatus(t *testing.T) {
	cache := &stubPostsCache{
		posts:           []entity.Post{{ID: "a-1", Title: "One"}},
		ready:           true,
		startupComplete: true,
	}
	uc := usecase.NewFeedUseCase(cache, &stubActivityRepo{}, logger.NewStdLogger())

	ready, hasContent, updating, startupComplete := uc.FeedStatus("trending", "")
	assert.True(t, ready)
	assert.True(t, hasContent)
	assert.False(t, updating)
	assert.True(t, startupComplete)
}
