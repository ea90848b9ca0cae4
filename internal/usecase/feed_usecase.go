package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/metrics"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// FeedUseCaseImpl serves feed queries from the posts cache. It never talks
// to the blockchain API directly; the cache refreshes itself in the
// background and an empty result simply means "not ready yet".
type FeedUseCaseImpl struct {
	cache        usecasecontract.IPostsCache
	activityRepo contract.IActivityRepository
	logger       usecasecontract.IAppLogger
}

// NewFeedUseCase creates a new instance of FeedUseCase
func NewFeedUseCase(cache usecasecontract.IPostsCache, activityRepo contract.IActivityRepository, logger usecasecontract.IAppLogger) *FeedUseCaseImpl {
	return &FeedUseCaseImpl{
		cache:        cache,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// check if FeedUseCaseImpl implements the IFeedUseCase
var _ usecasecontract.IFeedUseCase = (*FeedUseCaseImpl)(nil)

// GetFeed returns cached posts for a feed, waiting at most waitTimeout for
// a priority feed still loading during startup.
func (uc *FeedUseCaseImpl) GetFeed(ctx context.Context, feedType, tag string, limit int, waitTimeout time.Duration, includeNew bool) (*usecasecontract.FeedPage, error) {
	if feedType == "" {
		feedType = "trending"
	}
	if limit <= 0 {
		limit = 20
	}

	t0 := time.Now()
	posts := uc.cache.GetPosts(feedType, tag, usecasecontract.PostsQuery{
		Limit:       limit,
		WaitTimeout: waitTimeout,
		IncludeNew:  includeNew,
	})
	uc.logger.Debugf("posts fetch for %s took %s", feedType, time.Since(t0))

	metrics.IncFeedServed(feedType)
	if len(posts) == 0 {
		metrics.IncFeedEmpty(feedType)
	}

	return &usecasecontract.FeedPage{
		Posts:        posts,
		FeedType:     feedType,
		Tag:          tag,
		Fresh:        uc.cache.IsFresh(feedType, tag),
		Initializing: !uc.cache.StartupComplete() || uc.cache.IsFeedUpdating(feedType),
	}, nil
}

// GetNewPosts returns the unmerged new posts for a feed along with the
// total new-post count.
func (uc *FeedUseCaseImpl) GetNewPosts(ctx context.Context, feedType, tag string, limit int) ([]entity.Post, int, error) {
	if feedType == "" {
		feedType = "trending"
	}
	posts := uc.cache.GetPosts(feedType, tag, usecasecontract.PostsQuery{
		Limit:   limit,
		NewOnly: true,
	})
	return posts, uc.cache.NewPostCount(feedType, tag), nil
}

// MergeNewPosts promotes buffered new posts into the main feed list and
// logs the action for the requesting user.
func (uc *FeedUseCaseImpl) MergeNewPosts(ctx context.Context, username, feedType, tag string) (int, error) {
	if feedType == "" {
		return 0, errors.New("feed type is required")
	}
	merged := uc.cache.MergeNewPosts(feedType, tag)

	if merged > 0 && username != "" && uc.activityRepo != nil {
		activity := &entity.Activity{
			Username: username,
			Type:     "merge_new_posts",
			Details:  map[string]string{"feed": feedType, "tag": tag},
		}
		if err := uc.activityRepo.LogActivity(ctx, activity); err != nil {
			uc.logger.Warningf("failed to log merge activity: %v", err)
		}
	}
	return merged, nil
}

// FeedStatus reports readiness flags for a feed, used by the frontend to
// decide between real content and loading placeholders.
func (uc *FeedUseCaseImpl) FeedStatus(feedType, tag string) (bool, bool, bool, bool) {
	if feedType == "" {
		feedType = "trending"
	}
	ready := uc.cache.IsFeedReady(feedType)
	hasContent := len(uc.cache.GetPosts(feedType, tag, usecasecontract.PostsQuery{Limit: 1})) > 0
	return ready, hasContent, uc.cache.IsFeedUpdating(feedType), uc.cache.StartupComplete()
}

// CacheStatus returns the cache status document.
func (uc *FeedUseCaseImpl) CacheStatus() usecasecontract.CacheStatus {
	return uc.cache.Status()
}

// ClearCacheFiles deletes persisted snapshots older than the given age.
func (uc *FeedUseCaseImpl) ClearCacheFiles(olderThan time.Duration) (int, error) {
	return uc.cache.ClearCacheFiles(olderThan)
}
