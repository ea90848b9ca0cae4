// Package postscache maintains in-memory caches of blockchain post feeds,
// refreshed in the background and persisted to disk between runs. Web
// handlers only ever read from it; they are never blocked on the upstream
// API beyond a small bounded startup wait.
package postscache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/metrics"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// Default cache settings.
const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultCacheSize       = 50
	DefaultMaxSnapshotAge  = 12 * time.Hour
	DefaultTagEvictionAge  = time.Hour

	// Cap on any single refresh, and on joining a refresh pass.
	refreshTimeout = 30 * time.Second
)

// MainFeedTypes is the fixed set of feeds initialized at startup.
var MainFeedTypes = []string{"trending", "hot", "new", "promoted"}

// Options configures a PostsCache.
type Options struct {
	RefreshInterval time.Duration
	CacheDir        string
	CacheSize       int
	PriorityFeeds   []string
	MaxSnapshotAge  time.Duration
	TagEvictionAge  time.Duration
}

func (o *Options) applyDefaults() {
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = DefaultRefreshInterval
	}
	if o.CacheDir == "" {
		o.CacheDir = "cache/posts"
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	if len(o.PriorityFeeds) == 0 {
		o.PriorityFeeds = []string{"trending", "hot"}
	}
	if o.MaxSnapshotAge <= 0 {
		o.MaxSnapshotAge = DefaultMaxSnapshotAge
	}
	if o.TagEvictionAge <= 0 {
		o.TagEvictionAge = DefaultTagEvictionAge
	}
}

// PostsCache owns all feed state: the fixed main feeds, lazily created tag
// feeds, and their seen-id sets. One instance per process, constructed by
// the composition root with an injected fetcher.
type PostsCache struct {
	opts      Options
	fetcher   contract.IFeedFetcher
	logger    usecasecontract.IAppLogger
	snapshots *snapshotStore

	mu       sync.RWMutex
	feeds    map[string]*feedEntry // main feeds, fixed at construction
	tagFeeds map[string]*feedEntry // created on demand, evicted when idle

	startupComplete atomic.Bool
	initialized     atomic.Bool
	running         atomic.Bool

	initDone chan struct{}
	initOnce sync.Once

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a PostsCache. Call Start to begin background refresh.
func New(fetcher contract.IFeedFetcher, appLogger usecasecontract.IAppLogger, opts Options) (*PostsCache, error) {
	opts.applyDefaults()

	snapshots, err := newSnapshotStore(opts.CacheDir, appLogger)
	if err != nil {
		return nil, err
	}

	feeds := make(map[string]*feedEntry, len(MainFeedTypes))
	for _, ft := range MainFeedTypes {
		feeds[ft] = newFeedEntry(ft, "")
	}

	return &PostsCache{
		opts:      opts,
		fetcher:   fetcher,
		logger:    appLogger,
		snapshots: snapshots,
		feeds:     feeds,
		tagFeeds:  make(map[string]*feedEntry),
		initDone:  make(chan struct{}),
		runCtx:    context.Background(),
	}, nil
}

var _ usecasecontract.IPostsCache = (*PostsCache)(nil)

func cacheKey(feedType, tag string) string {
	if tag != "" {
		return feedType + "_" + tag
	}
	return feedType
}

func (c *PostsCache) mainEntry(feedType string) *feedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.feeds[feedType]
}

func (c *PostsCache) tagEntry(feedType, tag string) *feedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tagFeeds[cacheKey(feedType, tag)]
}

// getOrCreateTagEntry returns the tag feed entry, creating a placeholder on
// first access.
func (c *PostsCache) getOrCreateTagEntry(feedType, tag string) *feedEntry {
	key := cacheKey(feedType, tag)
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.tagFeeds[key]; ok {
		return e
	}
	e := newFeedEntry(feedType, tag)
	c.tagFeeds[key] = e
	return e
}

func (c *PostsCache) entry(feedType, tag string) *feedEntry {
	if tag != "" {
		return c.tagEntry(feedType, tag)
	}
	return c.mainEntry(feedType)
}

func (c *PostsCache) isPriorityFeed(feedType string) bool {
	for _, ft := range c.opts.PriorityFeeds {
		if ft == feedType {
			return true
		}
	}
	return false
}

// GetPosts returns cached posts for a feed key, truncated to the query
// limit. It never blocks past the query's WaitTimeout, and then only for a
// priority feed whose first refresh is still in flight during startup. An
// empty or stale feed gets a background refresh kicked off; the caller is
// never made to wait for it.
func (c *PostsCache) GetPosts(feedType, tag string, query usecasecontract.PostsQuery) []entity.Post {
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	if tag != "" {
		return truncatePosts(c.getTagPosts(feedType, tag, query), limit)
	}

	e := c.mainEntry(feedType)
	if e == nil {
		return []entity.Post{}
	}

	posts := e.selectPosts(query.IncludeNew, query.NewOnly)

	if len(posts) == 0 && query.WaitTimeout > 0 &&
		c.isPriorityFeed(feedType) && !c.startupComplete.Load() {
		posts = c.waitForPosts(e, query)
	}

	if len(posts) == 0 || c.isEntryStale(e) {
		c.triggerRefresh(feedType, "")
	}
	return truncatePosts(posts, limit)
}

// waitForPosts waits for the in-flight refresh of a priority feed to
// produce data, bounded by the query's WaitTimeout. Wakes on refresh
// completion rather than polling.
func (c *PostsCache) waitForPosts(e *feedEntry, query usecasecontract.PostsQuery) []entity.Post {
	deadline := time.Now().Add(query.WaitTimeout)
	for {
		e.mu.Lock()
		posts := e.selectPostsLocked(query.IncludeNew, query.NewOnly)
		updating := e.updating
		done := e.refreshDone
		e.mu.Unlock()

		if len(posts) > 0 || !updating {
			return posts
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return posts
		}
		timer := time.NewTimer(remaining)
		select {
		case <-done:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// getTagPosts serves a tag-scoped feed, falling back to filtering the main
// feed by tag while the dedicated tag feed is still being fetched.
func (c *PostsCache) getTagPosts(feedType, tag string, query usecasecontract.PostsQuery) []entity.Post {
	e := c.getOrCreateTagEntry(feedType, tag)

	posts := e.selectPosts(query.IncludeNew, query.NewOnly)
	e.mu.Lock()
	hasData := len(e.posts) > 0
	e.mu.Unlock()

	if hasData {
		if c.isEntryStale(e) {
			c.triggerRefresh(feedType, tag)
		}
		return posts
	}

	c.triggerRefresh(feedType, tag)
	if query.NewOnly {
		return posts
	}

	// Tag feed is cold: filter the main feed so the caller sees something.
	main := c.mainEntry(feedType)
	if main == nil {
		return []entity.Post{}
	}
	filtered := []entity.Post{}
	for _, p := range main.selectPosts(query.IncludeNew, false) {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (c *PostsCache) isEntryStale(e *feedEntry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUpdated.IsZero() || time.Since(e.lastUpdated) >= c.opts.RefreshInterval
}

// triggerRefresh launches a background refresh for the key unless one is
// already in flight. Fire and forget from the caller's perspective.
func (c *PostsCache) triggerRefresh(feedType, tag string) {
	if !c.running.Load() {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.refreshFeed(c.runCtx, feedType, tag, false)
	}()
}

// applyRefreshResult folds freshly fetched posts into the entry. During
// startup the fetched list replaces posts wholesale so the first pages have
// data as soon as possible; once startup completes, unseen posts are
// buffered in newPosts until an explicit merge and posts stays untouched.
// Returns the snapshot to persist and the number of posts classified new.
func (c *PostsCache) applyRefreshResult(e *feedEntry, fetched []entity.Post) (*Snapshot, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fresh := classifyNew(e.seen, fetched)
	if !c.startupComplete.Load() {
		e.posts = fetched
	} else {
		e.newPosts = append(e.newPosts, fresh...)
	}
	e.lastUpdated = time.Now()
	return e.snapshotLocked(), len(fresh)
}

// MergeNewPosts prepends the buffered new posts to the front of the main
// list and clears the buffer. Atomic with respect to concurrent refreshes
// of the same key. Returns the number of posts merged.
func (c *PostsCache) MergeNewPosts(feedType, tag string) int {
	e := c.entry(feedType, tag)
	if e == nil {
		return 0
	}

	e.mu.Lock()
	if len(e.newPosts) == 0 {
		e.mu.Unlock()
		return 0
	}
	merged := len(e.newPosts)
	combined := make([]entity.Post, 0, merged+len(e.posts))
	combined = append(combined, e.newPosts...)
	combined = append(combined, e.posts...)
	e.posts = combined
	e.newPosts = nil
	snap := e.snapshotLocked()
	e.mu.Unlock()

	c.writeSnapshot(snap)
	metrics.AddMergedPosts(merged)
	c.logger.Infof("merged %d new posts into %s", merged, cacheKey(feedType, tag))
	return merged
}

// NewPostCount returns how many unmerged new posts a feed key holds.
func (c *PostsCache) NewPostCount(feedType, tag string) int {
	e := c.entry(feedType, tag)
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.newPosts)
}

// IsFeedReady reports whether a main feed has posts and no refresh in flight.
func (c *PostsCache) IsFeedReady(feedType string) bool {
	e := c.mainEntry(feedType)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.posts) > 0 && !e.updating
}

// IsFeedUpdating reports whether a main feed refresh is currently in flight.
func (c *PostsCache) IsFeedUpdating(feedType string) bool {
	e := c.mainEntry(feedType)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updating
}

// IsFresh reports whether a feed key was refreshed within the refresh interval.
func (c *PostsCache) IsFresh(feedType, tag string) bool {
	e := c.entry(feedType, tag)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.lastUpdated.IsZero() && time.Since(e.lastUpdated) < c.opts.RefreshInterval
}

// StartupComplete reports whether the initial load pass has finished.
func (c *PostsCache) StartupComplete() bool {
	return c.startupComplete.Load()
}

// Initialized reports whether at least some feed data is available.
func (c *PostsCache) Initialized() bool {
	return c.initialized.Load()
}

// WaitForInitialization blocks until startup completes or the timeout
// elapses. Returns true if initialization finished in time.
func (c *PostsCache) WaitForInitialization(timeout time.Duration) bool {
	if c.initialized.Load() {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.initDone:
		return true
	case <-timer.C:
		return false
	}
}

// Status returns a status document describing every feed.
func (c *PostsCache) Status() usecasecontract.CacheStatus {
	status := usecasecontract.CacheStatus{
		Initialized:     c.initialized.Load(),
		StartupComplete: c.startupComplete.Load(),
		Running:         c.running.Load(),
		Feeds:           make(map[string]usecasecontract.FeedStatus, len(MainFeedTypes)),
	}

	c.mu.RLock()
	tagCount := len(c.tagFeeds)
	entries := make(map[string]*feedEntry, len(c.feeds))
	for ft, e := range c.feeds {
		entries[ft] = e
	}
	c.mu.RUnlock()

	for ft, e := range entries {
		e.mu.Lock()
		fs := usecasecontract.FeedStatus{
			PostCount: len(e.posts),
			NewCount:  len(e.newPosts),
			HasData:   len(e.posts) > 0,
			Updating:  e.updating,
		}
		if !e.lastUpdated.IsZero() {
			fs.LastUpdated = e.lastUpdated.Format(time.RFC3339)
		}
		e.mu.Unlock()
		status.Feeds[ft] = fs
	}
	status.TagCacheCount = tagCount
	return status
}

// SaveAll persists every feed with data to disk. Called after refreshes via
// writeSnapshot and once more, synchronously, on shutdown.
func (c *PostsCache) SaveAll() {
	c.logger.Infof("saving all feed caches to disk")
	for _, e := range c.allEntries() {
		e.mu.Lock()
		empty := len(e.posts) == 0 && len(e.newPosts) == 0
		var snap *Snapshot
		if !empty {
			snap = e.snapshotLocked()
		}
		e.mu.Unlock()
		if snap != nil {
			c.writeSnapshot(snap)
		}
	}
}

func (c *PostsCache) allEntries() []*feedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*feedEntry, 0, len(c.feeds)+len(c.tagFeeds))
	for _, e := range c.feeds {
		out = append(out, e)
	}
	for _, e := range c.tagFeeds {
		out = append(out, e)
	}
	return out
}

// writeSnapshot performs the disk write outside any entry lock. A failed
// write never affects in-memory state.
func (c *PostsCache) writeSnapshot(snap *Snapshot) {
	if len(snap.Posts) == 0 && len(snap.NewPosts) == 0 {
		return
	}
	if err := c.snapshots.save(snap); err != nil {
		c.logger.Errorf("saving cache for %s: %v", cacheKey(snap.FeedType, snap.Tag), err)
		return
	}
	c.logger.Infof("saved %d posts and %d new posts for %s", snap.Count, snap.NewCount, cacheKey(snap.FeedType, snap.Tag))
}

// ClearCacheFiles deletes on-disk snapshots older than the given age
// (0 meaning all) without touching in-memory state.
func (c *PostsCache) ClearCacheFiles(olderThan time.Duration) (int, error) {
	deleted, err := c.snapshots.clear(olderThan)
	if err != nil {
		return 0, err
	}
	c.logger.Infof("cleared %d cache files", deleted)
	return deleted, nil
}

// evictStaleTagFeeds drops tag feeds that have not refreshed within maxAge,
// bounding memory growth from long-tail tag queries.
func (c *PostsCache) evictStaleTagFeeds(maxAge time.Duration) {
	now := time.Now()
	c.mu.Lock()
	var evicted []string
	for key, e := range c.tagFeeds {
		e.mu.Lock()
		stale := !e.lastUpdated.IsZero() && now.Sub(e.lastUpdated) > maxAge
		e.mu.Unlock()
		if stale {
			delete(c.tagFeeds, key)
			evicted = append(evicted, key)
		}
	}
	c.mu.Unlock()

	if len(evicted) > 0 {
		c.logger.Infof("cleaned up %d stale tag caches", len(evicted))
	}
}

func truncatePosts(posts []entity.Post, limit int) []entity.Post {
	if posts == nil {
		return []entity.Post{}
	}
	if len(posts) > limit {
		return posts[:limit]
	}
	return posts
}
