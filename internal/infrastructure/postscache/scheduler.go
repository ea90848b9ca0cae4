package postscache

import (
	"context"
	"sync"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/infrastructure/metrics"
)

// Start loads persisted snapshots, kicks off the priority feed load and the
// steady-state refresh loop. It returns immediately; Start never waits on
// the upstream API.
func (c *PostsCache) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.runCtx, c.cancel = context.WithCancel(ctx)

	c.logger.Infof("loading cached posts from disk")
	loaded := 0
	for _, ft := range MainFeedTypes {
		if snap, ok := c.snapshots.load(ft, "", c.opts.MaxSnapshotAge); ok {
			c.mainEntry(ft).restoreSnapshot(snap)
			loaded++
			c.logger.Infof("loaded %d posts for %s feed from cache", len(snap.Posts), ft)
		} else {
			c.logger.Infof("no valid cache found for %s feed", ft)
		}
	}
	if loaded > 0 {
		// Something is visible already; the UI can render real data.
		c.initialized.Store(true)
	} else {
		c.logger.Warningf("no valid cache files found, will initialize from blockchain")
	}

	priorityDone := make(chan struct{})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(priorityDone)
		c.loadPriorityFeeds(c.runCtx)
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.refreshLoop(c.runCtx, priorityDone)
	}()
	c.logger.Infof("posts cache background refresh started")
}

// Stop halts the scheduler, gives in-flight refreshes a bounded grace
// period, then synchronously persists all feed state. The final save always
// runs, even when refresh goroutines are still winding down.
func (c *PostsCache) Stop(grace time.Duration) {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	c.cancel()
	if !waitWithTimeout(&c.wg, grace) {
		c.logger.Warningf("posts cache shutdown grace period elapsed with refreshes in flight")
	}
	c.SaveAll()
	c.logger.Infof("posts cache background refresh stopped")
}

// loadPriorityFeeds refreshes the designated priority feeds first. A feed
// that already has snapshot data refreshes in the background; a feed with
// nothing at all refreshes synchronously so the first request has content.
// This is the only deliberately blocking fetch, and only during startup.
func (c *PostsCache) loadPriorityFeeds(ctx context.Context) {
	for _, ft := range c.opts.PriorityFeeds {
		e := c.mainEntry(ft)
		if e == nil {
			continue
		}
		e.mu.Lock()
		cached := len(e.posts)
		e.mu.Unlock()

		if cached > 0 {
			c.logger.Infof("already have %d cached posts for %s, refreshing in background", cached, ft)
			c.wg.Add(1)
			go func(ft string) {
				defer c.wg.Done()
				c.refreshFeed(ctx, ft, "", false)
			}(ft)
		} else {
			c.logger.Infof("no cached posts for %s, blocking until loaded", ft)
			c.refreshFeed(ctx, ft, "", true)
		}
	}
	c.initialized.Store(true)
}

// refreshLoop performs the initial pass over the remaining feeds, marks
// startup complete once both that pass and the priority load are done, then
// refreshes everything on a fixed interval. Iteration boundaries are
// cancellable so shutdown is prompt.
func (c *PostsCache) refreshLoop(ctx context.Context, priorityDone <-chan struct{}) {
	c.refreshRemainingFeeds(ctx)

	// Join the priority load, bounded: steady state must start even if the
	// upstream is hanging.
	select {
	case <-priorityDone:
	case <-time.After(refreshTimeout):
	case <-ctx.Done():
	}

	c.startupComplete.Store(true)
	c.initialized.Store(true)
	c.initOnce.Do(func() { close(c.initDone) })
	c.logger.Infof("posts cache initialization complete")

	ticker := time.NewTicker(c.opts.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshAllFeeds(ctx)
			c.evictStaleTagFeeds(c.opts.TagEvictionAge)
		}
	}
}

// refreshAllFeeds refreshes every main feed concurrently, joining with a
// timeout so one hung upstream call cannot stall the interval loop.
func (c *PostsCache) refreshAllFeeds(ctx context.Context) {
	var wg sync.WaitGroup
	for _, ft := range MainFeedTypes {
		wg.Add(1)
		go func(ft string) {
			defer wg.Done()
			c.refreshFeed(ctx, ft, "", false)
		}(ft)
	}
	waitWithTimeout(&wg, refreshTimeout)
}

// refreshRemainingFeeds does the initial refresh of non-priority feeds;
// priority feeds are handled by loadPriorityFeeds.
func (c *PostsCache) refreshRemainingFeeds(ctx context.Context) {
	var wg sync.WaitGroup
	for _, ft := range MainFeedTypes {
		if c.isPriorityFeed(ft) {
			continue
		}
		wg.Add(1)
		go func(ft string) {
			defer wg.Done()
			c.refreshFeed(ctx, ft, "", false)
		}(ft)
	}
	waitWithTimeout(&wg, refreshTimeout)
}

// refreshFeed fetches one feed key and folds the result into the cache.
// Failures are logged and leave existing cached data untouched; a concurrent
// refresh of the same key causes this one to be dropped (or, when block is
// set, waited on) rather than doubled up.
func (c *PostsCache) refreshFeed(ctx context.Context, feedType, tag string, block bool) {
	key := cacheKey(feedType, tag)

	var e *feedEntry
	if tag != "" {
		e = c.getOrCreateTagEntry(feedType, tag)
	} else {
		e = c.mainEntry(feedType)
		if e == nil {
			c.logger.Warningf("refresh requested for unknown feed type %q", feedType)
			return
		}
	}

	if !e.beginUpdate() {
		if block {
			e.awaitRefresh(refreshTimeout)
		}
		return
	}
	defer e.endUpdate()

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	fetched, err := c.fetcher.FetchFeed(fetchCtx, feedType, tag, c.opts.CacheSize)
	metrics.ObserveRefreshDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.IncRefreshFailed(feedType)
		c.logger.Errorf("error refreshing %s posts: %v", key, err)
		return
	}

	fetched = normalizePosts(fetched)
	if len(fetched) == 0 {
		metrics.IncRefreshFailed(feedType)
		c.logger.Warningf("no posts returned for %s, keeping existing cache", key)
		return
	}

	snap, fresh := c.applyRefreshResult(e, fetched)
	metrics.IncRefreshOK(feedType)
	c.logger.Infof("updated %s posts cache with %d posts (%d new) in %s",
		key, len(fetched), fresh, time.Since(start).Round(time.Millisecond))
	c.writeSnapshot(snap)
}

func waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
