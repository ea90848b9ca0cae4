package postscache

import (
	"sync"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// feedEntry is the in-memory state for one feed key. All fields behind mu
// are mutated as one unit: posts, newPosts, lastUpdated and updating are
// never observed half-changed.
type feedEntry struct {
	feedType string
	tag      string

	mu          sync.Mutex
	posts       []entity.Post
	newPosts    []entity.Post
	lastUpdated time.Time
	updating    bool
	refreshDone chan struct{} // non-nil while a refresh is in flight, closed when it ends
	seen        map[string]struct{}
}

func newFeedEntry(feedType, tag string) *feedEntry {
	return &feedEntry{
		feedType: feedType,
		tag:      tag,
		seen:     make(map[string]struct{}),
	}
}

// beginUpdate flips the updating flag. It returns false when a refresh is
// already in flight for this entry, so concurrent refresh requests for the
// same key are dropped rather than queued.
func (e *feedEntry) beginUpdate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.updating {
		return false
	}
	e.updating = true
	e.refreshDone = make(chan struct{})
	return true
}

// endUpdate clears the updating flag and wakes every caller waiting on the
// current refresh.
func (e *feedEntry) endUpdate() {
	e.mu.Lock()
	e.updating = false
	if e.refreshDone != nil {
		close(e.refreshDone)
		e.refreshDone = nil
	}
	e.mu.Unlock()
}

// awaitRefresh blocks until the in-flight refresh (if any) finishes or the
// timeout elapses.
func (e *feedEntry) awaitRefresh(timeout time.Duration) {
	e.mu.Lock()
	done := e.refreshDone
	e.mu.Unlock()
	if done == nil {
		return
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}
}

// selectPosts returns a copy of the requested post list.
func (e *feedEntry) selectPosts(includeNew, newOnly bool) []entity.Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectPostsLocked(includeNew, newOnly)
}

func (e *feedEntry) selectPostsLocked(includeNew, newOnly bool) []entity.Post {
	switch {
	case newOnly:
		return append([]entity.Post(nil), e.newPosts...)
	case includeNew:
		out := make([]entity.Post, 0, len(e.posts)+len(e.newPosts))
		out = append(out, e.posts...)
		return append(out, e.newPosts...)
	default:
		return append([]entity.Post(nil), e.posts...)
	}
}

// snapshotLocked builds the persisted form of the entry. Caller holds e.mu.
func (e *feedEntry) snapshotLocked() *Snapshot {
	ids := make([]string, 0, len(e.seen))
	for id := range e.seen {
		ids = append(ids, id)
	}
	updated := e.lastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	return &Snapshot{
		Posts:       append([]entity.Post(nil), e.posts...),
		NewPosts:    append([]entity.Post(nil), e.newPosts...),
		LastUpdated: updated.Format(time.RFC3339Nano),
		FeedType:    e.feedType,
		Tag:         e.tag,
		Count:       len(e.posts),
		NewCount:    len(e.newPosts),
		PostIDs:     ids,
	}
}

// restoreSnapshot replaces the entry's state with a previously persisted
// snapshot. Used only during startup, before any refresh runs.
func (e *feedEntry) restoreSnapshot(snap *Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.posts = append([]entity.Post(nil), snap.Posts...)
	e.newPosts = append([]entity.Post(nil), snap.NewPosts...)
	if t, err := time.Parse(time.RFC3339Nano, snap.LastUpdated); err == nil {
		e.lastUpdated = t
	}
	e.seen = make(map[string]struct{}, len(snap.PostIDs))
	for _, id := range snap.PostIDs {
		e.seen[id] = struct{}{}
	}
	if len(e.seen) == 0 {
		// Older snapshots may lack post_ids; rebuild from the post lists.
		for _, p := range snap.Posts {
			if p.ID != "" {
				e.seen[p.ID] = struct{}{}
			}
		}
		for _, p := range snap.NewPosts {
			if p.ID != "" {
				e.seen[p.ID] = struct{}{}
			}
		}
	}
}
