package postscache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshotStore(t *testing.T) *snapshotStore {
	t.Helper()
	s, err := newSnapshotStore(t.TempDir(), logger.NewStdLogger())
	require.NoError(t, err)
	return s
}

func TestSnapshotPath(t *testing.T) {
	s := newTestSnapshotStore(t)

	assert.Equal(t, filepath.Join(s.dir, "trending.json"), s.path("trending", ""))
	assert.Equal(t, filepath.Join(s.dir, "trending_travel.json"), s.path("trending", "travel"))
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	s := newTestSnapshotStore(t)
	posts := makePosts("a", 3)
	snap := &Snapshot{
		Posts:       posts,
		NewPosts:    makePosts("b", 1),
		LastUpdated: time.Now().Format(time.RFC3339Nano),
		FeedType:    "trending",
		Count:       3,
		NewCount:    1,
		PostIDs:     []string{posts[0].ID, posts[1].ID, posts[2].ID},
	}

	require.NoError(t, s.save(snap))

	loaded, ok := s.load("trending", "", time.Hour)
	require.True(t, ok)
	assert.Len(t, loaded.Posts, 3)
	assert.Len(t, loaded.NewPosts, 1)
	assert.Equal(t, snap.LastUpdated, loaded.LastUpdated)
	assert.ElementsMatch(t, snap.PostIDs, loaded.PostIDs)
}

func TestSnapshotLoadMissingFile(t *testing.T) {
	s := newTestSnapshotStore(t)

	_, ok := s.load("trending", "", time.Hour)
	assert.False(t, ok)
}

func TestSnapshotLoadRejectsStaleFile(t *testing.T) {
	s := newTestSnapshotStore(t)
	snap := &Snapshot{
		Posts:       makePosts("a", 2),
		LastUpdated: time.Now().Format(time.RFC3339Nano),
		FeedType:    "trending",
		Count:       2,
	}
	require.NoError(t, s.save(snap))

	// Age the file past the staleness cutoff.
	old := time.Now().Add(-13 * time.Hour)
	require.NoError(t, os.Chtimes(s.path("trending", ""), old, old))

	_, ok := s.load("trending", "", 12*time.Hour)
	assert.False(t, ok)
}

func TestSnapshotLoadRejectsMalformedFile(t *testing.T) {
	s := newTestSnapshotStore(t)

	require.NoError(t, os.WriteFile(s.path("trending", ""), []byte("not json"), 0o644))
	_, ok := s.load("trending", "", time.Hour)
	assert.False(t, ok)

	// Structurally valid JSON missing the required fields is also rejected.
	require.NoError(t, os.WriteFile(s.path("hot", ""), []byte(`{"count": 3}`), 0o644))
	_, ok = s.load("hot", "", time.Hour)
	assert.False(t, ok)
}

func TestSnapshotFileShape(t *testing.T) {
	s := newTestSnapshotStore(t)
	snap := &Snapshot{
		Posts:       makePosts("a", 1),
		NewPosts:    []entity.Post{},
		LastUpdated: time.Now().Format(time.RFC3339Nano),
		FeedType:    "trending",
		Tag:         "travel",
		Count:       1,
	}
	require.NoError(t, s.save(snap))

	data, err := os.ReadFile(s.path("trending", "travel"))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"posts", "new_posts", "last_updated", "feed_type", "tag", "count", "new_count", "post_ids"} {
		assert.Contains(t, raw, key)
	}
}

func TestClearCacheFiles(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.setPosts("trending", "", makePosts("a", 2))
	fetcher.setPosts("hot", "", makePosts("b", 2))
	c := newTestCache(t, fetcher, Options{})

	c.refreshFeed(context.Background(), "trending", "", true)
	c.refreshFeed(context.Background(), "hot", "", true)

	// Nothing is old enough yet.
	deleted, err := c.ClearCacheFiles(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// Zero age means delete everything.
	deleted, err = c.ClearCacheFiles(0)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, ok := c.snapshots.load("trending", "", 0)
	assert.False(t, ok)
}

func TestSnapshotRoundTripThroughEntry(t *testing.T) {
	s := newTestSnapshotStore(t)

	e := newFeedEntry("trending", "")
	e.mu.Lock()
	e.posts = makePosts("a", 3)
	e.newPosts = makePosts("b", 2)
	e.lastUpdated = time.Now()
	for _, p := range append(e.posts, e.newPosts...) {
		e.seen[p.ID] = struct{}{}
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	require.NoError(t, s.save(snap))
	loaded, ok := s.load("trending", "", time.Hour)
	require.True(t, ok)

	restored := newFeedEntry("trending", "")
	restored.restoreSnapshot(loaded)

	restored.mu.Lock()
	defer restored.mu.Unlock()
	assert.Len(t, restored.posts, 3)
	assert.Len(t, restored.newPosts, 2)
	assert.Len(t, restored.seen, 5)
	assert.False(t, restored.lastUpdated.IsZero())
}

func TestRestoreSnapshotRebuildsSeenWhenMissing(t *testing.T) {
	posts := makePosts("a", 3)
	snap := &Snapshot{
		Posts:       posts,
		LastUpdated: time.Now().Format(time.RFC3339Nano),
		FeedType:    "trending",
		Count:       3,
	}

	e := newFeedEntry("trending", "")
	e.restoreSnapshot(snap)

	// Posts restored from a snapshot without post_ids must still count as
	// seen, or the next refresh would classify the whole feed as new.
	fresh := classifyNew(e.seen, posts)
	assert.Empty(t, fresh)
}
