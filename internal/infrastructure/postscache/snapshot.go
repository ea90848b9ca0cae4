package postscache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/metrics"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// Snapshot is the on-disk serialized form of one feed key's cached state.
type Snapshot struct {
	Posts       []entity.Post `json:"posts"`
	NewPosts    []entity.Post `json:"new_posts"`
	LastUpdated string        `json:"last_updated"`
	FeedType    string        `json:"feed_type"`
	Tag         string        `json:"tag,omitempty"`
	Count       int           `json:"count"`
	NewCount    int           `json:"new_count"`
	PostIDs     []string      `json:"post_ids"`
}

// snapshotStore persists feed snapshots as one JSON file per feed key.
// It holds no state beyond the directory; all post state lives in the cache.
type snapshotStore struct {
	dir    string
	logger usecasecontract.IAppLogger
}

func newSnapshotStore(dir string, logger usecasecontract.IAppLogger) (*snapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &snapshotStore{dir: dir, logger: logger}, nil
}

func (s *snapshotStore) path(feedType, tag string) string {
	name := feedType + ".json"
	if tag != "" {
		name = feedType + "_" + tag + ".json"
	}
	return filepath.Join(s.dir, name)
}

// load reads a snapshot from disk. A missing, stale or malformed file is
// treated as no snapshot; the feed starts cold and the next refresh fills it.
func (s *snapshotStore) load(feedType, tag string, maxAge time.Duration) (*Snapshot, bool) {
	file := s.path(feedType, tag)

	info, err := os.Stat(file)
	if err != nil {
		return nil, false
	}
	if maxAge > 0 {
		if age := time.Since(info.ModTime()); age > maxAge {
			s.logger.Infof("cache file %s is too old (%s), will refresh", file, age.Round(time.Second))
			return nil, false
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		s.logger.Warningf("reading cache file %s: %v", file, err)
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warningf("invalid cache file %s: %v", file, err)
		return nil, false
	}
	if snap.Posts == nil || snap.LastUpdated == "" {
		s.logger.Warningf("invalid cache file format: %s", file)
		return nil, false
	}
	return &snap, true
}

// save writes a snapshot to disk. Failures are logged and reported but never
// affect in-memory state; the next successful refresh retries the write.
func (s *snapshotStore) save(snap *Snapshot) error {
	file := s.path(snap.FeedType, snap.Tag)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		metrics.IncSnapshotWriteFailed()
		return fmt.Errorf("encoding snapshot for %s: %w", file, err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		metrics.IncSnapshotWriteFailed()
		return fmt.Errorf("writing snapshot %s: %w", file, err)
	}
	metrics.IncSnapshotWriteOK()
	return nil
}

// clear deletes snapshot files older than the given age; 0 deletes all.
// In-memory state is not touched.
func (s *snapshotStore) clear(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("listing cache directory %s: %w", s.dir, err)
	}

	deleted := 0
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		file := filepath.Join(s.dir, entry.Name())
		if olderThan > 0 {
			info, err := entry.Info()
			if err != nil || now.Sub(info.ModTime()) <= olderThan {
				continue
			}
		}
		if err := os.Remove(file); err != nil {
			s.logger.Errorf("deleting cache file %s: %v", file, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}
