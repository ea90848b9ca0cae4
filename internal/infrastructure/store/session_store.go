package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// SessionCacheStore is a redis read-through cache in front of the session
// repository. Misses and redis errors both fall back to the repository.
type SessionCacheStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionCacheStore(rdb *redis.Client) *SessionCacheStore {
	return &SessionCacheStore{
		rdb: rdb,
		ttl: 15 * time.Minute,
	}
}

var _ contract.ISessionCache = (*SessionCacheStore)(nil)

func sessionKey(sessionID string) string { return fmt.Sprintf("session:%s", sessionID) }

func (c *SessionCacheStore) GetSession(ctx context.Context, sessionID string) (*entity.Session, bool, error) {
	b, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var session entity.Session
	if err := json.Unmarshal(b, &session); err != nil {
		return nil, false, nil
	}
	return &session, true, nil
}

func (c *SessionCacheStore) SetSession(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := c.ttl
	if remaining := time.Until(session.ExpiresAt); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	return c.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

func (c *SessionCacheStore) InvalidateSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
