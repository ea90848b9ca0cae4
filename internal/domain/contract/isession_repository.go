package contract

import (
	"context"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// ISessionRepository defines persistence operations for login sessions.
type ISessionRepository interface {
	CreateSession(ctx context.Context, session *entity.Session) error
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// ISessionCache is an optional read-through cache in front of the
// session repository.
type ISessionCache interface {
	GetSession(ctx context.Context, sessionID string) (*entity.Session, bool, error)
	SetSession(ctx context.Context, session *entity.Session) error
	InvalidateSession(ctx context.Context, sessionID string) error
}
