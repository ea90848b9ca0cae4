package contract

import (
	"context"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// IUserRepository defines persistence operations for user profiles.
type IUserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	UpsertUser(ctx context.Context, user *entity.User) error
	UpdatePreferences(ctx context.Context, username string, prefs map[string]string) error
	TouchLastLogin(ctx context.Context, username string) error
}
