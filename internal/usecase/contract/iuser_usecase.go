package usecasecontract

import (
	"context"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// IUserUseCase defines session and profile business logic.
type IUserUseCase interface {
	Login(ctx context.Context, username string, method entity.AuthMethod) (*entity.User, string, string, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, accessToken string) (*entity.Claims, *entity.Session, error)
	GetProfile(ctx context.Context, username string) (*entity.User, error)
	UpdatePreferences(ctx context.Context, username string, prefs map[string]string) (*entity.User, error)
}
