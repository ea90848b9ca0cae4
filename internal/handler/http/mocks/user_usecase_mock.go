package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// MockUserUsecase is a mock implementation of the IUserUseCase interface
type MockUserUsecase struct {
	// Control mock behavior
	ShouldFailLogin        bool
	ShouldFailLogout       bool
	ShouldFailAuthenticate bool
	ShouldFailGetProfile   bool
	ShouldFailUpdatePrefs  bool

	// Return values
	MockUser         entity.User
	MockSession      entity.Session
	MockAccessToken  string
	MockRefreshToken string
}

// Ensure MockUserUsecase implements the correct interface for handler.NewUserHandler
var _ usecasecontract.IUserUseCase = (*MockUserUsecase)(nil)

func NewMockUserUsecase() *MockUserUsecase {
	return &MockUserUsecase{
		MockUser: entity.User{
			ID:       "mock-user-id",
			Username: "testuser",
		},
		MockSession: entity.Session{
			ID:         "mock-session-id",
			Username:   "testuser",
			AuthMethod: entity.AuthMethodKeychain,
			CreatedAt:  time.Now(),
			ExpiresAt:  time.Now().Add(time.Hour),
		},
		MockAccessToken:  "mock_access_token",
		MockRefreshToken: "mock_refresh_token",
	}
}

func (m *MockUserUsecase) Login(ctx context.Context, username string, method entity.AuthMethod) (*entity.User, string, string, error) {
	if m.ShouldFailLogin {
		return nil, "", "", errors.New("login failed")
	}
	return &m.MockUser, m.MockAccessToken, m.MockRefreshToken, nil
}

func (m *MockUserUsecase) Logout(ctx context.Context, sessionID string) error {
	if m.ShouldFailLogout {
		return errors.New("logout failed")
	}
	return nil
}

func (m *MockUserUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.Claims, *entity.Session, error) {
	if m.ShouldFailAuthenticate {
		return nil, nil, errors.New("authentication failed")
	}
	return &entity.Claims{
		SessionID: m.MockSession.ID,
		Username:  m.MockSession.Username,
	}, &m.MockSession, nil
}

func (m *MockUserUsecase) GetProfile(ctx context.Context, username string) (*entity.User, error) {
	if m.ShouldFailGetProfile {
		return nil, errors.New("user not found")
	}
	return &m.MockUser, nil
}

func (m *MockUserUsecase) UpdatePreferences(ctx context.Context, username string, prefs map[string]string) (*entity.User, error) {
	if m.ShouldFailUpdatePrefs {
		return nil, errors.New("update failed")
	}
	updated := m.MockUser
	updated.Preferences = prefs
	return &updated, nil
}
