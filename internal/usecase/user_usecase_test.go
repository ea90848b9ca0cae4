package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/logger"
	"github.com/hivebuzz/hivebuzz/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo keeps users in a map.
type stubUserRepo struct {
	users map[string]*entity.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*entity.User)}
}

func (s *stubUserRepo) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s not found", username)
	}
	copied := *u
	return &copied, nil
}

func (s *stubUserRepo) UpsertUser(ctx context.Context, user *entity.User) error {
	if _, ok := s.users[user.Username]; !ok {
		u := *user
		u.ID = "id-" + user.Username
		u.CreatedAt = time.Now()
		s.users[user.Username] = &u
	}
	return nil
}

func (s *stubUserRepo) UpdatePreferences(ctx context.Context, username string, prefs map[string]string) error {
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("user %s not found", username)
	}
	if u.Preferences == nil {
		u.Preferences = make(map[string]string)
	}
	for k, v := range prefs {
		u.Preferences[k] = v
	}
	return nil
}

func (s *stubUserRepo) TouchLastLogin(ctx context.Context, username string) error {
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("user %s not found", username)
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

// stubSessionRepo keeps sessions in a map.
type stubSessionRepo struct {
	sessions map[string]*entity.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (s *stubSessionRepo) CreateSession(ctx context.Context, session *entity.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessionRepo) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return sess, nil
}

func (s *stubSessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *stubSessionRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// stubJWT produces predictable tokens and parses them back.
type stubJWT struct {
	tokens map[string]*entity.Claims
}

func newStubJWT() *stubJWT {
	return &stubJWT{tokens: make(map[string]*entity.Claims)}
}

func (s *stubJWT) GenerateAccessToken(sessionID, username string) (string, error) {
	token := "access-" + sessionID
	s.tokens[token] = &entity.Claims{SessionID: sessionID, Username: username}
	return token, nil
}

func (s *stubJWT) GenerateRefreshToken(sessionID, username string) (string, error) {
	token := "refresh-" + sessionID
	s.tokens[token] = &entity.Claims{SessionID: sessionID, Username: username}
	return token, nil
}

func (s *stubJWT) ParseAccessToken(token string) (*entity.Claims, error) {
	claims, ok := s.tokens[token]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return claims, nil
}

func (s *stubJWT) ParseRefreshToken(token string) (*entity.Claims, error) {
	return s.ParseAccessToken(token)
}

type stubUUIDGen struct{ n int }

func (s *stubUUIDGen) NewUUID() string {
	s.n++
	return fmt.Sprintf("uuid-%d", s.n)
}

type stubConfig struct{ sessionExpiry time.Duration }

func (s *stubConfig) GetAppBaseURL() string                 { return "http://localhost:8080" }
func (s *stubConfig) GetHiveAPIURL() string                 { return "http://localhost:9999" }
func (s *stubConfig) GetSessionExpiry() time.Duration       { return s.sessionExpiry }
func (s *stubConfig) GetFeedRefreshInterval() time.Duration { return 5 * time.Minute }
func (s *stubConfig) GetFeedCacheDir() string               { return "cache/posts" }
func (s *stubConfig) GetFeedCacheSize() int                 { return 50 }
func (s *stubConfig) GetPriorityFeeds() []string            { return []string{"trending", "hot"} }
func (s *stubConfig) GetMaxSnapshotAge() time.Duration      { return 12 * time.Hour }
func (s *stubConfig) GetTagFeedEvictionAge() time.Duration  { return time.Hour }

func newTestUserUsecase() (*usecase.UserUsecase, *stubUserRepo, *stubSessionRepo, *stubActivityRepo) {
	userRepo := newStubUserRepo()
	sessionRepo := newStubSessionRepo()
	activityRepo := &stubActivityRepo{}
	uc := usecase.NewUserUsecase(
		userRepo, sessionRepo, nil, activityRepo,
		newStubJWT(), &stubUUIDGen{}, &stubConfig{sessionExpiry: 72 * time.Hour},
		logger.NewStdLogger(),
	)
	return uc, userRepo, sessionRepo, activityRepo
}

func TestLoginCreatesUserAndSession(t *testing.T) {
	uc, userRepo, sessionRepo, activityRepo := newTestUserUsecase()

	user, access, refresh, err := uc.Login(context.Background(), "Alice", entity.AuthMethodKeychain)
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotNil(t, userRepo.users["alice"].LastLoginAt)

	require.Len(t, sessionRepo.sessions, 1)
	for _, sess := range sessionRepo.sessions {
		assert.Equal(t, "alice", sess.Username)
		assert.Equal(t, entity.AuthMethodKeychain, sess.AuthMethod)
		assert.WithinDuration(t, time.Now().Add(72*time.Hour), sess.ExpiresAt, time.Minute)
	}

	require.Len(t, activityRepo.logged, 1)
	assert.Equal(t, "login", activityRepo.logged[0].Type)
}

func TestLoginRejectsInvalidUsername(t *testing.T) {
	uc, _, _, _ := newTestUserUsecase()

	for _, name := range []string{"", "ab", "UPPER CASE WITH SPACES", "0startswithdigit"} {
		_, _, _, err := uc.Login(context.Background(), name, entity.AuthMethodKeychain)
		assert.ErrorIs(t, err, usecase.ErrInvalidUsername, name)
	}
}

func TestLoginRejectsUnknownAuthMethod(t *testing.T) {
	uc, _, _, _ := newTestUserUsecase()

	_, _, _, err := uc.Login(context.Background(), "alice", entity.AuthMethod("carrier-pigeon"))
	assert.ErrorIs(t, err, usecase.ErrInvalidAuthMethod)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	uc, _, _, _ := newTestUserUsecase()

	_, access, _, err := uc.Login(context.Background(), "alice", entity.AuthMethodHiveAuth)
	require.NoError(t, err)

	claims, session, err := uc.Authenticate(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, entity.AuthMethodHiveAuth, session.AuthMethod)
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	uc, _, _, _ := newTestUserUsecase()

	_, _, err := uc.Authenticate(context.Background(), "bogus")
	assert.ErrorIs(t, err, usecase.ErrInvalidToken)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	uc, _, sessionRepo, _ := newTestUserUsecase()

	_, access, _, err := uc.Login(context.Background(), "alice", entity.AuthMethodKeychain)
	require.NoError(t, err)

	for _, sess := range sessionRepo.sessions {
		sess.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, _, err = uc.Authenticate(context.Background(), access)
	assert.ErrorIs(t, err, usecase.ErrSessionExpired)
	// The expired session gets cleaned up.
	assert.Empty(t, sessionRepo.sessions)
}

func TestLogoutRemovesSession(t *testing.T) {
	uc, _, sessionRepo, _ := newTestUserUsecase()

	_, access, _, err := uc.Login(context.Background(), "alice", entity.AuthMethodKeychain)
	require.NoError(t, err)
	claims, _, err := uc.Authenticate(context.Background(), access)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), claims.SessionID))
	assert.Empty(t, sessionRepo.sessions)
}

func TestUpdatePreferencesMerges(t *testing.T) {
	uc, _, _, _ := newTestUserUsecase()

	_, _, _, err := uc.Login(context.Background(), "alice", entity.AuthMethodKeychain)
	require.NoError(t, err)

	user, err := uc.UpdatePreferences(context.Background(), "alice", map[string]string{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", user.Preferences["theme"])

	user, err = uc.UpdatePreferences(context.Background(), "alice", map[string]string{"lang": "en"})
	require.NoError(t, err)
	assert.Equal(t, "dark", user.Preferences["theme"])
	assert.Equal(t, "en", user.Preferences["lang"])
}
