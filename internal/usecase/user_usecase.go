package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

var (
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidAuthMethod = errors.New("invalid auth method")
	ErrSessionExpired    = errors.New("session expired")
	ErrInvalidToken      = errors.New("invalid token")
)

// Hive account names: 3-16 chars, lowercase letters, digits, dots, dashes.
var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9.-]{2,15}$`)

// UserUsecase handles login sessions and profile state. The actual key
// verification (keychain signature, hiveauth challenge) happens on the
// client against the blockchain; by the time Login is called the identity
// is established and we only maintain the server-side session.
type UserUsecase struct {
	userRepo     contract.IUserRepository
	sessionRepo  contract.ISessionRepository
	sessionCache contract.ISessionCache
	activityRepo contract.IActivityRepository
	jwtService   JWTService
	uuidGen      contract.IUUIDGenerator
	config       usecasecontract.IConfigProvider
	logger       usecasecontract.IAppLogger
}

// NewUserUsecase creates a new instance of UserUsecase. sessionCache may be
// nil when no cache backend is configured.
func NewUserUsecase(
	userRepo contract.IUserRepository,
	sessionRepo contract.ISessionRepository,
	sessionCache contract.ISessionCache,
	activityRepo contract.IActivityRepository,
	jwtService JWTService,
	uuidGen contract.IUUIDGenerator,
	config usecasecontract.IConfigProvider,
	logger usecasecontract.IAppLogger,
) *UserUsecase {
	return &UserUsecase{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		sessionCache: sessionCache,
		activityRepo: activityRepo,
		jwtService:   jwtService,
		uuidGen:      uuidGen,
		config:       config,
		logger:       logger,
	}
}

// check if UserUsecase implements the IUserUseCase
var _ usecasecontract.IUserUseCase = (*UserUsecase)(nil)

// Login establishes a session for a verified blockchain account and returns
// the user profile plus an access/refresh token pair.
func (uc *UserUsecase) Login(ctx context.Context, username string, method entity.AuthMethod) (*entity.User, string, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, "", "", ErrInvalidUsername
	}
	switch method {
	case entity.AuthMethodKeychain, entity.AuthMethodHiveAuth, entity.AuthMethodDemo:
	default:
		return nil, "", "", ErrInvalidAuthMethod
	}

	user := &entity.User{Username: username}
	if err := uc.userRepo.UpsertUser(ctx, user); err != nil {
		return nil, "", "", err
	}
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", "", err
	}

	now := time.Now()
	session := &entity.Session{
		ID:         uc.uuidGen.NewUUID(),
		Username:   username,
		AuthMethod: method,
		CreatedAt:  now,
		ExpiresAt:  now.Add(uc.config.GetSessionExpiry()),
	}
	if err := uc.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, "", "", err
	}
	if uc.sessionCache != nil {
		if err := uc.sessionCache.SetSession(ctx, session); err != nil {
			uc.logger.Warningf("failed to cache session %s: %v", session.ID, err)
		}
	}

	accessToken, err := uc.jwtService.GenerateAccessToken(session.ID, username)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := uc.jwtService.GenerateRefreshToken(session.ID, username)
	if err != nil {
		return nil, "", "", err
	}

	if err := uc.userRepo.TouchLastLogin(ctx, username); err != nil {
		uc.logger.Warningf("failed to record last login for %s: %v", username, err)
	}
	if uc.activityRepo != nil {
		activity := &entity.Activity{
			Username: username,
			Type:     "login",
			Details:  map[string]string{"method": string(method)},
		}
		if err := uc.activityRepo.LogActivity(ctx, activity); err != nil {
			uc.logger.Warningf("failed to log login activity: %v", err)
		}
	}

	return user, accessToken, refreshToken, nil
}

// Logout removes the session from the store and cache.
func (uc *UserUsecase) Logout(ctx context.Context, sessionID string) error {
	if uc.sessionCache != nil {
		if err := uc.sessionCache.InvalidateSession(ctx, sessionID); err != nil {
			uc.logger.Warningf("failed to invalidate cached session %s: %v", sessionID, err)
		}
	}
	return uc.sessionRepo.DeleteSession(ctx, sessionID)
}

// Authenticate verifies an access token and resolves its session,
// preferring the session cache over the repository.
func (uc *UserUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.Claims, *entity.Session, error) {
	claims, err := uc.jwtService.ParseAccessToken(accessToken)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	var session *entity.Session
	if uc.sessionCache != nil {
		cached, ok, err := uc.sessionCache.GetSession(ctx, claims.SessionID)
		if err != nil {
			uc.logger.Warningf("session cache lookup failed: %v", err)
		} else if ok {
			session = cached
		}
	}
	if session == nil {
		session, err = uc.sessionRepo.GetSession(ctx, claims.SessionID)
		if err != nil {
			return nil, nil, err
		}
		if uc.sessionCache != nil {
			if err := uc.sessionCache.SetSession(ctx, session); err != nil {
				uc.logger.Warningf("failed to cache session %s: %v", session.ID, err)
			}
		}
	}

	if session.Expired() {
		if err := uc.Logout(ctx, session.ID); err != nil {
			uc.logger.Warningf("failed to remove expired session %s: %v", session.ID, err)
		}
		return nil, nil, ErrSessionExpired
	}
	if session.Username != claims.Username {
		return nil, nil, ErrInvalidToken
	}
	return claims, session, nil
}

// GetProfile returns the stored profile for a username.
func (uc *UserUsecase) GetProfile(ctx context.Context, username string) (*entity.User, error) {
	return uc.userRepo.GetUserByUsername(ctx, strings.ToLower(username))
}

// UpdatePreferences merges the given preference keys into the user's
// stored preferences and returns the updated profile.
func (uc *UserUsecase) UpdatePreferences(ctx context.Context, username string, prefs map[string]string) (*entity.User, error) {
	username = strings.ToLower(username)
	if err := uc.userRepo.UpdatePreferences(ctx, username, prefs); err != nil {
		return nil, err
	}
	return uc.userRepo.GetUserByUsername(ctx, username)
}
