package jwt

import (
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/usecase"
)

// JWTServiceAdapter adapts JWTManager to the usecase.JWTService interface.
type JWTServiceAdapter struct {
	mgr *JWTManager
}

// NewJWTService creates a new usecase.JWTService from JWTManager
func NewJWTService(mgr *JWTManager) usecase.JWTService {
	return &JWTServiceAdapter{mgr: mgr}
}

// GenerateAccessToken issues an access token for a session.
func (a *JWTServiceAdapter) GenerateAccessToken(sessionID, username string) (string, error) {
	return a.mgr.GenerateAccessToken(sessionID, username)
}

// GenerateRefreshToken issues a refresh token for a session.
func (a *JWTServiceAdapter) GenerateRefreshToken(sessionID, username string) (string, error) {
	return a.mgr.GenerateRefreshToken(sessionID, username)
}

// ParseAccessToken validates an access token and returns Claims.
func (a *JWTServiceAdapter) ParseAccessToken(tokenStr string) (*entity.Claims, error) {
	customClaims, err := a.mgr.VerifyAccessToken(tokenStr)
	if err != nil {
		return nil, err
	}
	return &entity.Claims{
		SessionID: customClaims.Subject,
		Username:  customClaims.Username,
	}, nil
}

// ParseRefreshToken validates a refresh token and returns Claims.
func (a *JWTServiceAdapter) ParseRefreshToken(tokenStr string) (*entity.Claims, error) {
	customClaims, err := a.mgr.VerifyRefreshToken(tokenStr)
	if err != nil {
		return nil, err
	}
	return &entity.Claims{
		SessionID: customClaims.Subject,
		Username:  customClaims.Username,
	}, nil
}
