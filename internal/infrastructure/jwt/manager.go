package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// CustomClaims carries the session identity inside a signed token.
// Subject holds the session ID.
type CustomClaims struct {
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies session tokens.
type JWTManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTManager creates a manager with the given signing secret.
func NewJWTManager(secret string, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		accessExpiry:  15 * time.Minute,
		refreshExpiry: refreshExpiry,
	}
}

func (m *JWTManager) generate(sessionID, username, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GenerateAccessToken issues a short-lived access token for a session.
func (m *JWTManager) GenerateAccessToken(sessionID, username string) (string, error) {
	return m.generate(sessionID, username, tokenTypeAccess, m.accessExpiry)
}

// GenerateRefreshToken issues a refresh token bound to the session lifetime.
func (m *JWTManager) GenerateRefreshToken(sessionID, username string) (string, error) {
	return m.generate(sessionID, username, tokenTypeRefresh, m.refreshExpiry)
}

func (m *JWTManager) verify(tokenStr, wantType string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (m *JWTManager) VerifyAccessToken(tokenStr string) (*CustomClaims, error) {
	return m.verify(tokenStr, tokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (m *JWTManager) VerifyRefreshToken(tokenStr string) (*CustomClaims, error) {
	return m.verify(tokenStr, tokenTypeRefresh)
}
