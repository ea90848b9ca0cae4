package usecase

import (
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// JWTService defines the interface for JWT operations.
type JWTService interface {
	GenerateAccessToken(sessionID, username string) (string, error)
	GenerateRefreshToken(sessionID, username string) (string, error)
	ParseAccessToken(token string) (*entity.Claims, error)
	ParseRefreshToken(token string) (*entity.Claims, error)
}
