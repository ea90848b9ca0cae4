package dto

import (
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// UserResponse is the DTO for a user profile.
type UserResponse struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	DisplayName *string           `json:"display_name"`
	About       *string           `json:"about"`
	AvatarURL   *string           `json:"avatar_url"`
	Preferences map[string]string `json:"preferences"`
	CreatedAt   string            `json:"created_at"`
}

// LoginResponse is the DTO for a successful login.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// converts an entity.User to a UserResponse DTO.
func ToUserResponse(user entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		About:       user.About,
		AvatarURL:   user.AvatarURL,
		Preferences: user.Preferences,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

// MessageResponse is a generic response for success/error messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
