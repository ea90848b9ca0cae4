package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	"github.com/hivebuzz/hivebuzz/internal/handler/http/dto"
	"github.com/hivebuzz/hivebuzz/internal/usecase"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// UserHandlerInterface defines the methods for User handler to allow interface-based dependency injection (for testing/mocking)
type UserHandlerInterface interface {
	Login(*gin.Context)
	Logout(*gin.Context)
	GetCurrentUser(*gin.Context)
	UpdatePreferences(*gin.Context)
}

// Ensure UserHandler implements UserHandlerInterface
var _ UserHandlerInterface = (*UserHandler)(nil)

type UserHandler struct {
	userUsecase usecasecontract.IUserUseCase
}

func NewUserHandler(userUsecase usecasecontract.IUserUseCase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// Login creates a session for a verified blockchain account.
func (h *UserHandler) Login(cxt *gin.Context) {
	var req dto.LoginRequest
	if err := BindAndValidate(cxt, &req); err != nil {
		return
	}

	user, accessToken, refreshToken, err := h.userUsecase.Login(cxt.Request.Context(), req.Username, entity.AuthMethod(req.AuthMethod))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidUsername) || errors.Is(err, usecase.ErrInvalidAuthMethod) {
			ErrorHandler(cxt, http.StatusBadRequest, err.Error())
			return
		}
		ErrorHandler(cxt, http.StatusInternalServerError, "Failed to log in")
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.LoginResponse{
		User:         dto.ToUserResponse(*user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout invalidates the session behind the presented access token.
func (h *UserHandler) Logout(cxt *gin.Context) {
	var req dto.LogoutRequest
	_ = cxt.ShouldBindJSON(&req)

	token := req.AccessToken
	if token == "" {
		token = bearerToken(cxt)
	}
	if token == "" {
		ErrorHandler(cxt, http.StatusBadRequest, "Missing access token")
		return
	}

	claims, _, err := h.userUsecase.Authenticate(cxt.Request.Context(), token)
	if err != nil {
		// an expired session is already gone; treat it as logged out
		if errors.Is(err, usecase.ErrSessionExpired) {
			MessageHandler(cxt, http.StatusOK, "Logged out")
			return
		}
		ErrorHandler(cxt, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.userUsecase.Logout(cxt.Request.Context(), claims.SessionID); err != nil {
		ErrorHandler(cxt, http.StatusInternalServerError, "Failed to log out")
		return
	}

	MessageHandler(cxt, http.StatusOK, "Logged out")
}

// GetCurrentUser returns the profile of the authenticated user.
func (h *UserHandler) GetCurrentUser(cxt *gin.Context) {
	username := cxt.GetString("username")
	if username == "" {
		ErrorHandler(cxt, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.userUsecase.GetProfile(cxt.Request.Context(), username)
	if err != nil {
		ErrorHandler(cxt, http.StatusNotFound, "User not found")
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ToUserResponse(*user))
}

// UpdatePreferences merges preference keys into the authenticated user's
// profile.
func (h *UserHandler) UpdatePreferences(cxt *gin.Context) {
	username := cxt.GetString("username")
	if username == "" {
		ErrorHandler(cxt, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := BindAndValidate(cxt, &req); err != nil {
		return
	}

	user, err := h.userUsecase.UpdatePreferences(cxt.Request.Context(), username, req.Preferences)
	if err != nil {
		ErrorHandler(cxt, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ToUserResponse(*user))
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(cxt *gin.Context) string {
	header := cxt.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
