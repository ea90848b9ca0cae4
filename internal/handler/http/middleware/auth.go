package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// AuthMiddleWare validates the bearer access token, resolves its session
// and puts the identity on the gin context under "username", "sessionID"
// and "authMethod".
func AuthMiddleWare(userUsecase usecasecontract.IUserUseCase) gin.HandlerFunc {
	return func(cxt *gin.Context) {
		token := extractBearer(cxt)
		if token == "" {
			cxt.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
			return
		}

		claims, session, err := userUsecase.Authenticate(cxt.Request.Context(), token)
		if err != nil {
			cxt.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		cxt.Set("username", claims.Username)
		cxt.Set("sessionID", claims.SessionID)
		cxt.Set("authMethod", string(session.AuthMethod))
		cxt.Next()
	}
}

// OptionalAuth resolves the identity when a token is present but lets
// anonymous requests through. Used on routes that personalize when they
// can (activity logging on merge) without requiring a login.
func OptionalAuth(userUsecase usecasecontract.IUserUseCase) gin.HandlerFunc {
	return func(cxt *gin.Context) {
		token := extractBearer(cxt)
		if token != "" {
			if claims, session, err := userUsecase.Authenticate(cxt.Request.Context(), token); err == nil {
				cxt.Set("username", claims.Username)
				cxt.Set("sessionID", claims.SessionID)
				cxt.Set("authMethod", string(session.AuthMethod))
			}
		}
		cxt.Next()
	}
}

func extractBearer(cxt *gin.Context) string {
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
