package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sitebuilder-backend/internal/http/response"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
	"github.com/yungbote/sitebuilder-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			abortUnauthorized(c, errors.New("missing or invalid token"))
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			c.Abort()
			response.RespondError(c, http.StatusForbidden, apierr.CodeForbidden, errors.New("forbidden"))
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a token is sent and lets anonymous requests through.
// A token that is sent but rejected still fails the request.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context, tokenString string) bool {
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("Rejected token", "path", c.FullPath(), "error", err)
		abortUnauthorized(c, err)
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

func abortUnauthorized(c *gin.Context, err error) {
	c.Abort()
	response.RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, err)
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
