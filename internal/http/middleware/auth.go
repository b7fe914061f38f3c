package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
)

// Context keys set by the auth middleware
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// AuthMW wraps the token service and user repository for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	userRepo domain.UserRepository
	logger   *zap.Logger
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, userRepo domain.UserRepository, lg *zap.Logger) *AuthMW {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &AuthMW{tokenSvc: tokenSvc, userRepo: userRepo, logger: lg}
}

// WithJWT validates the bearer token and loads the user it was issued for.
// Tokens of deleted users are rejected.
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := mw.tokenSvc.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			var domainErr *domain.Error
			if errors.As(err, &domainErr) {
				abort(c, http.StatusUnauthorized, domainErr.Message)
				return
			}
			abort(c, http.StatusUnauthorized, domain.ErrTokenInvalid.Message)
			return
		}

		user, err := mw.userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, domain.ErrUserNotFound) {
				logger.WithContext(c.Request.Context(), mw.logger).Error("failed to load token subject",
					zap.Uint("user_id", claims.UserID), zap.Error(err))
				abort(c, http.StatusInternalServerError, "internal server error")
				return
			}
			abort(c, http.StatusUnauthorized, domain.ErrTokenInvalid.Message)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, domain.RoleUser)
		c.Next()
	}
}

// CurrentUserID returns the id the auth middleware stored on the context
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// abort writes the error envelope used by every endpoint
func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"status":     "error",
		"message":    message,
		"statusCode": code,
		"error":      http.StatusText(code),
	})
}
