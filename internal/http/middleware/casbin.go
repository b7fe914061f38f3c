package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
)

// CasbinMW authorizes authenticated requests against the route policy
type CasbinMW struct {
	policySvc domain.PolicyService
	logger    *zap.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policySvc domain.PolicyService, lg *zap.Logger) *CasbinMW {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &CasbinMW{policySvc: policySvc, logger: lg}
}

// Enforce returns the casbin authorization middleware. It must run after WithJWT.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		role := c.GetString(UserRoleKey)
		if !ok || role == "" {
			abort(c, http.StatusUnauthorized, "user id or role not found in token")
			return
		}

		// A proxy may assert the caller; it has to agree with the token
		if headerUserID := c.GetHeader("x-user-id"); headerUserID != "" && headerUserID != strconv.FormatUint(uint64(userID), 10) {
			abort(c, http.StatusForbidden, "header x-user-id does not match token user id")
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.policySvc.CheckPermission(role, path, method)
		if err != nil {
			logger.WithContext(c.Request.Context(), mw.logger).Error("authorization check failed",
				zap.String("role", role), zap.String("path", path), zap.Error(err))
			abort(c, http.StatusInternalServerError, "authorization check failed")
			return
		}
		if !allowed {
			abort(c, http.StatusForbidden, "access denied")
			return
		}

		c.Next()
	}
}
