package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
}

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:     statusSuccess,
		Message:    message,
		StatusCode: code,
		Data:       data,
	})
}

func respondError(c *gin.Context, code int, message string, detail interface{}) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:     statusError,
		Message:    message,
		StatusCode: code,
		Error:      detail,
	})
}

// respondBindError answers a request body that could not be decoded
func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
}

// respondDomainError maps a service error to its HTTP status. Errors that are
// not domain errors are logged and hidden behind a 500.
func respondDomainError(c *gin.Context, lg *zap.Logger, err error) {
	var (
		phoneErr     *domain.PhoneError
		throttledErr *domain.ThrottledError
		domainErr    *domain.Error
	)

	switch {
	case errors.As(err, &phoneErr):
		respondError(c, http.StatusBadRequest, domain.ErrInvalidPhoneNumber.Message, phoneErr.Reason)
	case errors.As(err, &throttledErr):
		c.Header("Retry-After", strconv.FormatInt(throttledErr.RetryAfterSeconds, 10))
		respondError(c, http.StatusTooManyRequests, throttledErr.Error(), http.StatusText(http.StatusTooManyRequests))
	case errors.Is(err, domain.ErrVerificationUnavailable):
		respondError(c, http.StatusServiceUnavailable, "email verification is not available", http.StatusText(http.StatusServiceUnavailable))
	case errors.As(err, &domainErr):
		code := statusForKind(domainErr.Kind)
		respondError(c, code, domainErr.Message, http.StatusText(code))
	case errors.Is(err, domain.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found", http.StatusText(http.StatusNotFound))
	default:
		logger.WithContext(c.Request.Context(), lg).Error("request failed", zap.Error(err))
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal server error", http.StatusText(http.StatusInternalServerError))
	}
}

func statusForKind(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrBadInput):
		return http.StatusBadRequest
	case errors.Is(kind, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(kind, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
