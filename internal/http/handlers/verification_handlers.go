package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/http/middleware"
)

// VerificationHandlers handles email ownership verification
type VerificationHandlers struct {
	verificationSvc domain.VerificationService
	logger          *zap.Logger
}

// NewVerificationHandlers creates new verification handlers
func NewVerificationHandlers(verificationSvc domain.VerificationService, lg *zap.Logger) *VerificationHandlers {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &VerificationHandlers{verificationSvc: verificationSvc, logger: lg}
}

// CheckEmailRequest carries the code the user received
type CheckEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// SendEmail starts a verification for the caller's email address
func (h *VerificationHandlers) SendEmail(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", http.StatusText(http.StatusUnauthorized))
		return
	}

	if err := h.verificationSvc.SendEmailVerification(c.Request.Context(), userID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusAccepted, "verification email sent", nil)
}

// CheckEmail confirms the caller's email address with a received code
func (h *VerificationHandlers) CheckEmail(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", http.StatusText(http.StatusUnauthorized))
		return
	}

	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.verificationSvc.ConfirmEmail(c.Request.Context(), userID, req.Code); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "email verified", nil)
}
