package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/http/middleware"
)

// IdentityHandlers handles sign-up, sign-in and profile requests
type IdentityHandlers struct {
	identitySvc domain.IdentityService
	logger      *zap.Logger
}

// NewIdentityHandlers creates new identity handlers
func NewIdentityHandlers(identitySvc domain.IdentityService, lg *zap.Logger) *IdentityHandlers {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &IdentityHandlers{identitySvc: identitySvc, logger: lg}
}

// SignUpRequest represents a registration request. Every identifier is
// optional; calling codes and numbers may be sent as JSON numbers or strings.
type SignUpRequest struct {
	Email               string        `json:"email"`
	Username            string        `json:"username"`
	CountryCode         domain.Digits `json:"countryCode"`
	PhoneNumber         domain.Digits `json:"phoneNumber"`
	WhatsappCountryCode domain.Digits `json:"whatsappCountryCode"`
	WhatsappPhoneNumber domain.Digits `json:"whatsappPhoneNumber"`
	Password            string        `json:"password" binding:"required"`
}

// SignInRequest represents a sign-in request
type SignInRequest SignUpRequest

// UserResponse is the public view of a user
type UserResponse struct {
	UserID              uint          `json:"userId"`
	Email               string        `json:"email"`
	Username            string        `json:"username"`
	CountryCode         domain.Digits `json:"countryCode,omitempty"`
	PhoneNumber         domain.Digits `json:"phoneNumber,omitempty"`
	WhatsappCountryCode domain.Digits `json:"whatsappCountryCode,omitempty"`
	WhatsappPhoneNumber domain.Digits `json:"whatsappPhoneNumber,omitempty"`
	EmailVerified       bool          `json:"emailVerified"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func newUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		UserID:        u.ID,
		Email:         u.Email,
		Username:      u.Username,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
	if u.Phone != nil {
		resp.CountryCode = u.Phone.CountryCode
		resp.PhoneNumber = u.Phone.Number
	}
	if u.Whatsapp != nil {
		resp.WhatsappCountryCode = u.Whatsapp.CountryCode
		resp.WhatsappPhoneNumber = u.Whatsapp.Number
	}
	return resp
}

// SignUp handles user registration
func (h *IdentityHandlers) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.identitySvc.SignUp(c.Request.Context(), domain.SignUpRequest{
		Email:    req.Email,
		Username: req.Username,
		Phone:    domain.PhonePair{CountryCode: req.CountryCode, Number: req.PhoneNumber},
		Whatsapp: domain.PhonePair{CountryCode: req.WhatsappCountryCode, Number: req.WhatsappPhoneNumber},
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "successfully created user", newUserResponse(user))
}

// SignIn handles user sign-in. Success answers 201 like sign-up.
func (h *IdentityHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.identitySvc.SignIn(c.Request.Context(), domain.SignInRequest{
		Email:    req.Email,
		Username: req.Username,
		Phone:    domain.PhonePair{CountryCode: req.CountryCode, Number: req.PhoneNumber},
		Whatsapp: domain.PhonePair{CountryCode: req.WhatsappCountryCode, Number: req.WhatsappPhoneNumber},
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "successfully generated access token", TokenResponse{AccessToken: result.AccessToken})
}

// Me returns the authenticated user's profile
func (h *IdentityHandlers) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", http.StatusText(http.StatusUnauthorized))
		return
	}

	user, err := h.identitySvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "user profile", newUserResponse(user))
}
