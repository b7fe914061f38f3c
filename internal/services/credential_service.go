package services

import (
	"fmt"

	"github.com/you/identitysvc/domain"
)

// CredentialService verifies passwords and issues access tokens
type CredentialService struct {
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
}

// NewCredentialService creates a new credential service
func NewCredentialService(passwordSvc domain.PasswordService, tokenSvc domain.TokenService) *CredentialService {
	return &CredentialService{
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// IssueToken checks password against the user's stored hash and signs a
// token carrying the user's email, username and id.
func (s *CredentialService) IssueToken(user *domain.User, password string) (string, error) {
	if user == nil || user.PasswordHash == "" {
		return "", domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenSvc.GenerateAccessToken(domain.TokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}
