package mocks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you/identitysvc/domain"
)

const mockTokenPrefix = "access_token_user_"

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateAccessTokenFunc func(claims domain.TokenClaims) (string, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)

	// LastClaims holds the claims of the most recent GenerateAccessToken call
	LastClaims domain.TokenClaims
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateAccessToken generates an access token for the claims
func (m *MockTokenService) GenerateAccessToken(claims domain.TokenClaims) (string, error) {
	m.LastClaims = claims
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(claims)
	}
	// Default behavior: encode the user id so validation can recover it
	return fmt.Sprintf("%s%d", mockTokenPrefix, claims.UserID), nil
}

// ValidateAccessToken validates an access token and returns claims
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	// Default behavior: accept tokens produced by GenerateAccessToken
	raw, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return &domain.TokenClaims{UserID: uint(id)}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
