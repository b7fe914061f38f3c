package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockIdentityService implements domain.IdentityService interface for testing
type MockIdentityService struct {
	SignUpFunc     func(ctx context.Context, req domain.SignUpRequest) (*domain.User, error)
	SignInFunc     func(ctx context.Context, req domain.SignInRequest) (*domain.AuthResult, error)
	GetProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)

	LastSignUp *domain.SignUpRequest
	LastSignIn *domain.SignInRequest
}

// NewMockIdentityService creates a new MockIdentityService with default behaviors
func NewMockIdentityService() *MockIdentityService {
	return &MockIdentityService{}
}

// SignUp registers a user
func (m *MockIdentityService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
	m.LastSignUp = &req
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, req)
	}
	return &domain.User{ID: 1, Email: req.Email, Username: req.Username}, nil
}

// SignIn authenticates a user
func (m *MockIdentityService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.AuthResult, error) {
	m.LastSignIn = &req
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, req)
	}
	return &domain.AuthResult{User: &domain.User{ID: 1}, AccessToken: "access_token_user_1"}, nil
}

// GetProfile loads a user by id
func (m *MockIdentityService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Email: "user@example.com", Username: "user"}, nil
}

// Compile-time interface compliance verification
var _ domain.IdentityService = (*MockIdentityService)(nil)
