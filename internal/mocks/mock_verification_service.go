package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockVerificationService implements domain.VerificationService interface for testing
type MockVerificationService struct {
	SendEmailVerificationFunc func(ctx context.Context, userID uint) error
	ConfirmEmailFunc          func(ctx context.Context, userID uint, code string) error
}

// NewMockVerificationService creates a new MockVerificationService with default behaviors
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

// SendEmailVerification starts an email verification
func (m *MockVerificationService) SendEmailVerification(ctx context.Context, userID uint) error {
	if m.SendEmailVerificationFunc != nil {
		return m.SendEmailVerificationFunc(ctx, userID)
	}
	return nil
}

// ConfirmEmail checks a verification code
func (m *MockVerificationService) ConfirmEmail(ctx context.Context, userID uint, code string) error {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(ctx, userID, code)
	}
	// Default behavior: only the fixed test code is accepted
	if code != "123456" {
		return domain.ErrVerificationCodeInvalid
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.VerificationService = (*MockVerificationService)(nil)
