package mocks

import "github.com/you/identitysvc/domain"

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	StartVerificationFunc func(to, channel string) error
	CheckVerificationFunc func(to, code string) (bool, error)

	// Started records every recipient a verification was started for
	Started []string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// StartVerification starts a verification on the given channel
func (m *MockNotificationService) StartVerification(to, channel string) error {
	if m.StartVerificationFunc != nil {
		return m.StartVerificationFunc(to, channel)
	}
	// Default behavior: success (nothing is sent in tests)
	m.Started = append(m.Started, to)
	return nil
}

// CheckVerification checks a code for the recipient
func (m *MockNotificationService) CheckVerification(to, code string) (bool, error) {
	if m.CheckVerificationFunc != nil {
		return m.CheckVerificationFunc(to, code)
	}
	// Default behavior: "123456" is the only approved code
	return code == "123456", nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
