package mocks

import (
	"context"

	"github.com/you/identitysvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc            func(ctx context.Context, user *domain.User) error
	FindByIDFunc          func(ctx context.Context, id uint) (*domain.User, error)
	FindByEmailFunc       func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameFunc    func(ctx context.Context, username string) (*domain.User, error)
	FindByPhoneFunc       func(ctx context.Context, pair domain.PhonePair) (*domain.User, error)
	FindByWhatsappFunc    func(ctx context.Context, pair domain.PhonePair) (*domain.User, error)
	MarkEmailVerifiedFunc func(ctx context.Context, userID uint) error

	// Calls records the lookup methods in invocation order
	Calls []string
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.Calls = append(m.Calls, "Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: assign an id
	user.ID = 1
	return nil
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	m.Calls = append(m.Calls, "FindByID")
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.Calls = append(m.Calls, "FindByEmail")
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// FindByUsername finds a user by username
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.Calls = append(m.Calls, "FindByUsername")
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

// FindByPhone finds a user by phone pair
func (m *MockUserRepository) FindByPhone(ctx context.Context, pair domain.PhonePair) (*domain.User, error) {
	m.Calls = append(m.Calls, "FindByPhone")
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, pair)
	}
	return nil, domain.ErrUserNotFound
}

// FindByWhatsapp finds a user by whatsapp pair
func (m *MockUserRepository) FindByWhatsapp(ctx context.Context, pair domain.PhonePair) (*domain.User, error) {
	m.Calls = append(m.Calls, "FindByWhatsapp")
	if m.FindByWhatsappFunc != nil {
		return m.FindByWhatsappFunc(ctx, pair)
	}
	return nil, domain.ErrUserNotFound
}

// MarkEmailVerified flags the user's email as verified
func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, userID uint) error {
	m.Calls = append(m.Calls, "MarkEmailVerified")
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, userID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
