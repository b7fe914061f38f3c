package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations.
// Email and username lookups are case-insensitive; pair lookups are exact.
// Lookups that match nothing return ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByPhone(ctx context.Context, pair PhonePair) (*User, error)
	FindByWhatsapp(ctx context.Context, pair PhonePair) (*User, error)
	MarkEmailVerified(ctx context.Context, userID uint) error
}

// IdentityService defines the sign-up and sign-in operations
type IdentityService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResult, error)
	GetProfile(ctx context.Context, userID uint) (*User, error)
}

// VerificationService defines email ownership verification
type VerificationService interface {
	SendEmailVerification(ctx context.Context, userID uint) error
	ConfirmEmail(ctx context.Context, userID uint, code string) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// NotificationService starts and checks out-of-band verifications
type NotificationService interface {
	StartVerification(to, channel string) error
	CheckVerification(to, code string) (bool, error)
}

// VerificationStore throttles verification sends per key
type VerificationStore interface {
	// Acquire reserves key for window. When the key is already held it returns
	// false and the remaining time on the reservation.
	Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error)
	Release(ctx context.Context, key string) error
}

// PolicyService manages the route authorization policy
type PolicyService interface {
	// AddPolicy grants role the action on resource. Granting an existing rule is a no-op.
	AddPolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the casbin enforcer the policy service uses.
// The adapter-backed enforcer persists each added rule itself.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	HasPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
