package domain

import "time"

// RoleUser is the role every signed-in account acts under
const RoleUser = "user"

// User represents a registered identity
type User struct {
	ID            uint
	Email         string
	Username      string
	Phone         *PhonePair
	Whatsapp      *PhonePair
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SignUpRequest carries the raw registration fields. Every identifier is optional.
type SignUpRequest struct {
	Email    string
	Username string
	Phone    PhonePair
	Whatsapp PhonePair
	Password string
}

// SignInRequest carries whichever identifiers the caller supplied plus the password
type SignInRequest struct {
	Email    string
	Username string
	Phone    PhonePair
	Whatsapp PhonePair
	Password string
}

// CanonicalIdentity is the sanitized identifier set that gets checked and stored.
// Email and Username are never blank; Phone and Whatsapp are nil when absent.
type CanonicalIdentity struct {
	Email    string
	Username string
	Phone    *PhonePair
	Whatsapp *PhonePair
}

// AuthResult represents a successful sign-in
type AuthResult struct {
	User        *User
	AccessToken string
}

// TokenClaims represents the identity claims carried by an access token
type TokenClaims struct {
	UserID    uint   `json:"sub"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	ID        string `json:"jti,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}
