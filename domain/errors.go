package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrBadInput     = errors.New("bad input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain error carrying a client-safe message and its kind
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Input errors
var (
	ErrInvalidPhoneNumber      = newError(ErrBadInput, "invalid countryCode and/or phoneNumber provided")
	ErrIdentifierRequired      = newError(ErrBadInput, "one of email, username, phone number or whatsapp phone number is required")
	ErrEmailLocalPartRequired  = newError(ErrBadInput, "email has no local part")
	ErrPasswordRequired        = newError(ErrBadInput, "password is required")
	ErrEmailNotVerifiable      = newError(ErrBadInput, "account has no deliverable email address")
	ErrVerificationCodeInvalid = newError(ErrBadInput, "invalid verification code")
)

// Uniqueness errors, one per identifier domain
var (
	ErrEmailExists           = newError(ErrConflict, "email already exists")
	ErrUsernameExists        = newError(ErrConflict, "username already exists")
	ErrPhoneExists           = newError(ErrConflict, "phone number already exists")
	ErrWhatsappExists        = newError(ErrConflict, "whatsapp phone number already exists")
	ErrWhatsappExistsAsPhone = newError(ErrConflict, "whatsapp phone number already exists as phone number")
	ErrIdentityConflict      = newError(ErrConflict, "user already exists")
	ErrEmailAlreadyVerified  = newError(ErrConflict, "email already verified")
)

// Authentication errors
var (
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	ErrTokenInvalid       = newError(ErrUnauthorized, "invalid token")
	ErrTokenExpired       = newError(ErrUnauthorized, "token has expired")
	ErrTokenMalformed     = newError(ErrUnauthorized, "malformed token")
)

// Lookup and delivery errors
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrVerificationThrottled   = errors.New("verification resend limit exceeded")
	ErrVerificationUnavailable = errors.New("verification provider not configured")
)

// PhoneError reports why a calling code / national number pair was rejected
type PhoneError struct {
	Reason string
}

func (e *PhoneError) Error() string { return e.Reason }

func (e *PhoneError) Unwrap() error { return ErrInvalidPhoneNumber }

// ThrottledError reports how long a caller must wait before retrying
type ThrottledError struct {
	RetryAfterSeconds int64
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new verification", e.RetryAfterSeconds)
}

func (e *ThrottledError) Unwrap() error { return ErrVerificationThrottled }
