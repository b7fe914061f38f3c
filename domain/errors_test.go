package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		kind        error
		expectedMsg string
	}{
		{"ErrInvalidPhoneNumber", ErrInvalidPhoneNumber, ErrBadInput, "invalid countryCode and/or phoneNumber provided"},
		{"ErrIdentifierRequired", ErrIdentifierRequired, ErrBadInput, "one of email, username, phone number or whatsapp phone number is required"},
		{"ErrPasswordRequired", ErrPasswordRequired, ErrBadInput, "password is required"},
		{"ErrEmailExists", ErrEmailExists, ErrConflict, "email already exists"},
		{"ErrUsernameExists", ErrUsernameExists, ErrConflict, "username already exists"},
		{"ErrPhoneExists", ErrPhoneExists, ErrConflict, "phone number already exists"},
		{"ErrWhatsappExists", ErrWhatsappExists, ErrConflict, "whatsapp phone number already exists"},
		{"ErrWhatsappExistsAsPhone", ErrWhatsappExistsAsPhone, ErrConflict, "whatsapp phone number already exists as phone number"},
		{"ErrIdentityConflict", ErrIdentityConflict, ErrConflict, "user already exists"},
		{"ErrInvalidCredentials", ErrInvalidCredentials, ErrUnauthorized, "invalid credentials"},
		{"ErrTokenInvalid", ErrTokenInvalid, ErrUnauthorized, "invalid token"},
		{"ErrTokenExpired", ErrTokenExpired, ErrUnauthorized, "token has expired"},
	}

	kinds := []error{ErrBadInput, ErrConflict, ErrUnauthorized}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected error message %q, got %q", tt.expectedMsg, tt.err.Error())
			}

			for _, kind := range kinds {
				want := kind == tt.kind
				if got := errors.Is(tt.err, kind); got != want {
					t.Errorf("errors.Is(%s, %v) = %v, want %v", tt.name, kind, got, want)
				}
			}

			wrapped := fmt.Errorf("sign up: %w", tt.err)
			if !errors.Is(wrapped, tt.err) || !errors.Is(wrapped, tt.kind) {
				t.Error("wrapped error should match both the error and its kind")
			}

			for _, other := range tests {
				if other.name != tt.name && errors.Is(tt.err, other.err) {
					t.Errorf("error %s should not be equal to %s", tt.name, other.name)
				}
			}
		})
	}
}

func TestPhoneError(t *testing.T) {
	err := error(&PhoneError{Reason: "Invalid country code: 999"})

	if err.Error() != "Invalid country code: 999" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidPhoneNumber) {
		t.Error("phone error should unwrap to ErrInvalidPhoneNumber")
	}
	if !errors.Is(err, ErrBadInput) {
		t.Error("phone error should be a bad input error")
	}

	var phoneErr *PhoneError
	if !errors.As(fmt.Errorf("validate: %w", err), &phoneErr) {
		t.Fatal("expected errors.As to find the phone error")
	}
	if phoneErr.Reason != "Invalid country code: 999" {
		t.Errorf("unexpected reason %q", phoneErr.Reason)
	}
}

func TestThrottledError(t *testing.T) {
	err := error(&ThrottledError{RetryAfterSeconds: 42})

	if !errors.Is(err, ErrVerificationThrottled) {
		t.Error("throttled error should unwrap to ErrVerificationThrottled")
	}
	if err.Error() != "please wait 42 seconds before requesting a new verification" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
