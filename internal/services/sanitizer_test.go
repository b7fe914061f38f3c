package services

import (
	"errors"
	"testing"

	"github.com/you/identitysvc/domain"
)

func TestSanitizeIdentity(t *testing.T) {
	phone := domain.PhonePair{CountryCode: "1", Number: "5551234567"}
	whatsapp := domain.PhonePair{CountryCode: "44", Number: "7911123456"}

	tests := []struct {
		name             string
		req              domain.SignUpRequest
		expectedEmail    string
		expectedUsername string
		expectPhone      bool
		expectWhatsapp   bool
		expectedErr      error
	}{
		{
			name:             "email and username pass through, email lowercased",
			req:              domain.SignUpRequest{Email: " Bob@Example.COM ", Username: "BobSmith"},
			expectedEmail:    "bob@example.com",
			expectedUsername: "BobSmith",
		},
		{
			name:             "username only derives placeholder email",
			req:              domain.SignUpRequest{Username: "Alice"},
			expectedEmail:    "alice@optional.com",
			expectedUsername: "Alice",
		},
		{
			name:             "email only derives username from local part",
			req:              domain.SignUpRequest{Email: "Carol.Jones@Example.com"},
			expectedEmail:    "carol.jones@example.com",
			expectedUsername: "carol.jones",
		},
		{
			name:             "phone only derives both",
			req:              domain.SignUpRequest{Phone: phone},
			expectedEmail:    "15551234567@optional.com",
			expectedUsername: "15551234567",
			expectPhone:      true,
		},
		{
			name:             "phone wins over whatsapp for derivation",
			req:              domain.SignUpRequest{Phone: phone, Whatsapp: whatsapp},
			expectedEmail:    "15551234567@optional.com",
			expectedUsername: "15551234567",
			expectPhone:      true,
			expectWhatsapp:   true,
		},
		{
			name:             "whatsapp only uses whatsapp domains",
			req:              domain.SignUpRequest{Whatsapp: whatsapp},
			expectedEmail:    "447911123456@whatsapp.com",
			expectedUsername: "447911123456@whatsapp",
			expectWhatsapp:   true,
		},
		{
			name:             "username beats phone for email",
			req:              domain.SignUpRequest{Username: "dave", Phone: phone},
			expectedEmail:    "dave@optional.com",
			expectedUsername: "dave",
			expectPhone:      true,
		},
		{
			name:             "email beats phone for username",
			req:              domain.SignUpRequest{Email: "erin@example.com", Phone: phone},
			expectedEmail:    "erin@example.com",
			expectedUsername: "erin",
			expectPhone:      true,
		},
		{
			name:             "half phone pair is ignored",
			req:              domain.SignUpRequest{Username: "frank", Phone: domain.PhonePair{CountryCode: "1"}},
			expectedEmail:    "frank@optional.com",
			expectedUsername: "frank",
		},
		{
			name:        "nothing to derive from",
			req:         domain.SignUpRequest{Email: "   ", Phone: domain.PhonePair{Number: "5551234567"}, Password: "secret"},
			expectedErr: domain.ErrIdentifierRequired,
		},
		{
			name:        "email without a local part cannot name the user",
			req:         domain.SignUpRequest{Email: "@example.com", Password: "secret"},
			expectedErr: domain.ErrEmailLocalPartRequired,
		},
		{
			name:             "email without a local part is kept when a username is supplied",
			req:              domain.SignUpRequest{Email: "@Example.com", Username: "hank"},
			expectedEmail:    "@example.com",
			expectedUsername: "hank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := SanitizeIdentity(tt.req)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				if !errors.Is(err, domain.ErrBadInput) {
					t.Error("expected a bad input error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if identity.Email != tt.expectedEmail {
				t.Errorf("expected email %q, got %q", tt.expectedEmail, identity.Email)
			}
			if identity.Username != tt.expectedUsername {
				t.Errorf("expected username %q, got %q", tt.expectedUsername, identity.Username)
			}
			if (identity.Phone != nil) != tt.expectPhone {
				t.Errorf("expected phone present=%v, got %+v", tt.expectPhone, identity.Phone)
			}
			if (identity.Whatsapp != nil) != tt.expectWhatsapp {
				t.Errorf("expected whatsapp present=%v, got %+v", tt.expectWhatsapp, identity.Whatsapp)
			}
		})
	}
}

func TestSanitizeIdentity_Idempotent(t *testing.T) {
	first, err := SanitizeIdentity(domain.SignUpRequest{Email: "Grace@Example.com", Username: "Grace"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := SanitizeIdentity(domain.SignUpRequest{Email: first.Email, Username: first.Username})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Email != second.Email || first.Username != second.Username {
		t.Errorf("sanitizing twice changed the identity: %+v then %+v", first, second)
	}
}

func TestIsPlaceholderEmail(t *testing.T) {
	tests := map[string]bool{
		"alice@optional.com":        true,
		"447911123456@WhatsApp.com": true,
		"alice@example.com":         false,
		"alice@optional.com.au":     false,
		"no-at-sign":                true,
	}
	for email, want := range tests {
		if got := isPlaceholderEmail(email); got != want {
			t.Errorf("isPlaceholderEmail(%q) = %v, want %v", email, got, want)
		}
	}
}
