package services

import (
	"strings"

	"github.com/you/identitysvc/domain"
)

const (
	placeholderEmailDomain = "optional.com"
	whatsappEmailDomain    = "whatsapp.com"
	whatsappUsernameSuffix = "@whatsapp"
)

// SanitizeIdentity derives the canonical email and username for a sign-up.
// Phone pairs are expected to be validated already; a pair missing either
// half is treated as absent.
func SanitizeIdentity(req domain.SignUpRequest) (domain.CanonicalIdentity, error) {
	identity := domain.CanonicalIdentity{
		Email:    sanitizeEmail(req),
		Username: req.Username,
	}
	if req.Phone.Present() {
		pair := req.Phone
		identity.Phone = &pair
	}
	if req.Whatsapp.Present() {
		pair := req.Whatsapp
		identity.Whatsapp = &pair
	}

	if strings.TrimSpace(identity.Username) == "" {
		identity.Username = sanitizeUsername(req, identity.Email)
		if identity.Username == "" && strings.TrimSpace(req.Email) != "" {
			return domain.CanonicalIdentity{}, domain.ErrEmailLocalPartRequired
		}
	}

	if identity.Email == "" || identity.Username == "" {
		return domain.CanonicalIdentity{}, domain.ErrIdentifierRequired
	}
	return identity, nil
}

func sanitizeEmail(req domain.SignUpRequest) string {
	if email := strings.TrimSpace(req.Email); email != "" {
		return strings.ToLower(email)
	}

	switch {
	case strings.TrimSpace(req.Username) != "":
		return strings.ToLower(req.Username) + "@" + placeholderEmailDomain
	case req.Phone.Present():
		return req.Phone.Concat() + "@" + placeholderEmailDomain
	case req.Whatsapp.Present():
		return req.Whatsapp.Concat() + "@" + whatsappEmailDomain
	}
	return ""
}

func sanitizeUsername(req domain.SignUpRequest, email string) string {
	switch {
	case strings.TrimSpace(req.Email) != "":
		local, _, _ := strings.Cut(email, "@")
		return local
	case req.Phone.Present():
		return req.Phone.Concat()
	case req.Whatsapp.Present():
		return req.Whatsapp.Concat() + whatsappUsernameSuffix
	}
	return ""
}

// isPlaceholderEmail reports whether email was derived rather than supplied
func isPlaceholderEmail(email string) bool {
	_, domainPart, ok := strings.Cut(strings.ToLower(email), "@")
	if !ok {
		return true
	}
	return domainPart == placeholderEmailDomain || domainPart == whatsappEmailDomain
}
