package domain

import "strings"

// IdentifierKind tags which sign-in identifier was used to locate an account
type IdentifierKind int

const (
	IdentifierNone IdentifierKind = iota
	IdentifierPhone
	IdentifierWhatsapp
	IdentifierEmail
	IdentifierUsername
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierPhone:
		return "phone"
	case IdentifierWhatsapp:
		return "whatsapp"
	case IdentifierEmail:
		return "email"
	case IdentifierUsername:
		return "username"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k IdentifierKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Identifier is the one identifier a sign-in resolves through.
// Pair is set for phone and whatsapp kinds, Value for email and username.
type Identifier struct {
	Kind  IdentifierKind
	Pair  PhonePair
	Value string
}

// ResolveSignInIdentifier picks the first fully specified identifier in the order
// phone pair, whatsapp pair, email, username. Everything after it is ignored.
func ResolveSignInIdentifier(req SignInRequest) (Identifier, error) {
	switch {
	case req.Phone.Present():
		return Identifier{Kind: IdentifierPhone, Pair: req.Phone}, nil
	case req.Whatsapp.Present():
		return Identifier{Kind: IdentifierWhatsapp, Pair: req.Whatsapp}, nil
	case strings.TrimSpace(req.Email) != "":
		return Identifier{Kind: IdentifierEmail, Value: strings.TrimSpace(req.Email)}, nil
	case strings.TrimSpace(req.Username) != "":
		return Identifier{Kind: IdentifierUsername, Value: req.Username}, nil
	}
	return Identifier{Kind: IdentifierNone}, ErrInvalidCredentials
}
