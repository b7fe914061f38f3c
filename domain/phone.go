package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// maxDigitsExponent bounds exponent-form numbers; no calling code or national
// number has more digits than this.
const maxDigitsExponent = 20

// Digits is a numeric identifier (calling code or national number).
// It decodes from either a JSON number or a JSON string so that leading zeros
// and formatted input survive the trip.
type Digits string

// UnmarshalJSON implements json.Unmarshaler
func (d *Digits) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*d = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Digits(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("digits must be a number or a string: %w", err)
	}
	digits, err := integerDigits(n.String())
	if err != nil {
		return err
	}
	*d = Digits(digits)
	return nil
}

// integerDigits renders a JSON number literal as its exact decimal integer,
// so 5.551234567e9 becomes 5551234567.
func integerDigits(literal string) (string, error) {
	if !strings.ContainsAny(literal, ".eE-") {
		return literal, nil
	}
	if i := strings.IndexAny(literal, "eE"); i >= 0 {
		exp, err := strconv.Atoi(literal[i+1:])
		if err != nil || exp > maxDigitsExponent || exp < -maxDigitsExponent {
			return "", fmt.Errorf("digits exponent out of range: %s", literal)
		}
	}

	r, ok := new(big.Rat).SetString(literal)
	if !ok {
		return "", fmt.Errorf("digits must be a number or a string: %s", literal)
	}
	if r.Sign() < 0 || !r.IsInt() {
		return "", errors.New("digits must be a non-negative whole number")
	}
	return r.Num().String(), nil
}

// IsZero reports whether the value is blank or numerically zero
func (d Digits) IsZero() bool {
	return strings.Trim(strings.TrimSpace(string(d)), "0") == ""
}

func (d Digits) String() string {
	return string(d)
}

// PhonePair is a calling code plus national number
type PhonePair struct {
	CountryCode Digits `json:"countryCode"`
	Number      Digits `json:"phoneNumber"`
}

// Present reports whether both halves of the pair were supplied
func (p PhonePair) Present() bool {
	return !p.CountryCode.IsZero() && !p.Number.IsZero()
}

// Concat returns the calling code immediately followed by the number
func (p PhonePair) Concat() string {
	return string(p.CountryCode) + string(p.Number)
}

// E164 returns the pair in +{code}{number} form
func (p PhonePair) E164() string {
	return "+" + p.Concat()
}

// Equal compares two pairs half by half
func (p PhonePair) Equal(other PhonePair) bool {
	return p.CountryCode == other.CountryCode && p.Number == other.Number
}
