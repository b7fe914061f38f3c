// Package phone validates calling code / national number pairs against a
// static numbering-plan table.
package phone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you/identitysvc/domain"
)

// Result is the outcome of a validation. When Valid is false only Reason is set.
type Result struct {
	Valid           bool
	Reason          string
	FormattedNumber string
	CountryCode     string
	NationalNumber  string
	Length          int
	Countries       []string
}

// Err returns nil for a valid result and a *domain.PhoneError otherwise
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.PhoneError{Reason: r.Reason}
}

// Pair returns the cleaned calling code and national number
func (r Result) Pair() domain.PhonePair {
	return domain.PhonePair{
		CountryCode: domain.Digits(r.CountryCode),
		Number:      domain.Digits(r.NationalNumber),
	}
}

// Validate checks a calling code and national number. Non-digits are stripped
// from both; the code must match a table key exactly and the number's digit
// count must fall inside that entry's range.
func Validate(countryCode, phoneNumber string) Result {
	code := cleanDigits(countryCode)
	number := cleanDigits(phoneNumber)

	spec, ok := Lookup(code)
	if !ok {
		return Result{Reason: fmt.Sprintf("Invalid country code: %s", code)}
	}

	if len(number) < spec.MinLength || len(number) > spec.MaxLength {
		return Result{
			Reason: fmt.Sprintf("Invalid phone number length for %s. Expected %s digits, got %d",
				describe(code, spec), expectedLength(spec), len(number)),
		}
	}

	return Result{
		Valid:           true,
		FormattedNumber: "+" + code + number,
		CountryCode:     code,
		NationalNumber:  number,
		Length:          len(number),
		Countries:       spec.Countries,
	}
}

// ValidatePair is Validate for a domain.PhonePair
func ValidatePair(pair domain.PhonePair) Result {
	return Validate(string(pair.CountryCode), string(pair.Number))
}

func cleanDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func describe(code string, spec CountrySpec) string {
	if len(spec.Countries) > 0 {
		return fmt.Sprintf("%s (%s)", spec.Name, strings.Join(spec.Countries, ", "))
	}
	return "country code +" + code
}

func expectedLength(spec CountrySpec) string {
	if spec.MinLength == spec.MaxLength {
		return strconv.Itoa(spec.MinLength)
	}
	return fmt.Sprintf("%d-%d", spec.MinLength, spec.MaxLength)
}
