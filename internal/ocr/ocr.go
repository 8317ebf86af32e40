// Package ocr validates Swedish OCR payment references.
package ocr

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/kalkyl/internal/checkdigit"
)

// MsgTooShort is reported when fewer than two digits remain after cleaning
const MsgTooShort = "OCR number must contain at least 2 digits"

// Validation is the outcome of validating one OCR number
type Validation struct {
	IsValid    bool   `json:"isValid"`
	CheckDigit *int   `json:"checkDigit"`
	Cleaned    string `json:"cleaned"`
	Error      string `json:"error,omitempty"`
}

// Clean removes every non-digit character.
func Clean(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// Validate checks the last digit of input against the Luhn digit of the rest.
func Validate(input string) Validation {
	cleaned := Clean(input)
	if len(cleaned) < 2 {
		return Validation{Cleaned: cleaned, Error: MsgTooShort}
	}

	main, provided := cleaned[:len(cleaned)-1], int(cleaned[len(cleaned)-1]-'0')

	// Clean guarantees ASCII digits, so neither call can fail
	payload, _ := checkdigit.Digits(main)
	expected, _ := checkdigit.RightToLeft(payload)

	v := Validation{
		IsValid:    expected == provided,
		CheckDigit: &expected,
		Cleaned:    cleaned,
	}
	if !v.IsValid {
		v.Error = fmt.Sprintf("invalid check digit. Expected: %d, got: %d", expected, provided)
	}
	return v
}

// Complete appends the Luhn check digit to a payload, after cleaning it.
func Complete(payload string) (string, error) {
	cleaned := Clean(payload)
	digits, err := checkdigit.Digits(cleaned)
	if err != nil {
		return "", err
	}
	d, err := checkdigit.RightToLeft(digits)
	if err != nil {
		return "", fmt.Errorf("complete OCR number %q: %w", payload, err)
	}
	return fmt.Sprintf("%s%d", cleaned, d), nil
}

// Group inserts a space after every fourth digit for display.
func Group(cleaned string) string {
	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
