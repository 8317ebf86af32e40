package checkdigit

import (
	"errors"
	"fmt"
)

// Luhn / Mod10 check digits.
//
// Two traversal directions are in use and they are not interchangeable:
//
//   - LeftToRight doubles the digits at even 0-based positions counted from the
//     most significant digit. Swedish personal numbers use this form on their
//     fixed 9-digit payload.
//   - RightToLeft doubles the rightmost payload digit and every second digit
//     moving left. OCR payment references use this form, which is the
//     classic Luhn definition for variable-length payloads.
//
// For an odd-length payload both directions double the same positions, so
// they agree on 9-digit personal numbers. They disagree on even lengths.

var (
	// ErrEmptyPayload is returned when there are no digits to compute over
	ErrEmptyPayload = errors.New("check digit payload is empty")
	// ErrInvalidDigit is returned when a payload element is outside 0-9
	ErrInvalidDigit = errors.New("check digit payload contains a non-digit")
)

// LeftToRight computes the Mod10 check digit doubling even positions from the left.
func LeftToRight(payload []int) (int, error) {
	if len(payload) == 0 {
		return 0, ErrEmptyPayload
	}

	sum := 0
	for i, d := range payload {
		if d < 0 || d > 9 {
			return 0, fmt.Errorf("position %d: %w", i, ErrInvalidDigit)
		}
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d = d/10 + d%10
			}
		}
		sum += d
	}

	return complement(sum), nil
}

// RightToLeft computes the Luhn check digit doubling from the rightmost payload digit.
func RightToLeft(payload []int) (int, error) {
	if len(payload) == 0 {
		return 0, ErrEmptyPayload
	}

	sum := 0
	alternate := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := payload[i]
		if d < 0 || d > 9 {
			return 0, fmt.Errorf("position %d: %w", i, ErrInvalidDigit)
		}
		if alternate {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alternate = !alternate
	}

	return complement(sum), nil
}

// Digits converts an ASCII digit string into its digit values.
func Digits(s string) ([]int, error) {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("character %q at %d: %w", c, i, ErrInvalidDigit)
		}
		out[i] = int(c - '0')
	}
	return out, nil
}

// complement returns the digit that brings sum up to a multiple of ten.
func complement(sum int) int {
	return (10 - sum%10) % 10
}
