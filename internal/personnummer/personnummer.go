// Package personnummer parses, validates and formats Swedish personal
// identity numbers and coordination numbers.
//
// Supported input shapes, after separators are removed:
//
//	YYMMDDSSS      9 digits, check digit absent
//	YYMMDDSSSC    10 digits
//	YYYYMMDDSSC   11 digits, legacy two-digit serial
//	YYYYMMDDSSSC  12 digits
//
// Nothing in this package returns a Go error. Problems are reported on the
// result value with IsValid=false and a human readable Error.
package personnummer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/kalkyl/internal/checkdigit"
)

// Error messages reported on results
const (
	MsgTooShort      = "too short personal number (at least 9 digits required)"
	MsgInvalidFormat = "invalid personal number format"
	MsgInvalidMonth  = "invalid month"
	MsgInvalidDay    = "invalid day"
	MsgInvalid       = "invalid personal number"
)

// CoordinationOffset is added to the birth day of a coordination number
const CoordinationOffset = 60

// Gender derived from the serial number
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ParsedPersonalNumber is the structural reading of an input string.
// Day holds the raw value, which is 61-91 for coordination numbers.
type ParsedPersonalNumber struct {
	Year                 int    `json:"year"`
	Month                int    `json:"month"`
	Day                  int    `json:"day"`
	Serial               int    `json:"serial"`
	CheckDigit           *int   `json:"checkDigit"`
	Century              *int   `json:"century,omitempty"`
	IsCoordinationNumber bool   `json:"isCoordinationNumber"`
	IsValid              bool   `json:"isValid"`
	Error                string `json:"error,omitempty"`
}

// ActualDay returns the calendar day, removing the coordination offset.
func (p ParsedPersonalNumber) ActualDay() int {
	if p.IsCoordinationNumber {
		return p.Day - CoordinationOffset
	}
	return p.Day
}

// ValidationResult is the outcome of a full validation.
// Suggested is true when the input had no check digit and CheckDigit was computed.
type ValidationResult struct {
	IsValid              bool   `json:"isValid"`
	Error                string `json:"error,omitempty"`
	CheckDigit           *int   `json:"checkDigit,omitempty"`
	Formatted            string `json:"formatted,omitempty"`
	Gender               Gender `json:"gender,omitempty"`
	IsCoordinationNumber bool   `json:"isCoordinationNumber"`
	Suggested            bool   `json:"suggested"`
}

// daysInMonth uses a non-leap reference year, so February has 28 days
var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// CleanInput strips every character except digits, '-' and '+'.
func CleanInput(input string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '+' {
			return r
		}
		return -1
	}, input)
}

// Parse reads a personal number from free text.
func Parse(input string) ParsedPersonalNumber {
	cleaned := CleanInput(input)
	digits := strings.NewReplacer("-", "", "+", "").Replace(cleaned)

	if len(digits) < 9 {
		return ParsedPersonalNumber{Error: MsgTooShort}
	}

	var p ParsedPersonalNumber
	switch len(digits) {
	case 9:
		p.Year = atoi(digits[0:2])
		p.Month = atoi(digits[2:4])
		p.Day = atoi(digits[4:6])
		p.Serial = atoi(digits[6:9])
	case 10:
		p.Year = atoi(digits[0:2])
		p.Month = atoi(digits[2:4])
		p.Day = atoi(digits[4:6])
		p.Serial = atoi(digits[6:9])
		p.CheckDigit = intPtr(atoi(digits[9:10]))
	case 11:
		fullYear := atoi(digits[0:4])
		p.Century = intPtr(fullYear / 100 * 100)
		p.Year = fullYear % 100
		p.Month = atoi(digits[4:6])
		p.Day = atoi(digits[6:8])
		p.Serial = atoi(digits[8:10])
		p.CheckDigit = intPtr(atoi(digits[10:11]))
	case 12:
		fullYear := atoi(digits[0:4])
		p.Century = intPtr(fullYear / 100 * 100)
		p.Year = fullYear % 100
		p.Month = atoi(digits[4:6])
		p.Day = atoi(digits[6:8])
		p.Serial = atoi(digits[8:11])
		p.CheckDigit = intPtr(atoi(digits[11:12]))
	default:
		return ParsedPersonalNumber{Error: MsgInvalidFormat}
	}

	p.IsCoordinationNumber = p.Day > CoordinationOffset
	actualDay := p.ActualDay()

	switch {
	case p.Month < 1 || p.Month > 12:
		p.Error = MsgInvalidMonth
	case actualDay < 1 || actualDay > 31:
		p.Error = MsgInvalidDay
	case actualDay > daysInMonth[p.Month]:
		p.Error = fmt.Sprintf("day %d doesn't exist in month %d", actualDay, p.Month)
	default:
		p.IsValid = true
	}

	return p
}

// ComputeCheckDigit returns the Luhn check digit over YYMMDDSSS.
// day is the raw day, so coordination numbers keep their +60 offset.
func ComputeCheckDigit(year, month, day, serial int) int {
	payload := []int{
		year / 10 % 10, year % 10,
		month / 10 % 10, month % 10,
		day / 10 % 10, day % 10,
		serial / 100 % 10, serial / 10 % 10, serial % 10,
	}
	// every element is reduced modulo 10 above, so the payload is always valid
	d, _ := checkdigit.LeftToRight(payload)
	return d
}

// Validate parses the input and verifies or computes its check digit.
func Validate(input string) ValidationResult {
	p := Parse(input)
	if !p.IsValid || p.Error != "" {
		msg := p.Error
		if msg == "" {
			msg = MsgInvalid
		}
		return ValidationResult{Error: msg}
	}

	expected := ComputeCheckDigit(p.Year, p.Month, p.Day, p.Serial)
	res := ValidationResult{
		IsValid:              true,
		CheckDigit:           intPtr(expected),
		Formatted:            Format(p.Year, p.Month, p.Day, p.Serial, expected),
		Gender:               genderOf(p.Serial),
		IsCoordinationNumber: p.IsCoordinationNumber,
	}

	if p.CheckDigit == nil {
		res.Suggested = true
		return res
	}

	if *p.CheckDigit != expected {
		res.IsValid = false
		res.Error = fmt.Sprintf("invalid check digit. Expected: %d, got: %d", expected, *p.CheckDigit)
	}
	return res
}

// Format renders the short form YYMMDD-SSSC.
func Format(year, month, day, serial, check int) string {
	return fmt.Sprintf("%02d%02d%02d-%03d%d", year, month, day, serial, check)
}

func genderOf(serial int) Gender {
	if serial%2 == 0 {
		return GenderFemale
	}
	return GenderMale
}

// atoi is only called on substrings already known to be ASCII digits
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func intPtr(v int) *int { return &v }
