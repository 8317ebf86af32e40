package personnummer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCheckDigit(t *testing.T) {
	tests := []struct {
		name                     string
		year, month, day, serial int
		want                     int
	}{
		{"850709-980", 85, 7, 9, 980, 5},
		{"640823-323", 64, 8, 23, 323, 4},
		{"000101-001", 0, 1, 1, 1, 6},
		{"991231-999", 99, 12, 31, 999, 4},
		{"coordination day kept raw", 85, 7, 69, 980, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCheckDigit(tt.year, tt.month, tt.day, tt.serial))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("nine digits has no check digit", func(t *testing.T) {
		p := Parse("850709980")
		assert.Equal(t, ParsedPersonalNumber{Year: 85, Month: 7, Day: 9, Serial: 980, IsValid: true}, p)
	})

	t.Run("ten digits with dash", func(t *testing.T) {
		p := Parse("850709-9805")
		require.True(t, p.IsValid)
		require.NotNil(t, p.CheckDigit)
		assert.Equal(t, 5, *p.CheckDigit)
		assert.Equal(t, 980, p.Serial)
		assert.Nil(t, p.Century)
	})

	t.Run("twelve digits carries century", func(t *testing.T) {
		p := Parse("19850709-9805")
		require.True(t, p.IsValid)
		require.NotNil(t, p.Century)
		assert.Equal(t, 1900, *p.Century)
		assert.Equal(t, 85, p.Year)
		assert.Equal(t, 980, p.Serial)
		assert.Equal(t, 5, *p.CheckDigit)
	})

	t.Run("eleven digits uses two digit serial", func(t *testing.T) {
		p := Parse("20010101123")
		require.True(t, p.IsValid)
		assert.Equal(t, 2000, *p.Century)
		assert.Equal(t, 1, p.Year)
		assert.Equal(t, 12, p.Serial)
		assert.Equal(t, 3, *p.CheckDigit)
	})

	t.Run("coordination number", func(t *testing.T) {
		p := Parse("850769-9805")
		assert.True(t, p.IsCoordinationNumber)
		assert.Equal(t, 69, p.Day)
		assert.Equal(t, 9, p.ActualDay())
		assert.True(t, p.IsValid)
	})

	t.Run("messy input is cleaned", func(t *testing.T) {
		p := Parse("85 07 09-980 5")
		assert.Equal(t, 85, p.Year)
		assert.Equal(t, 7, p.Month)
		assert.Equal(t, 9, p.Day)
		assert.Equal(t, 980, p.Serial)
		assert.Equal(t, 5, *p.CheckDigit)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"too short", "1234", MsgTooShort},
		{"letters only", "invalid", MsgTooShort},
		{"thirteen digits", "1985070998051", MsgInvalidFormat},
		{"month 13", "851309980", MsgInvalidMonth},
		{"month 00", "850009980", MsgInvalidMonth},
		{"day 32", "850732980", MsgInvalidDay},
		{"day 00", "850700980", MsgInvalidDay},
		{"coordination day 92", "850792980", MsgInvalidDay},
		{"30 February", "850230980", "day 30 doesn't exist in month 2"},
		{"31 April", "850431980", "day 31 doesn't exist in month 4"},
		{"29 February is never accepted", "000229980", "day 29 doesn't exist in month 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.input)
			assert.False(t, p.IsValid)
			assert.Equal(t, tt.wantErr, p.Error)
		})
	}

	assert.True(t, Parse("850228980").IsValid)
}

func TestValidate(t *testing.T) {
	t.Run("complete and correct", func(t *testing.T) {
		r := Validate("850709-9805")
		assert.True(t, r.IsValid)
		assert.Equal(t, 5, *r.CheckDigit)
		assert.Equal(t, "850709-9805", r.Formatted)
		assert.Equal(t, GenderFemale, r.Gender)
		assert.False(t, r.Suggested)
	})

	t.Run("missing check digit is suggested", func(t *testing.T) {
		r := Validate("850709-980")
		assert.True(t, r.IsValid)
		assert.True(t, r.Suggested)
		assert.Equal(t, 5, *r.CheckDigit)
		assert.Equal(t, "850709-9805", r.Formatted)
	})

	t.Run("wrong check digit", func(t *testing.T) {
		r := Validate("850709-9806")
		assert.False(t, r.IsValid)
		assert.Contains(t, r.Error, "invalid check digit")
		assert.Contains(t, r.Error, "Expected: 5, got: 6")
		assert.Equal(t, 5, *r.CheckDigit)
		assert.Equal(t, GenderFemale, r.Gender, "gender is reported even when invalid")
	})

	t.Run("gender from serial parity", func(t *testing.T) {
		assert.Equal(t, GenderMale, Validate("850709-981").Gender)
		assert.Equal(t, GenderFemale, Validate("850709-980").Gender)
	})

	t.Run("coordination number", func(t *testing.T) {
		r := Validate("850769-980")
		assert.True(t, r.IsCoordinationNumber)
		assert.True(t, r.IsValid)
		assert.Equal(t, "850769-9802", r.Formatted)
	})

	t.Run("parse error passes through", func(t *testing.T) {
		r := Validate("invalid")
		assert.False(t, r.IsValid)
		assert.Equal(t, MsgTooShort, r.Error)
		assert.Nil(t, r.CheckDigit)
		assert.Empty(t, r.Gender)
	})
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		year := rng.IntN(100)
		month := rng.IntN(12) + 1
		day := rng.IntN(daysInMonth[month]) + 1
		if rng.IntN(2) == 0 {
			day += CoordinationOffset
		}
		serial := rng.IntN(1000)

		check := ComputeCheckDigit(year, month, day, serial)
		assert.Equal(t, check, ComputeCheckDigit(year, month, day, serial), "stable")

		r := Validate(Format(year, month, day, serial, check))
		require.True(t, r.IsValid, "round trip failed for %s: %s", Format(year, month, day, serial, check), r.Error)
		assert.Equal(t, check, *r.CheckDigit)
		assert.False(t, r.Suggested)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "850709-9805", Format(85, 7, 9, 980, 5))
	assert.Equal(t, "010101-0010", Format(1, 1, 1, 1, 0))
	assert.Equal(t, "050203-0456", Format(5, 2, 3, 45, 6))
}

func TestCleanInput(t *testing.T) {
	assert.Equal(t, "850709-9805", CleanInput(" 8507 09-98x05 "))
	assert.Equal(t, "850709+9805", CleanInput("850709+9805"))
	assert.Equal(t, "", CleanInput("abc"))
}
