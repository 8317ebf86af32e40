package personnummer

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rgehrsitz/kalkyl/internal/clock"
)

// MaxInputLength caps interactive input, long enough for YYYYMMDD-SSSC
const MaxInputLength = 13

// RandSource provides uniform integers in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// globalRand uses the math/rand/v2 top-level generator, which is safe for concurrent use
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Service holds the operations that depend on the current date or on randomness.
type Service struct {
	clock clock.Clock
	rand  RandSource
}

// NewService creates a service with explicit clock and random source
func NewService(c clock.Clock, r RandSource) *Service {
	if c == nil {
		c = clock.System{}
	}
	if r == nil {
		r = globalRand{}
	}
	return &Service{clock: c, rand: r}
}

// NewDefaultService creates a service backed by the wall clock and the global generator
func NewDefaultService() *Service {
	return NewService(clock.System{}, globalRand{})
}

// CenturyMarker returns "+" when a person born in year2 is at least 100 years
// old this year and "-" otherwise. Two-digit years below 50 are read as 20xx.
func (s *Service) CenturyMarker(year2 int) string {
	fullYear := year2 + 1900
	if year2 < 50 {
		fullYear = year2 + 2000
	}
	if s.clock.Now().Year()-fullYear >= 100 {
		return "+"
	}
	return "-"
}

// FormatWithMarker renders YYMMDD±SSSC using the century marker as separator.
func (s *Service) FormatWithMarker(year, month, day, serial, check int) string {
	return fmt.Sprintf("%02d%02d%02d%s%03d%d", year, month, day, s.CenturyMarker(year), serial, check)
}

// GenerateTest returns a random synthetic personal number with a correct check digit.
// Days stop at 28 so every month is valid; serial 000 is never produced.
func (s *Service) GenerateTest() string {
	year := s.rand.IntN(100)
	month := s.rand.IntN(12) + 1
	day := s.rand.IntN(28) + 1
	serial := s.rand.IntN(999) + 1

	return Format(year, month, day, serial, ComputeCheckDigit(year, month, day, serial))
}

// GenerateTestBatch returns n generated numbers. Duplicates are possible but unlikely.
func (s *Service) GenerateTestBatch(n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	for i := range out {
		out[i] = s.GenerateTest()
	}
	return out
}

// AutoFormat applies interactive input rules to next, given the previous value:
// only digits and separators are kept, a dash is appended once six digits have
// been typed, and input longer than MaxInputLength is rejected (prev is kept).
func AutoFormat(prev, next string) string {
	next = CleanInput(next)

	adding := len(next) > len(prev)
	if adding && len(next) == 6 && !strings.ContainsAny(next, "-+") {
		next += "-"
	}

	if len(next) > MaxInputLength {
		return prev
	}
	return next
}
