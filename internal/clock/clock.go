package clock

import "time"

// Clock supplies the current time to code that would otherwise read the wall clock
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant. Used to pin dates in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Func adapts an ordinary function to Clock
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// MonthBounds returns the first and last calendar day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
