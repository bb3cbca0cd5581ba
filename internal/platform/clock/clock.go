package clock

import "time"

// Clock abstracts time to keep stores and controllers deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in the process location, so calendar
// days line up with what the user sees.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }
