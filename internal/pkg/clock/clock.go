package clock

import "time"

// Clocker abstracts the time source so expiry logic can be tested
// against a fixed moment.
type Clocker interface {
	Now() time.Time
}

// SystemClock reads the real system time.
type SystemClock struct{}

// New returns the production clock.
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current system time.
func (*SystemClock) Now() time.Time {
	return time.Now()
}

// Static is a Clocker pinned to a single instant, for tests.
type Static struct {
	// T is the instant Now always returns.
	T time.Time
}

// Now returns the pinned instant.
func (s Static) Now() time.Time {
	return s.T
}
