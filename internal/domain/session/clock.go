package session

import "time"

// Clock yields the current instant. Injecting it lets tests pin the
// scheduler to an exact moment instead of the server's wall clock.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the actual system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock implements Clock for tests; it always returns Time.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time
}
