package lifecycle

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Calculator evaluates the lifecycle functions against a clock on every call.
type Calculator struct {
	clock Clock
}

// NewCalculator constructs a Calculator; a nil clock means SystemClock.
func NewCalculator(clock Clock) Calculator {
	if clock == nil {
		clock = SystemClock
	}
	return Calculator{clock: clock}
}

// Now returns the calculator's current time.
func (c Calculator) Now() time.Time { return c.clock.Now() }

// Expiry returns ExpiryDate(createdAt).
func (c Calculator) Expiry(createdAt time.Time) time.Time { return ExpiryDate(createdAt) }

// DaysLeft returns DaysLeft(createdAt, now).
func (c Calculator) DaysLeft(createdAt time.Time) int { return DaysLeft(createdAt, c.clock.Now()) }

// Validity returns the validity label for createdAt as of now.
func (c Calculator) Validity(createdAt time.Time) Validity {
	return ValidityOf(c.DaysLeft(createdAt))
}
