package clock

import "time"

// Clock supplies the current time to publication and conclusion checks
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

// Now returns the current UTC time
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant
type Fixed time.Time

// Now returns the fixed instant
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
