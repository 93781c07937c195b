package chrono

import "time"

// API is an abstraction over the wall clock.
//
// note: fault injection point
type API interface {
	Now() time.Time
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

// Fixed is an API that is always at the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
