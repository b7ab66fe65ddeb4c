package domain

import "time"

// Clock supplies the current instant. Expiry decisions are a pure function of it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant. Useful in tests and one-shot jobs.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
