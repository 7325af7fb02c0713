package clock

import "time"

// Clock abstracts "now" so time-dependent services can be tested
// against a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func System() Clock {
	return systemClock{}
}

// Fixed always reports the same instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}

// At is a convenience constructor for tests.
func At(t time.Time) Fixed {
	return Fixed{Instant: t}
}
