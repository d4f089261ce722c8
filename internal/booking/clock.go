package booking

import "time"

// Clock supplies the current time.  It is injected into the Service so
// past-date checks and completion rules can be tested against a fixed
// instant.
type Clock interface {
    Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewClock returns the wall clock in UTC.
func NewClock() Clock { return realClock{} }
