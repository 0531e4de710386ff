package service

import "time"

// Clock abstracts wall-clock "now" so reconciliation is deterministic under
// test. The location of the returned time decides where days roll over.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a Clock backed by the wall clock in the given
// location. A nil location means UTC.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
