package engine

import (
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// Clock abstracts time so defaults and not-in-future checks are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// earliestZone is the first timezone to reach a new calendar day
var earliestZone = time.FixedZone("UTC+14", 14*60*60)

// today returns the latest calendar date in effect anywhere on earth.
// Dates after it are in the future for every caller.
func today(now time.Time) domain.Date {
	return domain.DateOf(now.In(earliestZone))
}
