package engine

import (
	"fmt"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// SessionDuration returns the whole minutes between start and end, or nil
// when the session has not ended.
func SessionDuration(start time.Time, end *time.Time) (*int, error) {
	if end == nil {
		return nil, nil
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s",
			domain.ErrInvalidInterval, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	minutes := int(end.Sub(start) / time.Minute)
	return &minutes, nil
}

// FeedingDuration derives the duration of a feeding. Without an end time a
// breast feeding falls back to the sum of the per-side durations; a zero
// sum or any other kind leaves the duration unknown (nil), not zero.
func FeedingDuration(kind domain.FeedingKind, start time.Time, end *time.Time, left, right *int) (*int, error) {
	if end != nil {
		return SessionDuration(start, end)
	}
	if kind != domain.FeedingKindBreast {
		return nil, nil
	}
	total := intValue(left) + intValue(right)
	if total <= 0 {
		return nil, nil
	}
	return &total, nil
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
