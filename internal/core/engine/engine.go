package engine

import (
	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/growth"
)

// PercentileCalculator converts present growth metrics into percentiles,
// leaving out metrics it has no reference for.
type PercentileCalculator interface {
	Percentiles(values map[domain.Metric]float64, ageDays int, sex domain.Sex) map[domain.Metric]float64
}

// Result is either an accepted, normalized record or the violations that rejected it
type Result[T domain.Record] struct {
	Record     *T
	Violations []domain.Violation
}

func (r Result[T]) Accepted() bool {
	return r.Record != nil
}

// Err returns a *domain.ValidationError for a rejected result, nil otherwise
func (r Result[T]) Err() error {
	if r.Accepted() {
		return nil
	}
	var zero T
	return &domain.ValidationError{Kind: zero.Kind(), Violations: r.Violations}
}

func accepted[T domain.Record](record T) Result[T] {
	return Result[T]{Record: &record}
}

func rejected[T domain.Record](violations []domain.Violation) Result[T] {
	return Result[T]{Violations: violations}
}

func result[T domain.Record](record T, violations []domain.Violation) Result[T] {
	if len(violations) > 0 {
		return rejected[T](violations)
	}
	return accepted(record)
}

// Engine validates candidate records and derives their computed fields.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	clock       Clock
	percentiles PercentileCalculator
}

type Option func(*Engine)

// WithClock overrides the clock used for defaults and not-in-future checks
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an engine. With a nil calculator every percentile is unavailable.
func New(percentiles PercentileCalculator, opts ...Option) *Engine {
	if percentiles == nil {
		percentiles = growth.NewEngine(nil)
	}
	e := &Engine{
		clock:       SystemClock{},
		percentiles: percentiles,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) ValidateProfile(c domain.ProfileCandidate) Result[domain.BabyProfile] {
	record, violations := validateProfile(c, e.clock.Now())
	return result(record, violations)
}

// ValidateFeeding computes the session duration, then validates the session
func (e *Engine) ValidateFeeding(c domain.FeedingCandidate) Result[domain.FeedingSession] {
	now := e.clock.Now()
	var kind domain.FeedingKind
	if c.FeedingType != nil {
		kind = domain.FeedingKind(*c.FeedingType)
	}
	duration, err := FeedingDuration(kind, timeOr(c.StartTime, now), c.EndTime,
		c.LeftBreastDuration, c.RightBreastDuration)

	session, violations := validateFeeding(c, now)
	if len(violations) > 0 {
		return rejected[domain.FeedingSession](violations)
	}
	if err == nil {
		session.DurationMinutes = duration
	}
	return accepted(session)
}

// ValidateSleep computes the session duration, then validates the session
func (e *Engine) ValidateSleep(c domain.SleepCandidate) Result[domain.SleepSession] {
	now := e.clock.Now()
	duration, err := SessionDuration(timeOr(c.SleepStart, now), c.SleepEnd)

	session, violations := validateSleep(c, now)
	if len(violations) > 0 {
		return rejected[domain.SleepSession](violations)
	}
	if err == nil {
		session.DurationMinutes = duration
	}
	return accepted(session)
}

func (e *Engine) ValidateDiaper(c domain.DiaperCandidate) Result[domain.DiaperEvent] {
	record, violations := validateDiaper(c, e.clock.Now())
	return result(record, violations)
}

// ValidateGrowth validates the measurement, then computes a percentile for
// each present metric at the subject's age. Metrics outside the reference
// range are omitted; they never reject the measurement.
func (e *Engine) ValidateGrowth(c domain.GrowthCandidate, ageDays int, sex domain.Sex) Result[domain.GrowthMeasurement] {
	measurement, violations := validateGrowth(c, e.clock.Now())
	if len(violations) > 0 {
		return rejected[domain.GrowthMeasurement](violations)
	}
	measurement.Percentiles = e.percentiles.Percentiles(measurement.Values(), ageDays, sex)
	if measurement.Percentiles == nil {
		measurement.Percentiles = map[domain.Metric]float64{}
	}
	return accepted(measurement)
}

func (e *Engine) ValidateHealth(c domain.HealthCandidate) Result[domain.HealthEvent] {
	record, violations := validateHealth(c, e.clock.Now())
	return result(record, violations)
}
