package engine

import (
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

func validateGrowth(c domain.GrowthCandidate, now time.Time) (domain.GrowthMeasurement, []domain.Violation) {
	var v collector
	g := domain.GrowthMeasurement{
		WeightKg:            c.WeightKg,
		LengthCm:            c.LengthCm,
		HeadCircumferenceCm: c.HeadCircumferenceCm,
		MeasuredBy:          c.MeasuredBy,
		Notes:               c.Notes,
	}

	if date, ok := v.date("measurement_date", c.MeasurementDate, domain.DateOf(now)); ok {
		g.MeasurementDate = date
		v.notInFuture("measurement_date", date, today(now))
	}
	v.positive("weight_kg", c.WeightKg)
	v.positive("length_cm", c.LengthCm)
	v.positive("head_circumference_cm", c.HeadCircumferenceCm)
	g.MeasurementContext = enumOr(&v, "measurement_context", c.MeasurementContext,
		domain.ValidMeasurementContexts(), domain.MeasurementContextHome)
	v.maxLength("measured_by", c.MeasuredBy, domain.MeasuredByMaxLen)

	return g, v.violations
}
