package engine

import (
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

func validateFeeding(c domain.FeedingCandidate, now time.Time) (domain.FeedingSession, []domain.Violation) {
	var v collector
	s := domain.FeedingSession{
		StartTime:           timeOr(c.StartTime, now),
		EndTime:             c.EndTime,
		LeftBreastDuration:  c.LeftBreastDuration,
		RightBreastDuration: c.RightBreastDuration,
		VolumeOfferedML:     c.VolumeOfferedML,
		VolumeConsumedML:    c.VolumeConsumedML,
		FormulaType:         c.FormulaType,
		FoodItems:           c.FoodItems,
		Notes:               c.Notes,
	}

	s.FeedingType = requiredEnum(&v, "feeding_type", c.FeedingType, domain.ValidFeedingKinds())
	s.BreastStarted = optionalEnum(&v, "breast_started", c.BreastStarted, domain.ValidBreastSides())
	v.nonNegative("left_breast_duration", c.LeftBreastDuration)
	v.nonNegative("right_breast_duration", c.RightBreastDuration)
	v.nonNegative("volume_offered_ml", c.VolumeOfferedML)
	v.nonNegative("volume_consumed_ml", c.VolumeConsumedML)
	v.maxLength("formula_type", c.FormulaType, domain.FormulaTypeMaxLen)
	s.Appetite = optionalEnum(&v, "appetite", c.Appetite, domain.ValidAppetites())

	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		v.interval("end_time", "start_time")
	}
	switch s.FeedingType {
	case domain.FeedingKindBreast:
		if !isPositive(s.LeftBreastDuration) && !isPositive(s.RightBreastDuration) {
			const msg = "breast feeding requires a positive left_breast_duration or right_breast_duration"
			v.cross("left_breast_duration", domain.RuleBreastDuration, msg)
			v.cross("right_breast_duration", domain.RuleBreastDuration, msg)
		}
	case domain.FeedingKindBottle:
		if !isPositive(s.VolumeOfferedML) {
			v.cross("volume_offered_ml", domain.RuleBottleVolume,
				"bottle feeding requires volume_offered_ml greater than 0")
		}
	}
	if s.VolumeOfferedML != nil && s.VolumeConsumedML != nil && *s.VolumeConsumedML > *s.VolumeOfferedML {
		v.cross("volume_consumed_ml", domain.RuleConsumedOffered,
			"volume_consumed_ml (%d) must not exceed volume_offered_ml (%d)",
			*s.VolumeConsumedML, *s.VolumeOfferedML)
	}

	return s, v.violations
}
