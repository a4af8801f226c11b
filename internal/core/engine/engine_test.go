package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/IANDYI/care-log/internal/core/growth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	table, err := growth.NewTable("test", []growth.Curve{
		{
			Metric: domain.MetricWeight,
			Sex:    domain.SexFemale,
			Points: []growth.Point{
				{AgeDays: 30, LMS: growth.LMS{L: 0.17, M: 4.2, S: 0.137}},
				{AgeDays: 60, LMS: growth.LMS{L: 0.10, M: 4.5, S: 0.130}},
				{AgeDays: 90, LMS: growth.LMS{L: 0.04, M: 5.8, S: 0.126}},
			},
		},
		{
			Metric: domain.MetricLength,
			Sex:    domain.SexFemale,
			Points: []growth.Point{
				{AgeDays: 0, LMS: growth.LMS{L: 1, M: 49.1, S: 0.038}},
				{AgeDays: 60, LMS: growth.LMS{L: 1, M: 57.0, S: 0.036}},
			},
		},
	})
	require.NoError(t, err)
	return engine.New(growth.NewEngine(table), engine.WithClock(engine.ClockFunc(func() time.Time { return fixedNow })))
}

func violationOn(violations []domain.Violation, field string) (domain.Violation, bool) {
	for _, v := range violations {
		if v.Field == field {
			return v, true
		}
	}
	return domain.Violation{}, false
}

func requireViolation(t *testing.T, violations []domain.Violation, field string, kind domain.ViolationKind) domain.Violation {
	t.Helper()
	v, ok := violationOn(violations, field)
	require.True(t, ok, "expected a violation on %s, got %v", field, violations)
	assert.Equal(t, kind, v.Kind)
	return v
}

func TestEngine_ValidateFeeding_BreastWithoutEndUsesSides(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateFeeding(domain.FeedingCandidate{
		FeedingType:         ptr("breast"),
		LeftBreastDuration:  ptr(12),
		RightBreastDuration: ptr(8),
	})

	require.True(t, result.Accepted(), "violations: %v", result.Violations)
	require.NotNil(t, result.Record.DurationMinutes)
	assert.Equal(t, 20, *result.Record.DurationMinutes)
	assert.Equal(t, fixedNow, result.Record.StartTime)
	assert.Nil(t, result.Err())
}

func TestEngine_ValidateFeeding_BottleConsumedAboveOffered(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateFeeding(domain.FeedingCandidate{
		FeedingType:      ptr("bottle"),
		VolumeOfferedML:  ptr(120),
		VolumeConsumedML: ptr(150),
	})

	require.False(t, result.Accepted())
	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "volume_consumed_ml", v.Field)
	assert.Equal(t, domain.CrossFieldViolation, v.Kind)
	assert.Equal(t, domain.RuleConsumedOffered, v.Rule)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, result.Err(), &validationErr)
	assert.Equal(t, domain.KindFeeding, validationErr.Kind)
}

func TestEngine_ValidateFeeding_ConsumedEqualOfferedAccepted(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateFeeding(domain.FeedingCandidate{
		FeedingType:      ptr("bottle"),
		VolumeOfferedML:  ptr(120),
		VolumeConsumedML: ptr(120),
	})

	assert.True(t, result.Accepted())
	assert.Nil(t, result.Record.DurationMinutes)
}

func TestEngine_ValidateFeeding_BreastNeedsPositiveSide(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name  string
		left  *int
		right *int
	}{
		{"both zero", ptr(0), ptr(0)},
		{"both absent", nil, nil},
		{"one zero one absent", ptr(0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.ValidateFeeding(domain.FeedingCandidate{
				FeedingType:         ptr("breast"),
				LeftBreastDuration:  tt.left,
				RightBreastDuration: tt.right,
			})

			require.False(t, result.Accepted())
			left := requireViolation(t, result.Violations, "left_breast_duration", domain.CrossFieldViolation)
			right := requireViolation(t, result.Violations, "right_breast_duration", domain.CrossFieldViolation)
			assert.Equal(t, domain.RuleBreastDuration, left.Rule)
			assert.Equal(t, domain.RuleBreastDuration, right.Rule)
		})
	}
}

func TestEngine_ValidateFeeding_BottleNeedsOfferedVolume(t *testing.T) {
	e := newTestEngine(t)

	for name, offered := range map[string]*int{"absent": nil, "zero": ptr(0)} {
		t.Run(name, func(t *testing.T) {
			result := e.ValidateFeeding(domain.FeedingCandidate{
				FeedingType:     ptr("bottle"),
				VolumeOfferedML: offered,
			})

			require.False(t, result.Accepted())
			v := requireViolation(t, result.Violations, "volume_offered_ml", domain.CrossFieldViolation)
			assert.Equal(t, domain.RuleBottleVolume, v.Rule)
		})
	}

	t.Run("negative", func(t *testing.T) {
		result := e.ValidateFeeding(domain.FeedingCandidate{
			FeedingType:     ptr("bottle"),
			VolumeOfferedML: ptr(-10),
		})

		require.False(t, result.Accepted())
		assert.Len(t, result.Violations, 2)
		assert.Equal(t, domain.FieldConstraintViolation, result.Violations[0].Kind)
		assert.Equal(t, domain.CrossFieldViolation, result.Violations[1].Kind)
	})
}

func TestEngine_ValidateFeeding_ReportsEveryViolation(t *testing.T) {
	e := newTestEngine(t)
	start := fixedNow.Add(-time.Hour)

	result := e.ValidateFeeding(domain.FeedingCandidate{
		StartTime:        &start,
		EndTime:          ptr(start.Add(-time.Minute)),
		FeedingType:      ptr("bottle"),
		BreastStarted:    ptr("middle"),
		VolumeOfferedML:  ptr(100),
		VolumeConsumedML: ptr(110),
		FormulaType:      ptr(strings.Repeat("x", domain.FormulaTypeMaxLen+1)),
		Appetite:         ptr("ravenous"),
	})

	require.False(t, result.Accepted())
	fields := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"breast_started", "formula_type", "appetite", "end_time", "volume_consumed_ml"}, fields)
	assert.Equal(t, domain.InvalidInterval, result.Violations[3].Kind)
}

func TestEngine_ValidateFeeding_MissingType(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateFeeding(domain.FeedingCandidate{})

	require.False(t, result.Accepted())
	v := requireViolation(t, result.Violations, "feeding_type", domain.FieldConstraintViolation)
	assert.Equal(t, domain.RuleRequired, v.Rule)
}

func TestEngine_ValidateFeeding_EndTimeDuration(t *testing.T) {
	e := newTestEngine(t)
	start := fixedNow.Add(-time.Hour)

	result := e.ValidateFeeding(domain.FeedingCandidate{
		StartTime:   &start,
		EndTime:     ptr(start.Add(17*time.Minute + 40*time.Second)),
		FeedingType: ptr("solid"),
		FoodItems:   []string{"banana", "rice cereal"},
		Appetite:    ptr("good"),
	})

	require.True(t, result.Accepted())
	assert.Equal(t, 17, *result.Record.DurationMinutes)
	assert.Equal(t, domain.AppetiteGood, *result.Record.Appetite)
}

func TestEngine_ValidateSleep_EndBeforeStart(t *testing.T) {
	e := newTestEngine(t)
	start := fixedNow.Add(-2 * time.Hour)

	result := e.ValidateSleep(domain.SleepCandidate{
		SleepStart: &start,
		SleepEnd:   ptr(start.Add(-time.Hour)),
	})

	require.False(t, result.Accepted())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "sleep_end", result.Violations[0].Field)
	assert.Equal(t, domain.InvalidInterval, result.Violations[0].Kind)
}

func TestEngine_ValidateSleep_DefaultsAndDuration(t *testing.T) {
	e := newTestEngine(t)
	start := fixedNow.Add(-2 * time.Hour)

	result := e.ValidateSleep(domain.SleepCandidate{
		SleepStart:       &start,
		SleepEnd:         ptr(start.Add(95 * time.Minute)),
		SleepEnvironment: map[string]any{"temperature": 21.5, "lighting": "dark"},
	})

	require.True(t, result.Accepted())
	assert.Equal(t, domain.SleepKindNap, result.Record.SleepType)
	assert.Equal(t, domain.SleepLocationCrib, result.Record.Location)
	assert.Equal(t, domain.SleepQualityGood, result.Record.SleepQuality)
	assert.Nil(t, result.Record.WakeReason)
	assert.Equal(t, 95, *result.Record.DurationMinutes)
}

func TestEngine_ValidateSleep_InvalidEnums(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateSleep(domain.SleepCandidate{
		SleepType:    ptr("siesta"),
		Location:     ptr("hammock"),
		SleepQuality: ptr("good"),
		WakeReason:   ptr("alarm"),
	})

	require.False(t, result.Accepted())
	assert.Len(t, result.Violations, 3)
	for _, v := range result.Violations {
		assert.Equal(t, domain.RuleEnum, v.Rule)
	}
}

func TestEngine_ValidateDiaper_FlagConsistency(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateDiaper(domain.DiaperCandidate{
		UrineVolume:      ptr("heavy"),
		StoolConsistency: ptr("soft"),
		StoolColor:       ptr("yellow"),
	})

	require.False(t, result.Accepted())
	assert.Len(t, result.Violations, 3)
	requireViolation(t, result.Violations, "urine_volume", domain.CrossFieldViolation)
	requireViolation(t, result.Violations, "stool_consistency", domain.CrossFieldViolation)
	requireViolation(t, result.Violations, "stool_color", domain.CrossFieldViolation)
}

func TestEngine_ValidateDiaper_Defaults(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateDiaper(domain.DiaperCandidate{
		HasStool:         ptr(true),
		StoolConsistency: ptr("soft"),
	})

	require.True(t, result.Accepted())
	assert.Equal(t, fixedNow, result.Record.Timestamp)
	assert.False(t, result.Record.HasUrine)
	assert.Equal(t, domain.UrineVolumeNone, result.Record.UrineVolume)
	assert.Equal(t, domain.DiaperMaterialDisposable, result.Record.DiaperType)
	assert.Nil(t, result.Record.StoolColor)
}

func TestEngine_ValidateGrowth_MedianIsFiftiethPercentile(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateGrowth(domain.GrowthCandidate{WeightKg: ptr(4.5)}, 60, domain.SexFemale)

	require.True(t, result.Accepted())
	require.Contains(t, result.Record.Percentiles, domain.MetricWeight)
	assert.InDelta(t, 50.0, result.Record.Percentiles[domain.MetricWeight], 0.01)
	assert.NotContains(t, result.Record.Percentiles, domain.MetricLength)
	assert.Equal(t, domain.MeasurementContextHome, result.Record.MeasurementContext)
	assert.Equal(t, "2024-06-15", result.Record.MeasurementDate.String())
}

func TestEngine_ValidateGrowth_OutOfRangeOmitsMetric(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateGrowth(domain.GrowthCandidate{
		WeightKg: ptr(4.5),
		LengthCm: ptr(52.0),
	}, 10, domain.SexFemale)

	require.True(t, result.Accepted())
	assert.NotContains(t, result.Record.Percentiles, domain.MetricWeight)
	assert.Contains(t, result.Record.Percentiles, domain.MetricLength)
}

func TestEngine_ValidateGrowth_NoMetricsAccepted(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateGrowth(domain.GrowthCandidate{}, 60, domain.SexOther)

	require.True(t, result.Accepted())
	assert.NotNil(t, result.Record.Percentiles)
	assert.Empty(t, result.Record.Percentiles)
}

func TestEngine_ValidateGrowth_FieldRules(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateGrowth(domain.GrowthCandidate{
		MeasurementDate:    ptr("2024-07-01"),
		WeightKg:           ptr(0.0),
		LengthCm:           ptr(-3.0),
		MeasurementContext: ptr("pharmacy"),
	}, 60, domain.SexFemale)

	require.False(t, result.Accepted())
	v := requireViolation(t, result.Violations, "measurement_date", domain.FieldConstraintViolation)
	assert.Equal(t, domain.RuleNotInFuture, v.Rule)
	requireViolation(t, result.Violations, "weight_kg", domain.FieldConstraintViolation)
	requireViolation(t, result.Violations, "length_cm", domain.FieldConstraintViolation)
	requireViolation(t, result.Violations, "measurement_context", domain.FieldConstraintViolation)
}

func TestEngine_ValidateHealth_TemperatureAboveRange(t *testing.T) {
	e := newTestEngine(t)

	result := e.ValidateHealth(domain.HealthCandidate{
		EventType:          ptr("illness"),
		Title:              ptr("Fever"),
		TemperatureCelsius: ptr(50.0),
	})

	require.False(t, result.Accepted())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "temperature_celsius", result.Violations[0].Field)
	assert.Equal(t, domain.FieldConstraintViolation, result.Violations[0].Kind)
	assert.Equal(t, domain.RuleRange, result.Violations[0].Rule)
}

func TestEngine_ValidateHealth_TemperatureBoundsInclusive(t *testing.T) {
	e := newTestEngine(t)

	for _, temp := range []float64{30, 45} {
		result := e.ValidateHealth(domain.HealthCandidate{
			EventType:          ptr("illness"),
			Title:              ptr("Check"),
			TemperatureCelsius: ptr(temp),
		})
		assert.True(t, result.Accepted(), "temperature %v", temp)
	}
}

func TestEngine_ValidateHealth_RulesAndDefaults(t *testing.T) {
	e := newTestEngine(t)
	eventDate := fixedNow.Add(-24 * time.Hour)

	t.Run("blank title and follow-up before event", func(t *testing.T) {
		result := e.ValidateHealth(domain.HealthCandidate{
			EventDate:    &eventDate,
			EventType:    ptr("doctor_visit"),
			Title:        ptr("   "),
			FollowUpDate: ptr(eventDate.Add(-time.Hour)),
		})

		require.False(t, result.Accepted())
		assert.Len(t, result.Violations, 2)
		requireViolation(t, result.Violations, "title", domain.FieldConstraintViolation)
		requireViolation(t, result.Violations, "follow_up_date", domain.CrossFieldViolation)
	})

	t.Run("missing required fields", func(t *testing.T) {
		result := e.ValidateHealth(domain.HealthCandidate{})

		require.False(t, result.Accepted())
		requireViolation(t, result.Violations, "event_type", domain.FieldConstraintViolation)
		requireViolation(t, result.Violations, "title", domain.FieldConstraintViolation)
	})

	t.Run("accepted with trimmed title", func(t *testing.T) {
		result := e.ValidateHealth(domain.HealthCandidate{
			EventType:    ptr("vaccination"),
			Title:        ptr("  6 month shots "),
			FollowUpDate: ptr(fixedNow),
		})

		require.True(t, result.Accepted())
		assert.Equal(t, "6 month shots", result.Record.Title)
		assert.Equal(t, fixedNow, result.Record.EventDate)
		assert.False(t, result.Record.FollowUpRequired)
	})

	t.Run("title too long", func(t *testing.T) {
		result := e.ValidateHealth(domain.HealthCandidate{
			EventType: ptr("other"),
			Title:     ptr(strings.Repeat("a", domain.HealthTitleMaxLen+1)),
		})

		require.False(t, result.Accepted())
		v := requireViolation(t, result.Violations, "title", domain.FieldConstraintViolation)
		assert.Equal(t, domain.RuleMaxLength, v.Rule)
	})
}

func TestEngine_ValidateProfile(t *testing.T) {
	e := newTestEngine(t)

	t.Run("defaults", func(t *testing.T) {
		result := e.ValidateProfile(domain.ProfileCandidate{
			Name:        ptr("Ada"),
			DateOfBirth: ptr("2024-04-16"),
			BirthWeight: ptr(3.4),
		})

		require.True(t, result.Accepted(), "violations: %v", result.Violations)
		assert.Equal(t, domain.SexUnknown, result.Record.Sex)
		assert.Equal(t, domain.DefaultTimezone, result.Record.Timezone)
		assert.True(t, result.Record.IsActive)
		assert.Equal(t, domain.NewDate(2024, time.April, 16), result.Record.DateOfBirth)
	})

	t.Run("date of birth on the latest calendar day is accepted", func(t *testing.T) {
		result := e.ValidateProfile(domain.ProfileCandidate{
			Name:        ptr("Ada"),
			DateOfBirth: ptr("2024-06-16"),
		})

		assert.True(t, result.Accepted(), "violations: %v", result.Violations)
	})

	t.Run("every field rule", func(t *testing.T) {
		result := e.ValidateProfile(domain.ProfileCandidate{
			Name:        ptr(strings.Repeat("n", domain.ProfileNameMaxLen+1)),
			DateOfBirth: ptr("2024-07-30"),
			BirthWeight: ptr(-1.0),
			BirthLength: ptr(0.0),
			Sex:         ptr("robot"),
			Timezone:    ptr("Mars/Olympus_Mons"),
		})

		require.False(t, result.Accepted())
		assert.Len(t, result.Violations, 6)
		v := requireViolation(t, result.Violations, "date_of_birth", domain.FieldConstraintViolation)
		assert.Equal(t, domain.RuleNotInFuture, v.Rule)
	})

	t.Run("missing name and date of birth", func(t *testing.T) {
		result := e.ValidateProfile(domain.ProfileCandidate{})

		require.False(t, result.Accepted())
		assert.Len(t, result.Violations, 2)
	})

	t.Run("malformed date of birth", func(t *testing.T) {
		result := e.ValidateProfile(domain.ProfileCandidate{
			Name:        ptr("Ada"),
			DateOfBirth: ptr("16/04/2024"),
		})

		require.False(t, result.Accepted())
		v := requireViolation(t, result.Violations, "date_of_birth", domain.FieldConstraintViolation)
		assert.Equal(t, domain.RuleFormat, v.Rule)
	})
}

func TestEngine_New_WithoutReference(t *testing.T) {
	e := engine.New(nil)

	result := e.ValidateGrowth(domain.GrowthCandidate{
		MeasurementDate: ptr("2020-01-01"),
		WeightKg:        ptr(4.5),
	}, 60, domain.SexFemale)

	require.True(t, result.Accepted())
	assert.Empty(t, result.Record.Percentiles)
}
