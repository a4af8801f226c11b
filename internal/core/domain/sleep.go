package domain

import "time"

type SleepKind string

const (
	SleepKindNap       SleepKind = "nap"
	SleepKindNighttime SleepKind = "nighttime"
)

func ValidSleepKinds() []SleepKind {
	return []SleepKind{SleepKindNap, SleepKindNighttime}
}

type SleepLocation string

const (
	SleepLocationCrib      SleepLocation = "crib"
	SleepLocationBassinet  SleepLocation = "bassinet"
	SleepLocationParentBed SleepLocation = "parent_bed"
	SleepLocationStroller  SleepLocation = "stroller"
	SleepLocationCarSeat   SleepLocation = "car_seat"
	SleepLocationOther     SleepLocation = "other"
)

func ValidSleepLocations() []SleepLocation {
	return []SleepLocation{
		SleepLocationCrib,
		SleepLocationBassinet,
		SleepLocationParentBed,
		SleepLocationStroller,
		SleepLocationCarSeat,
		SleepLocationOther,
	}
}

type SleepQuality string

const (
	SleepQualityRestless SleepQuality = "restless"
	SleepQualityFair     SleepQuality = "fair"
	SleepQualityGood     SleepQuality = "good"
	SleepQualityDeep     SleepQuality = "deep"
)

func ValidSleepQualities() []SleepQuality {
	return []SleepQuality{SleepQualityRestless, SleepQualityFair, SleepQualityGood, SleepQualityDeep}
}

type WakeReason string

const (
	WakeReasonNatural WakeReason = "natural"
	WakeReasonCrying  WakeReason = "crying"
	WakeReasonFeeding WakeReason = "feeding"
	WakeReasonDiaper  WakeReason = "diaper"
	WakeReasonNoise   WakeReason = "noise"
	WakeReasonOther   WakeReason = "other"
)

func ValidWakeReasons() []WakeReason {
	return []WakeReason{
		WakeReasonNatural,
		WakeReasonCrying,
		WakeReasonFeeding,
		WakeReasonDiaper,
		WakeReasonNoise,
		WakeReasonOther,
	}
}

// SleepSession is a validated sleep record
type SleepSession struct {
	SleepStart       time.Time      `json:"sleep_start"`
	SleepEnd         *time.Time     `json:"sleep_end,omitempty"`
	SleepType        SleepKind      `json:"sleep_type"`
	Location         SleepLocation  `json:"location"`
	SleepQuality     SleepQuality   `json:"sleep_quality"`
	SleepEnvironment map[string]any `json:"sleep_environment,omitempty"` // temperature, noise_level, lighting, ...
	WakeReason       *WakeReason    `json:"wake_reason,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	DurationMinutes  *int           `json:"duration_minutes"`
}

func (SleepSession) Kind() EventKind        { return KindSleep }
func (s SleepSession) OccurredAt() time.Time { return s.SleepStart }

// SleepCandidate is the raw, unvalidated form of a SleepSession
type SleepCandidate struct {
	SleepStart       *time.Time     `json:"sleep_start"`
	SleepEnd         *time.Time     `json:"sleep_end"`
	SleepType        *string        `json:"sleep_type"`
	Location         *string        `json:"location"`
	SleepQuality     *string        `json:"sleep_quality"`
	SleepEnvironment map[string]any `json:"sleep_environment"`
	WakeReason       *string        `json:"wake_reason"`
	Notes            *string        `json:"notes"`
}
