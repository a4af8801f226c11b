package domain

import "time"

// FeedingKind represents the type of feeding
type FeedingKind string

const (
	FeedingKindBreast FeedingKind = "breast"
	FeedingKindBottle FeedingKind = "bottle"
	FeedingKindSolid  FeedingKind = "solid"
)

// ValidFeedingKinds returns all valid feeding kinds
func ValidFeedingKinds() []FeedingKind {
	return []FeedingKind{FeedingKindBreast, FeedingKindBottle, FeedingKindSolid}
}

// BreastSide represents which side a breastfeed started on
type BreastSide string

const (
	BreastSideLeft  BreastSide = "left"
	BreastSideRight BreastSide = "right"
)

// ValidBreastSides returns all valid breast sides
func ValidBreastSides() []BreastSide {
	return []BreastSide{BreastSideLeft, BreastSideRight}
}

// Appetite rates how well a solid feed went
type Appetite string

const (
	AppetitePoor      Appetite = "poor"
	AppetiteFair      Appetite = "fair"
	AppetiteGood      Appetite = "good"
	AppetiteExcellent Appetite = "excellent"
)

// ValidAppetites returns all valid appetite ratings
func ValidAppetites() []Appetite {
	return []Appetite{AppetitePoor, AppetiteFair, AppetiteGood, AppetiteExcellent}
}

const FormulaTypeMaxLen = 100

// FeedingSession is a validated feeding record.
// DurationMinutes is derived and nil when it cannot be known.
type FeedingSession struct {
	StartTime           time.Time   `json:"start_time"`
	EndTime             *time.Time  `json:"end_time,omitempty"`
	FeedingType         FeedingKind `json:"feeding_type"`
	BreastStarted       *BreastSide `json:"breast_started,omitempty"`
	LeftBreastDuration  *int        `json:"left_breast_duration,omitempty"`  // minutes
	RightBreastDuration *int        `json:"right_breast_duration,omitempty"` // minutes
	VolumeOfferedML     *int        `json:"volume_offered_ml,omitempty"`
	VolumeConsumedML    *int        `json:"volume_consumed_ml,omitempty"`
	FormulaType         *string     `json:"formula_type,omitempty"`
	FoodItems           []string    `json:"food_items,omitempty"`
	Appetite            *Appetite   `json:"appetite,omitempty"`
	Notes               *string     `json:"notes,omitempty"`
	DurationMinutes     *int        `json:"duration_minutes"`
}

func (FeedingSession) Kind() EventKind        { return KindFeeding }
func (f FeedingSession) OccurredAt() time.Time { return f.StartTime }

// FeedingCandidate is the raw, unvalidated form of a FeedingSession
type FeedingCandidate struct {
	StartTime           *time.Time `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	FeedingType         *string    `json:"feeding_type"`
	BreastStarted       *string    `json:"breast_started"`
	LeftBreastDuration  *int       `json:"left_breast_duration"`
	RightBreastDuration *int       `json:"right_breast_duration"`
	VolumeOfferedML     *int       `json:"volume_offered_ml"`
	VolumeConsumedML    *int       `json:"volume_consumed_ml"`
	FormulaType         *string    `json:"formula_type"`
	FoodItems           []string   `json:"food_items"`
	Appetite            *string    `json:"appetite"`
	Notes               *string    `json:"notes"`
}
