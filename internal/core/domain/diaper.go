package domain

import "time"

// UrineVolume is only meaningful when HasUrine is set
type UrineVolume string

const (
	UrineVolumeNone     UrineVolume = "none"
	UrineVolumeLight    UrineVolume = "light"
	UrineVolumeModerate UrineVolume = "moderate"
	UrineVolumeHeavy    UrineVolume = "heavy"
)

func ValidUrineVolumes() []UrineVolume {
	return []UrineVolume{UrineVolumeNone, UrineVolumeLight, UrineVolumeModerate, UrineVolumeHeavy}
}

// StoolConsistency is only meaningful when HasStool is set
type StoolConsistency string

const (
	StoolConsistencyLiquid StoolConsistency = "liquid"
	StoolConsistencySoft   StoolConsistency = "soft"
	StoolConsistencyFormed StoolConsistency = "formed"
	StoolConsistencyHard   StoolConsistency = "hard"
)

func ValidStoolConsistencies() []StoolConsistency {
	return []StoolConsistency{
		StoolConsistencyLiquid,
		StoolConsistencySoft,
		StoolConsistencyFormed,
		StoolConsistencyHard,
	}
}

// StoolColor is only meaningful when HasStool is set
type StoolColor string

const (
	StoolColorYellow StoolColor = "yellow"
	StoolColorBrown  StoolColor = "brown"
	StoolColorGreen  StoolColor = "green"
	StoolColorRed    StoolColor = "red"
	StoolColorBlack  StoolColor = "black"
	StoolColorOther  StoolColor = "other"
)

func ValidStoolColors() []StoolColor {
	return []StoolColor{
		StoolColorYellow,
		StoolColorBrown,
		StoolColorGreen,
		StoolColorRed,
		StoolColorBlack,
		StoolColorOther,
	}
}

// DiaperMaterial represents the kind of diaper used
type DiaperMaterial string

const (
	DiaperMaterialDisposable DiaperMaterial = "disposable"
	DiaperMaterialCloth      DiaperMaterial = "cloth"
	DiaperMaterialTraining   DiaperMaterial = "training"
)

func ValidDiaperMaterials() []DiaperMaterial {
	return []DiaperMaterial{DiaperMaterialDisposable, DiaperMaterialCloth, DiaperMaterialTraining}
}

// DiaperEvent is a validated diaper change
type DiaperEvent struct {
	Timestamp        time.Time         `json:"timestamp"`
	HasUrine         bool              `json:"has_urine"`
	UrineVolume      UrineVolume       `json:"urine_volume"`
	HasStool         bool              `json:"has_stool"`
	StoolConsistency *StoolConsistency `json:"stool_consistency,omitempty"`
	StoolColor       *StoolColor       `json:"stool_color,omitempty"`
	DiaperType       DiaperMaterial    `json:"diaper_type"`
	Notes            *string           `json:"notes,omitempty"`
}

func (DiaperEvent) Kind() EventKind        { return KindDiaper }
func (d DiaperEvent) OccurredAt() time.Time { return d.Timestamp }

// DiaperCandidate is the raw, unvalidated form of a DiaperEvent
type DiaperCandidate struct {
	Timestamp        *time.Time `json:"timestamp"`
	HasUrine         *bool      `json:"has_urine"`
	UrineVolume      *string    `json:"urine_volume"`
	HasStool         *bool      `json:"has_stool"`
	StoolConsistency *string    `json:"stool_consistency"`
	StoolColor       *string    `json:"stool_color"`
	DiaperType       *string    `json:"diaper_type"`
	Notes            *string    `json:"notes"`
}
