package domain

import "time"

type HealthEventType string

const (
	HealthEventVaccination HealthEventType = "vaccination"
	HealthEventIllness     HealthEventType = "illness"
	HealthEventMedication  HealthEventType = "medication"
	HealthEventMilestone   HealthEventType = "milestone"
	HealthEventDoctorVisit HealthEventType = "doctor_visit"
	HealthEventAllergy     HealthEventType = "allergy"
	HealthEventOther       HealthEventType = "other"
)

func ValidHealthEventTypes() []HealthEventType {
	return []HealthEventType{
		HealthEventVaccination,
		HealthEventIllness,
		HealthEventMedication,
		HealthEventMilestone,
		HealthEventDoctorVisit,
		HealthEventAllergy,
		HealthEventOther,
	}
}

const (
	HealthTitleMaxLen    = 200
	HealthProviderMaxLen = 200

	MinTemperatureCelsius = 30.0
	MaxTemperatureCelsius = 45.0
)

// SafetyStatus represents the health status of a temperature reading
type SafetyStatus string

const (
	SafetyStatusGreen  SafetyStatus = "green"
	SafetyStatusYellow SafetyStatus = "yellow"
	SafetyStatusRed    SafetyStatus = "red"
)

// Temperature thresholds for baby safety status (Celsius)
const (
	TempNormalMin = 36.5
	TempNormalMax = 37.5
	TempYellowMin = 36.0
	TempYellowMax = 38.0
)

// TemperatureStatus classifies a temperature reading:
// green 36.5-37.5, yellow 36.0-36.5 or 37.5-38.0, red outside 36.0-38.0
func TemperatureStatus(celsius float64) SafetyStatus {
	if celsius >= TempNormalMin && celsius <= TempNormalMax {
		return SafetyStatusGreen
	}
	if celsius >= TempYellowMin && celsius <= TempYellowMax {
		return SafetyStatusYellow
	}
	return SafetyStatusRed
}

// HealthEvent is a validated health record
type HealthEvent struct {
	EventDate          time.Time       `json:"event_date"`
	EventType          HealthEventType `json:"event_type"`
	Title              string          `json:"title"`
	Description        *string         `json:"description,omitempty"`
	TemperatureCelsius *float64        `json:"temperature_celsius,omitempty"`
	Symptoms           []string        `json:"symptoms,omitempty"`
	Treatment          *string         `json:"treatment,omitempty"`
	HealthcareProvider *string         `json:"healthcare_provider,omitempty"`
	FollowUpRequired   bool            `json:"follow_up_required"`
	FollowUpDate       *time.Time      `json:"follow_up_date,omitempty"`
	Attachments        []string        `json:"attachments,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
}

func (HealthEvent) Kind() EventKind        { return KindHealth }
func (h HealthEvent) OccurredAt() time.Time { return h.EventDate }

// TemperatureStatus returns the status of the recorded temperature, if any
func (h HealthEvent) TemperatureStatus() (SafetyStatus, bool) {
	if h.TemperatureCelsius == nil {
		return "", false
	}
	return TemperatureStatus(*h.TemperatureCelsius), true
}

// HealthCandidate is the raw, unvalidated form of a HealthEvent
type HealthCandidate struct {
	EventDate          *time.Time `json:"event_date"`
	EventType          *string    `json:"event_type"`
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	TemperatureCelsius *float64   `json:"temperature_celsius"`
	Symptoms           []string   `json:"symptoms"`
	Treatment          *string    `json:"treatment"`
	HealthcareProvider *string    `json:"healthcare_provider"`
	FollowUpRequired   *bool      `json:"follow_up_required"`
	FollowUpDate       *time.Time `json:"follow_up_date"`
	Attachments        []string   `json:"attachments"`
	Notes              *string    `json:"notes"`
}
