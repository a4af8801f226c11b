package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventKind tags the record type flowing through validation and storage
type EventKind string

const (
	KindProfile EventKind = "profile"
	KindFeeding EventKind = "feeding"
	KindSleep   EventKind = "sleep"
	KindDiaper  EventKind = "diaper"
	KindGrowth  EventKind = "growth"
	KindHealth  EventKind = "health"
)

// ValidEventKinds returns the kinds that can be recorded against a baby
func ValidEventKinds() []EventKind {
	return []EventKind{KindFeeding, KindSleep, KindDiaper, KindGrowth, KindHealth}
}

// IsValidEventKind checks if a kind is a care event kind
func IsValidEventKind(kind EventKind) bool {
	for _, k := range ValidEventKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Record is any normalized record produced by validation
type Record interface {
	Kind() EventKind
}

// Event is a normalized care event that belongs to a baby
type Event interface {
	Record
	OccurredAt() time.Time
}

// EventRecord is the persisted envelope of one accepted care event
type EventRecord struct {
	ID         uuid.UUID       `json:"id"`
	BabyID     uuid.UUID       `json:"baby_id"`
	Kind       EventKind       `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedBy  uuid.UUID       `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Alert represents a health alert raised by a recorded event
type Alert struct {
	BabyID             uuid.UUID    `json:"baby_id"`
	EventID            uuid.UUID    `json:"event_id"`
	AlertType          string       `json:"alert_type"`
	TemperatureCelsius float64      `json:"temperature_celsius"`
	TemperatureStatus  SafetyStatus `json:"temperature_status"`
	Severity           string       `json:"severity"`
	Timestamp          time.Time    `json:"timestamp"`
}

const (
	AlertTypeTemperature  = "temperature"
	AlertSeverityCritical = "critical"
)
