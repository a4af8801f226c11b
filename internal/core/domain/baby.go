package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sex selects the growth reference curves used for a baby
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexOther   Sex = "other"
	SexUnknown Sex = "unknown"
)

// ValidSexes returns all valid sex values
func ValidSexes() []Sex {
	return []Sex{SexMale, SexFemale, SexOther, SexUnknown}
}

// Profile defaults applied when the candidate leaves a field unset
const (
	DefaultTimezone   = "Australia/Sydney"
	ProfileNameMaxLen = 100
	TimezoneMaxLen    = 50
)

// BabyProfile represents a baby in the system
// Ownership is enforced via owner_user_id from JWT claims
type BabyProfile struct {
	ID                     uuid.UUID `json:"id"`
	OwnerUserID            uuid.UUID `json:"owner_user_id"`
	Name                   string    `json:"name"`
	DateOfBirth            Date      `json:"date_of_birth"`
	BirthWeight            *float64  `json:"birth_weight,omitempty"`             // kg
	BirthLength            *float64  `json:"birth_length,omitempty"`             // cm
	BirthHeadCircumference *float64  `json:"birth_head_circumference,omitempty"` // cm
	Sex                    Sex       `json:"sex"`
	Timezone               string    `json:"timezone"`
	Notes                  *string   `json:"notes,omitempty"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Kind implements Record
func (BabyProfile) Kind() EventKind { return KindProfile }

// ProfileCandidate is the raw, unvalidated form of a BabyProfile
type ProfileCandidate struct {
	Name                   *string  `json:"name"`
	DateOfBirth            *string  `json:"date_of_birth"`
	BirthWeight            *float64 `json:"birth_weight"`
	BirthLength            *float64 `json:"birth_length"`
	BirthHeadCircumference *float64 `json:"birth_head_circumference"`
	Sex                    *string  `json:"sex"`
	Timezone               *string  `json:"timezone"`
	Notes                  *string  `json:"notes"`
}
