package ports

import (
	"context"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/google/uuid"
)

// Validator is the validation engine as seen by the services
type Validator interface {
	Validate(kind domain.EventKind, payload []byte, subject *engine.Subject) (engine.Outcome, error)
	Merge(kind domain.EventKind, stored, patch []byte, subject *engine.Subject) (engine.Outcome, error)
}

// ProfileService defines the business logic interface for baby profiles
type ProfileService interface {
	// CreateProfile validates a profile payload and stores it, owned by the caller
	// ADMIN cannot create profiles (read-only access)
	CreateProfile(ctx context.Context, payload []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error)

	// GetProfile retrieves a profile by ID
	// Enforces ownership: ADMIN can access any, PARENT only their own
	GetProfile(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error)

	// ListProfiles retrieves profiles based on role
	// ADMIN: all profiles, PARENT: only owned profiles
	ListProfiles(ctx context.Context, userID uuid.UUID, isAdmin bool, includeInactive bool) ([]*domain.BabyProfile, error)

	// UpdateProfile merges a sparse change-set into the stored profile and revalidates it
	UpdateProfile(ctx context.Context, babyID uuid.UUID, patch []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error)

	// DeactivateProfile soft-deletes a profile
	DeactivateProfile(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool) error
}

// EventService defines the business logic interface for care events
type EventService interface {
	// RecordEvent validates a care event of the given kind and stores it
	// Only the PARENT owning an active profile can record events
	// Publishes alerts for Red temperature readings
	RecordEvent(ctx context.Context, babyID uuid.UUID, kind domain.EventKind, payload []byte, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error)

	// GetEvent retrieves a care event by ID
	// Enforces ownership: ADMIN can access any, PARENT only their own babies' events
	GetEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error)

	// ListEvents retrieves the events of a baby
	// Optional filters: kind (filter by event kind), limit (max results)
	ListEvents(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool, kind *domain.EventKind, limit *int) ([]*domain.EventRecord, error)

	// UpdateEvent merges a sparse change-set into the stored event and revalidates it
	UpdateEvent(ctx context.Context, eventID uuid.UUID, patch []byte, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error)

	// DeleteEvent deletes a care event by ID
	// ADMIN cannot delete events (read-only access)
	DeleteEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, isAdmin bool) error
}

// ReferenceService swaps the growth reference table used for percentiles
type ReferenceService interface {
	// Reload loads the configured reference table and makes it active
	// Returns the source description of the new table
	Reload(ctx context.Context) (string, error)
}
