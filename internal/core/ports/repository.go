package ports

import (
	"context"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/google/uuid"
)

// ProfileRepository defines the interface for baby profile persistence
type ProfileRepository interface {
	// CreateProfile stores a new, validated profile
	CreateProfile(ctx context.Context, profile *domain.BabyProfile) error

	// GetProfile retrieves a profile by ID
	// Returns domain.ErrNotFound if the profile doesn't exist
	GetProfile(ctx context.Context, babyID uuid.UUID) (*domain.BabyProfile, error)

	// ListProfiles retrieves profiles based on role:
	// ADMIN: all profiles
	// PARENT: only profiles where owner_user_id matches
	// Deactivated profiles are left out unless includeInactive is set
	ListProfiles(ctx context.Context, ownerUserID uuid.UUID, isAdmin bool, includeInactive bool) ([]*domain.BabyProfile, error)

	// UpdateProfile replaces the stored profile with a revalidated one
	UpdateProfile(ctx context.Context, profile *domain.BabyProfile) error

	// DeactivateProfile soft-deletes a profile by clearing is_active
	DeactivateProfile(ctx context.Context, babyID uuid.UUID) error
}

// EventRepository defines the interface for care event persistence
type EventRepository interface {
	// CreateEvent stores an accepted care event
	CreateEvent(ctx context.Context, event *domain.EventRecord) error

	// GetEvent retrieves a care event by ID
	// Returns domain.ErrNotFound if the event doesn't exist
	GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.EventRecord, error)

	// ListEvents retrieves the events of a baby, newest first
	// Optional filters: kind (filter by event kind), limit (max results)
	ListEvents(ctx context.Context, babyID uuid.UUID, kind *domain.EventKind, limit *int) ([]*domain.EventRecord, error)

	// UpdateEvent replaces the payload of a stored event
	UpdateEvent(ctx context.Context, event *domain.EventRecord) error

	// DeleteEvent deletes a care event by ID
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
}

// AlertPublisher defines the interface for publishing alerts to RabbitMQ
type AlertPublisher interface {
	// PublishAlert publishes an alert raised by a recorded health event
	PublishAlert(ctx context.Context, alert *domain.Alert) error
}
