package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/IANDYI/care-log/internal/core/ports"
	"github.com/google/uuid"
)

// EventService implements business logic for care events
// Enforces RBAC and ownership rules, publishes alerts for Red temperature readings
type EventService struct {
	eventRepo      ports.EventRepository
	profileRepo    ports.ProfileRepository
	validator      ports.Validator
	alertPublisher ports.AlertPublisher
}

// NewEventService creates a new event service
// alertPublisher may be nil, in which case no alerts are sent
func NewEventService(
	eventRepo ports.EventRepository,
	profileRepo ports.ProfileRepository,
	validator ports.Validator,
	alertPublisher ports.AlertPublisher,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		profileRepo:    profileRepo,
		validator:      validator,
		alertPublisher: alertPublisher,
	}
}

// RecordEvent validates a care event of the given kind and stores it
// Only the PARENT owning an active profile can record events
func (s *EventService) RecordEvent(
	ctx context.Context,
	babyID uuid.UUID,
	kind domain.EventKind,
	payload []byte,
	userID uuid.UUID,
	isAdmin bool,
) (*domain.EventRecord, error) {
	if !domain.IsValidEventKind(kind) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	// RBAC enforcement: ADMIN cannot create events (read-only access)
	if isAdmin {
		return nil, fmt.Errorf("%w: only PARENT can record care events", domain.ErrForbidden)
	}

	profile, err := loadProfile(ctx, s.profileRepo, babyID, userID, false)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, fmt.Errorf("baby profile %s: %w", babyID, domain.ErrInactiveProfile)
	}

	out, err := s.validator.Validate(kind, payload, subjectOf(profile))
	if err != nil {
		return nil, err
	}
	event, err := acceptedRecord[domain.Event](out, userID)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", kind, err)
	}

	now := time.Now().UTC()
	record := &domain.EventRecord{
		ID:         uuid.New(),
		BabyID:     babyID,
		Kind:       kind,
		OccurredAt: event.OccurredAt(),
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
		Payload:    encoded,
	}

	if err := s.eventRepo.CreateEvent(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create %s event: %w", kind, err)
	}

	logEvent(record, "created")
	s.alertIfAbnormal(record, event)
	return record, nil
}

// GetEvent retrieves a care event by ID
// Enforces ownership: ADMIN can access any, PARENT only their own babies' events
func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error) {
	record, _, err := s.loadEvent(ctx, eventID, userID, isAdmin)
	return record, err
}

// ListEvents retrieves the events of a baby
// Optional filters: kind (filter by event kind), limit (max results)
func (s *EventService) ListEvents(
	ctx context.Context,
	babyID uuid.UUID,
	userID uuid.UUID,
	isAdmin bool,
	kind *domain.EventKind,
	limit *int,
) ([]*domain.EventRecord, error) {
	if _, err := loadProfile(ctx, s.profileRepo, babyID, userID, isAdmin); err != nil {
		return nil, err
	}

	// Validate kind filter if provided
	if kind != nil && !domain.IsValidEventKind(*kind) {
		return nil, fmt.Errorf("%w: invalid kind filter %q", domain.ErrInvalidInput, *kind)
	}
	// Validate limit if provided
	if limit != nil && *limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be greater than 0", domain.ErrInvalidInput)
	}

	records, err := s.eventRepo.ListEvents(ctx, babyID, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return records, nil
}

// UpdateEvent merges a sparse change-set into the stored event and revalidates it
// Derived fields are recomputed from the merged record
func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, patch []byte, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error) {
	if isAdmin {
		return nil, fmt.Errorf("%w: only PARENT can update care events", domain.ErrForbidden)
	}

	record, profile, err := s.loadEvent(ctx, eventID, userID, false)
	if err != nil {
		return nil, err
	}

	out, err := s.validator.Merge(record.Kind, record.Payload, patch, subjectOf(profile))
	if err != nil {
		return nil, err
	}
	event, err := acceptedRecord[domain.Event](out, userID)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", record.Kind, err)
	}

	updated := *record
	updated.Payload = encoded
	updated.OccurredAt = event.OccurredAt()
	updated.UpdatedAt = time.Now().UTC()

	if err := s.eventRepo.UpdateEvent(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update %s event: %w", record.Kind, err)
	}

	logEvent(&updated, "updated")
	s.alertIfAbnormal(&updated, event)
	return &updated, nil
}

// DeleteEvent deletes a care event by ID
// ADMIN cannot delete events (read-only access)
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return fmt.Errorf("%w: only PARENT can delete care events", domain.ErrForbidden)
	}

	record, _, err := s.loadEvent(ctx, eventID, userID, false)
	if err != nil {
		return err
	}

	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	logEvent(record, "deleted")
	return nil
}

// loadEvent fetches an event and its owning profile, enforcing ownership.
// Events of other parents' babies are reported as not found.
func (s *EventService) loadEvent(ctx context.Context, eventID, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, *domain.BabyProfile, error) {
	record, err := s.eventRepo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if record == nil {
		return nil, nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}

	profile, err := loadProfile(ctx, s.profileRepo, record.BabyID, userID, isAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return nil, nil, err
	}
	return record, profile, nil
}

// alertIfAbnormal publishes an alert for Red temperature readings.
// Publishing runs in a goroutine so it never blocks the response.
func (s *EventService) alertIfAbnormal(record *domain.EventRecord, event domain.Event) {
	health, ok := event.(domain.HealthEvent)
	if !ok || s.alertPublisher == nil {
		return
	}
	status, ok := health.TemperatureStatus()
	if !ok || status != domain.SafetyStatusRed {
		return
	}

	alert := &domain.Alert{
		BabyID:             record.BabyID,
		EventID:            record.ID,
		AlertType:          domain.AlertTypeTemperature,
		TemperatureCelsius: *health.TemperatureCelsius,
		TemperatureStatus:  status,
		Severity:           domain.AlertSeverityCritical,
		Timestamp:          health.EventDate,
	}

	go func() {
		// Use background context to avoid cancellation with the request
		if err := s.alertPublisher.PublishAlert(context.Background(), alert); err != nil {
			alertsPublishedTotal.WithLabelValues("failed").Inc()
			log.Printf("Failed to publish alert for Red temperature reading: %v", err)
			return
		}
		alertsPublishedTotal.WithLabelValues("published").Inc()
		logEvent(record, "alert_published")
	}()
}

func subjectOf(profile *domain.BabyProfile) *engine.Subject {
	return &engine.Subject{
		DateOfBirth: profile.DateOfBirth,
		Sex:         profile.Sex,
	}
}
