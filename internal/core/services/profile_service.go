package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/IANDYI/care-log/internal/core/ports"
	"github.com/google/uuid"
)

// ProfileService implements business logic for baby profiles
// Enforces RBAC and ownership rules
type ProfileService struct {
	profileRepo ports.ProfileRepository
	validator   ports.Validator
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo ports.ProfileRepository, validator ports.Validator) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		validator:   validator,
	}
}

// CreateProfile validates a profile payload and stores it, owned by the caller
// ADMIN cannot create profiles (read-only access)
func (s *ProfileService) CreateProfile(ctx context.Context, payload []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	if isAdmin {
		return nil, fmt.Errorf("%w: ADMIN has read-only access to baby profiles", domain.ErrForbidden)
	}

	out, err := s.validator.Validate(domain.KindProfile, payload, nil)
	if err != nil {
		return nil, err
	}
	profile, err := acceptedRecord[domain.BabyProfile](out, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile.ID = uuid.New()
	profile.OwnerUserID = userID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.profileRepo.CreateProfile(ctx, &profile); err != nil {
		return nil, fmt.Errorf("failed to create baby profile: %w", err)
	}

	logProfile(&profile, "created")
	return &profile, nil
}

// GetProfile retrieves a profile by ID
// Enforces ownership: ADMIN can access any, PARENT only their own
func (s *ProfileService) GetProfile(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	return loadProfile(ctx, s.profileRepo, babyID, userID, isAdmin)
}

// ListProfiles retrieves profiles based on role
// ADMIN: all profiles, PARENT: only owned profiles
func (s *ProfileService) ListProfiles(ctx context.Context, userID uuid.UUID, isAdmin bool, includeInactive bool) ([]*domain.BabyProfile, error) {
	ownerUserID := userID
	if isAdmin {
		// ADMIN can see all profiles, ownerUserID is ignored
		ownerUserID = uuid.Nil
	}

	profiles, err := s.profileRepo.ListProfiles(ctx, ownerUserID, isAdmin, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list baby profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile merges a sparse change-set into the stored profile and revalidates it
func (s *ProfileService) UpdateProfile(ctx context.Context, babyID uuid.UUID, patch []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	if isAdmin {
		return nil, fmt.Errorf("%w: ADMIN has read-only access to baby profiles", domain.ErrForbidden)
	}

	current, err := loadProfile(ctx, s.profileRepo, babyID, userID, false)
	if err != nil {
		return nil, err
	}
	stored, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stored profile: %w", err)
	}

	out, err := s.validator.Merge(domain.KindProfile, stored, patch, nil)
	if err != nil {
		return nil, err
	}
	updated, err := acceptedRecord[domain.BabyProfile](out, userID)
	if err != nil {
		return nil, err
	}

	updated.ID = current.ID
	updated.OwnerUserID = current.OwnerUserID
	updated.CreatedAt = current.CreatedAt
	updated.IsActive = current.IsActive
	updated.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.UpdateProfile(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update baby profile: %w", err)
	}

	logProfile(&updated, "updated")
	return &updated, nil
}

// DeactivateProfile soft-deletes a profile; its events are kept
func (s *ProfileService) DeactivateProfile(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return fmt.Errorf("%w: ADMIN has read-only access to baby profiles", domain.ErrForbidden)
	}

	profile, err := loadProfile(ctx, s.profileRepo, babyID, userID, false)
	if err != nil {
		return err
	}

	if err := s.profileRepo.DeactivateProfile(ctx, babyID); err != nil {
		return fmt.Errorf("failed to deactivate baby profile: %w", err)
	}

	profile.IsActive = false
	logProfile(profile, "deactivated")
	return nil
}

// loadProfile fetches a profile and enforces ownership.
// A profile owned by someone else is reported as not found so ownership does not leak.
func loadProfile(ctx context.Context, repo ports.ProfileRepository, babyID, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	profile, err := repo.GetProfile(ctx, babyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("baby profile %s: %w", babyID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get baby profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("baby profile %s: %w", babyID, domain.ErrNotFound)
	}
	if !isAdmin && profile.OwnerUserID != userID {
		return nil, fmt.Errorf("baby profile %s: %w", babyID, domain.ErrNotFound)
	}
	return profile, nil
}

// acceptedRecord records metrics for an outcome and unwraps its record.
// Rejections are returned as *domain.ValidationError.
func acceptedRecord[T domain.Record](out engine.Outcome, userID uuid.UUID) (T, error) {
	var zero T
	observeOutcome(out)
	if !out.Accepted() {
		logRejection(out.Kind, userID.String(), out.Violations)
		return zero, out.Err()
	}
	record, ok := out.Record.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected %T record for kind %s", out.Record, out.Kind)
	}
	return record, nil
}
