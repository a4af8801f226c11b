package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// SQLRepository implements ProfileRepository and EventRepository using PostgreSQL
// Includes retry logic and circuit breaker for resilience
type SQLRepository struct {
	db         *sql.DB
	profileCB  *gobreaker.CircuitBreaker
	eventCB    *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
}

// NewSQLRepository creates a new PostgreSQL repository with circuit breakers
// built from settings; each table gets its own breaker
func NewSQLRepository(db *sql.DB, settings gobreaker.Settings) *SQLRepository {
	return &SQLRepository{
		db:         db,
		profileCB:  newBreaker(settings, "database.baby_profiles"),
		eventCB:    newBreaker(settings, "database.care_events"),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
	}
}

// executeWithRetry executes a database operation with retry logic
func (r *SQLRepository) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < r.maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		// Missing rows are not transient
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if i < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.retryDelay):
			}
		}
	}
	return fmt.Errorf("operation failed after %d retries: %w", r.maxRetries, lastErr)
}

// execute runs operation behind a circuit breaker with retries.
// Missing rows do not count as breaker failures.
func (r *SQLRepository) execute(ctx context.Context, cb *gobreaker.CircuitBreaker, operation func() error) error {
	var notFound error
	_, err := cb.Execute(func() (interface{}, error) {
		err := r.executeWithRetry(ctx, operation)
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			notFound = err
			return nil, nil
		}
		return nil, err
	})
	if notFound != nil {
		return domain.ErrNotFound
	}
	return err
}

// ProfileRepository implementation

const profileColumns = `id, owner_user_id, name, date_of_birth, birth_weight, birth_length,
	birth_head_circumference, sex, timezone, notes, is_active, created_at, updated_at`

func (r *SQLRepository) CreateProfile(ctx context.Context, profile *domain.BabyProfile) error {
	return r.execute(ctx, r.profileCB, func() error {
		query := `INSERT INTO baby_profiles (` + profileColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		_, err := r.db.ExecContext(ctx, query,
			profile.ID,
			profile.OwnerUserID,
			profile.Name,
			profile.DateOfBirth.Time,
			profile.BirthWeight,
			profile.BirthLength,
			profile.BirthHeadCircumference,
			string(profile.Sex),
			profile.Timezone,
			profile.Notes,
			profile.IsActive,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		return err
	})
}

func (r *SQLRepository) GetProfile(ctx context.Context, babyID uuid.UUID) (*domain.BabyProfile, error) {
	var profile *domain.BabyProfile
	err := r.execute(ctx, r.profileCB, func() error {
		query := `SELECT ` + profileColumns + ` FROM baby_profiles WHERE id = $1`
		p, err := scanProfile(r.db.QueryRowContext(ctx, query, babyID))
		profile = p
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("baby profile %s: %w", babyID, domain.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (r *SQLRepository) ListProfiles(ctx context.Context, ownerUserID uuid.UUID, isAdmin bool, includeInactive bool) ([]*domain.BabyProfile, error) {
	var profiles []*domain.BabyProfile
	err := r.execute(ctx, r.profileCB, func() error {
		profiles = nil
		query := `SELECT ` + profileColumns + ` FROM baby_profiles WHERE ($1 OR is_active)`
		args := []interface{}{includeInactive}
		if !isAdmin {
			// PARENT can only see their own profiles
			query += ` AND owner_user_id = $2`
			args = append(args, ownerUserID)
		}
		query += ` ORDER BY created_at DESC`

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProfile(rows)
			if err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*domain.BabyProfile{}
	}
	return profiles, nil
}

func (r *SQLRepository) UpdateProfile(ctx context.Context, profile *domain.BabyProfile) error {
	return r.execute(ctx, r.profileCB, func() error {
		query := `UPDATE baby_profiles SET name = $2, date_of_birth = $3, birth_weight = $4, birth_length = $5,
			birth_head_circumference = $6, sex = $7, timezone = $8, notes = $9, is_active = $10, updated_at = $11
			WHERE id = $1`
		result, err := r.db.ExecContext(ctx, query,
			profile.ID,
			profile.Name,
			profile.DateOfBirth.Time,
			profile.BirthWeight,
			profile.BirthLength,
			profile.BirthHeadCircumference,
			string(profile.Sex),
			profile.Timezone,
			profile.Notes,
			profile.IsActive,
			profile.UpdatedAt,
		)
		return requireRow(result, err)
	})
}

func (r *SQLRepository) DeactivateProfile(ctx context.Context, babyID uuid.UUID) error {
	return r.execute(ctx, r.profileCB, func() error {
		query := `UPDATE baby_profiles SET is_active = FALSE, updated_at = $2 WHERE id = $1`
		result, err := r.db.ExecContext(ctx, query, babyID, time.Now().UTC())
		return requireRow(result, err)
	})
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*domain.BabyProfile, error) {
	var p domain.BabyProfile
	var dateOfBirth time.Time
	var sex string
	var birthWeight, birthLength, birthHead sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(
		&p.ID, &p.OwnerUserID, &p.Name, &dateOfBirth,
		&birthWeight, &birthLength, &birthHead,
		&sex, &p.Timezone, &notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.DateOfBirth = domain.DateOf(dateOfBirth)
	p.Sex = domain.Sex(sex)
	p.BirthWeight = nullFloat(birthWeight)
	p.BirthLength = nullFloat(birthLength)
	p.BirthHeadCircumference = nullFloat(birthHead)
	if notes.Valid {
		p.Notes = &notes.String
	}
	return &p, nil
}

// EventRepository implementation

const eventColumns = `id, baby_id, kind, occurred_at, created_by, created_at, updated_at, payload`

func (r *SQLRepository) CreateEvent(ctx context.Context, event *domain.EventRecord) error {
	return r.execute(ctx, r.eventCB, func() error {
		query := `INSERT INTO care_events (` + eventColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.db.ExecContext(ctx, query,
			event.ID,
			event.BabyID,
			string(event.Kind),
			event.OccurredAt,
			event.CreatedBy,
			event.CreatedAt,
			event.UpdatedAt,
			[]byte(event.Payload),
		)
		return err
	})
}

func (r *SQLRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.EventRecord, error) {
	var event *domain.EventRecord
	err := r.execute(ctx, r.eventCB, func() error {
		query := `SELECT ` + eventColumns + ` FROM care_events WHERE id = $1`
		e, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID))
		event = e
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return nil, err
	}
	return event, nil
}

func (r *SQLRepository) ListEvents(ctx context.Context, babyID uuid.UUID, kind *domain.EventKind, limit *int) ([]*domain.EventRecord, error) {
	var events []*domain.EventRecord
	err := r.execute(ctx, r.eventCB, func() error {
		events = nil
		// Build query with optional filters
		query := `SELECT ` + eventColumns + ` FROM care_events WHERE baby_id = $1`
		args := []interface{}{babyID}
		argIndex := 2

		if kind != nil {
			query += fmt.Sprintf(" AND kind = $%d", argIndex)
			args = append(args, string(*kind))
			argIndex++
		}

		query += " ORDER BY occurred_at DESC, created_at DESC"

		if limit != nil {
			query += fmt.Sprintf(" LIMIT $%d", argIndex)
			args = append(args, *limit)
		}

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return err
			}
			events = append(events, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.EventRecord{}
	}
	return events, nil
}

func (r *SQLRepository) UpdateEvent(ctx context.Context, event *domain.EventRecord) error {
	return r.execute(ctx, r.eventCB, func() error {
		query := `UPDATE care_events SET occurred_at = $2, updated_at = $3, payload = $4 WHERE id = $1`
		result, err := r.db.ExecContext(ctx, query, event.ID, event.OccurredAt, event.UpdatedAt, []byte(event.Payload))
		return requireRow(result, err)
	})
}

func (r *SQLRepository) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	return r.execute(ctx, r.eventCB, func() error {
		result, err := r.db.ExecContext(ctx, `DELETE FROM care_events WHERE id = $1`, eventID)
		return requireRow(result, err)
	})
}

func scanEvent(row rowScanner) (*domain.EventRecord, error) {
	var e domain.EventRecord
	var kind string
	var payload []byte

	err := row.Scan(&e.ID, &e.BabyID, &kind, &e.OccurredAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &payload)
	if err != nil {
		return nil, err
	}
	e.Kind = domain.EventKind(kind)
	e.Payload = payload
	return &e, nil
}

// requireRow turns an update that touched no rows into domain.ErrNotFound
func requireRow(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Ensure SQLRepository implements the interfaces
var _ ports.ProfileRepository = (*SQLRepository)(nil)
var _ ports.EventRepository = (*SQLRepository)(nil)
