package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/IANDYI/care-log/internal/core/growth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfileRepository is a mock implementation of ports.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile *domain.BabyProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, babyID uuid.UUID) (*domain.BabyProfile, error) {
	args := m.Called(ctx, babyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BabyProfile), args.Error(1)
}

func (m *MockProfileRepository) ListProfiles(ctx context.Context, ownerUserID uuid.UUID, isAdmin bool, includeInactive bool) ([]*domain.BabyProfile, error) {
	args := m.Called(ctx, ownerUserID, isAdmin, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BabyProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, profile *domain.BabyProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) DeactivateProfile(ctx context.Context, babyID uuid.UUID) error {
	args := m.Called(ctx, babyID)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of ports.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CreateEvent(ctx context.Context, event *domain.EventRecord) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.EventRecord, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRecord), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context, babyID uuid.UUID, kind *domain.EventKind, limit *int) ([]*domain.EventRecord, error) {
	args := m.Called(ctx, babyID, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EventRecord), args.Error(1)
}

func (m *MockEventRepository) UpdateEvent(ctx context.Context, event *domain.EventRecord) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// MockAlertPublisher is a mock implementation of ports.AlertPublisher
type MockAlertPublisher struct {
	mock.Mock
	published chan *domain.Alert
}

func newMockAlertPublisher() *MockAlertPublisher {
	return &MockAlertPublisher{published: make(chan *domain.Alert, 1)}
}

func (m *MockAlertPublisher) PublishAlert(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	m.published <- alert
	return args.Error(0)
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestValidator(t *testing.T) *engine.Engine {
	t.Helper()
	table, err := growth.Default()
	require.NoError(t, err)
	return engine.New(growth.NewEngine(table), engine.WithClock(engine.ClockFunc(func() time.Time { return testNow })))
}

func newProfile(ownerID uuid.UUID) *domain.BabyProfile {
	return &domain.BabyProfile{
		ID:          uuid.New(),
		OwnerUserID: ownerID,
		Name:        "Ada",
		DateOfBirth: domain.NewDate(2024, time.April, 15),
		Sex:         domain.SexFemale,
		Timezone:    domain.DefaultTimezone,
		IsActive:    true,
		CreatedAt:   testNow.Add(-48 * time.Hour),
		UpdatedAt:   testNow.Add(-48 * time.Hour),
	}
}
