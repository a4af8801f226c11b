package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/IANDYI/care-log/internal/adapters/middleware"
	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProfileService is a mock implementation of ports.ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateProfile(ctx context.Context, payload []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	args := m.Called(ctx, payload, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BabyProfile), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	args := m.Called(ctx, babyID, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BabyProfile), args.Error(1)
}

func (m *MockProfileService) ListProfiles(ctx context.Context, userID uuid.UUID, isAdmin bool, includeInactive bool) ([]*domain.BabyProfile, error) {
	args := m.Called(ctx, userID, isAdmin, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BabyProfile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, babyID uuid.UUID, patch []byte, userID uuid.UUID, isAdmin bool) (*domain.BabyProfile, error) {
	args := m.Called(ctx, babyID, patch, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BabyProfile), args.Error(1)
}

func (m *MockProfileService) DeactivateProfile(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, babyID, userID, isAdmin)
	return args.Error(0)
}

// MockEventService is a mock implementation of ports.EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) RecordEvent(ctx context.Context, babyID uuid.UUID, kind domain.EventKind, payload []byte, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error) {
	args := m.Called(ctx, babyID, kind, payload, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRecord), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error) {
	args := m.Called(ctx, eventID, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRecord), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, babyID uuid.UUID, userID uuid.UUID, isAdmin bool, kind *domain.EventKind, limit *int) ([]*domain.EventRecord, error) {
	args := m.Called(ctx, babyID, userID, isAdmin, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EventRecord), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, patch []byte, userID uuid.UUID, isAdmin bool) (*domain.EventRecord, error) {
	args := m.Called(ctx, eventID, patch, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRecord), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, eventID, userID, isAdmin)
	return args.Error(0)
}

// MockReferenceService is a mock implementation of ports.ReferenceService
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) Reload(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPinger stands in for *sql.DB in readiness checks
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// newRequest builds a request authenticated as the given principal
func newRequest(method, target string, body io.Reader, userID uuid.UUID, role string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: userID, Role: role}))
}
