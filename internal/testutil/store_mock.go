package testutil

import (
	"context"

	"go-shortview/internal/tracking/domain"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock for usecase.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockStore) CreateProfileIfAbsent(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockStore) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) ListSweepableProfiles(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockStore) CreateArtifact(ctx context.Context, a *domain.Artifact) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStore) FindArtifact(ctx context.Context, id string) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockStore) ListArtifactsByOwner(ctx context.Context, ownerID string) ([]domain.Artifact, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Artifact), args.Error(1)
}

func (m *MockStore) UpdateArtifact(ctx context.Context, a *domain.Artifact) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStore) DeleteArtifact(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) CreateEvent(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockStore) FindEvent(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockStore) ListEvents(ctx context.Context, artifactID string) ([]domain.Event, error) {
	args := m.Called(ctx, artifactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockStore) CountEvents(ctx context.Context, artifactID string) (int64, error) {
	args := m.Called(ctx, artifactID)
	return args.Get(0).(int64), args.Error(1)
}
