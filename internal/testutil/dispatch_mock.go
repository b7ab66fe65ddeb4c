package testutil

import (
	"context"
	"sync"

	"go-shortview/internal/tracking/domain"

	"github.com/stretchr/testify/mock"
)

// MockDispatcher is a testify mock for usecase.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(n domain.Notification) {
	m.Called(n)
}

// RecordingDispatcher keeps every dispatched notification. Safe for concurrent use.
type RecordingDispatcher struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (d *RecordingDispatcher) Dispatch(n domain.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

// Sent returns a copy of the notifications dispatched so far.
func (d *RecordingDispatcher) Sent() []domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Notification(nil), d.sent...)
}

// MockTransport is a testify mock for notify.Transport.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// MockArtifactCache is a testify mock for rediscache.ArtifactCache.
type MockArtifactCache struct {
	mock.Mock
}

func (m *MockArtifactCache) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactCache) Set(ctx context.Context, a *domain.Artifact) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockArtifactCache) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
