package rediscache

import (
	"context"
	"testing"
	"time"

	"go-shortview/internal/testutil"
	"go-shortview/internal/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testArtifact() *domain.Artifact {
	return &domain.Artifact{
		ID:          "abc12345",
		Kind:        domain.KindLink,
		OwnerID:     "u1",
		CreatedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Lifetime:    time.Hour,
		Destination: "https://example.com",
		Notify:      domain.NotifyInherit,
	}
}

// TestStore_FindArtifact_CacheHit_SkipsStore tests that cached artifacts are served without a query
func TestStore_FindArtifact_CacheHit_SkipsStore(t *testing.T) {
	// Setup
	next := &testutil.MockStore{}
	cache := &testutil.MockArtifactCache{}
	store := NewStore(next, cache)
	ctx := context.Background()
	a := testArtifact()

	cache.On("Get", ctx, a.ID).Return(a, nil)

	// Act
	got, err := store.FindArtifact(ctx, a.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, a, got)
	next.AssertNotCalled(t, "FindArtifact", ctx, a.ID)
	cache.AssertExpectations(t)
}

// TestStore_FindArtifact_CacheMiss_LoadsAndCaches tests read-through on a miss
func TestStore_FindArtifact_CacheMiss_LoadsAndCaches(t *testing.T) {
	// Setup
	next := &testutil.MockStore{}
	cache := &testutil.MockArtifactCache{}
	store := NewStore(next, cache)
	ctx := context.Background()
	a := testArtifact()

	cache.On("Get", ctx, a.ID).Return(nil, nil)
	next.On("FindArtifact", ctx, a.ID).Return(a, nil)
	cache.On("Set", ctx, a).Return(nil)

	// Act
	got, err := store.FindArtifact(ctx, a.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, a, got)
	next.AssertExpectations(t)
	cache.AssertExpectations(t)
}

// TestStore_FindArtifact_NotFound_IsNotCached tests that misses in the store are not cached
func TestStore_FindArtifact_NotFound_IsNotCached(t *testing.T) {
	// Setup
	next := &testutil.MockStore{}
	cache := &testutil.MockArtifactCache{}
	store := NewStore(next, cache)
	ctx := context.Background()

	cache.On("Get", ctx, "missing0").Return(nil, nil)
	next.On("FindArtifact", ctx, "missing0").Return(nil, domain.ErrNotFound)

	// Act
	got, err := store.FindArtifact(ctx, "missing0")

	// Assert
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	cache.AssertNotCalled(t, "Set")
}

// TestStore_Writes_InvalidateCache tests that updates and deletes drop the cached copy
func TestStore_Writes_InvalidateCache(t *testing.T) {
	// Setup
	next := &testutil.MockStore{}
	cache := &testutil.MockArtifactCache{}
	store := NewStore(next, cache)
	ctx := context.Background()
	a := testArtifact()

	next.On("UpdateArtifact", ctx, a).Return(nil)
	next.On("DeleteArtifact", ctx, a.ID).Return(nil)
	cache.On("Invalidate", ctx, a.ID).Return(nil).Twice()

	// Act
	require.NoError(t, store.UpdateArtifact(ctx, a))
	require.NoError(t, store.DeleteArtifact(ctx, a.ID))

	// Assert
	next.AssertExpectations(t)
	cache.AssertExpectations(t)
}

// TestStore_UpdateFailure_KeepsCache tests that a failed write leaves the cache alone
func TestStore_UpdateFailure_KeepsCache(t *testing.T) {
	next := &testutil.MockStore{}
	cache := &testutil.MockArtifactCache{}
	store := NewStore(next, cache)
	ctx := context.Background()
	a := testArtifact()

	next.On("UpdateArtifact", ctx, a).Return(domain.ErrNotFound)

	err := store.UpdateArtifact(ctx, a)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	cache.AssertNotCalled(t, "Invalidate", ctx, a.ID)
}

func TestNewArtifactCache_NilClient_ReturnsNoop(t *testing.T) {
	cache := NewArtifactCache(nil, zap.NewNop())

	got, err := cache.Get(context.Background(), "abc12345")

	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cache.Set(context.Background(), testArtifact()))
	assert.NoError(t, cache.Invalidate(context.Background(), "abc12345"))
}

func TestNewClient_EmptyAddr_DisablesRedis(t *testing.T) {
	rdb, cleanup, err := NewClient(context.Background(), "")

	require.NoError(t, err)
	assert.Nil(t, rdb)
	cleanup()
}
