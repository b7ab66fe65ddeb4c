package rediscache

import (
	"context"

	"go-shortview/internal/tracking/domain"
	"go-shortview/internal/tracking/usecase"
)

// Store decorates a usecase.Store with a read-through artifact cache. Writes go
// to the underlying store first, then drop the cached copy.
type Store struct {
	usecase.Store
	cache ArtifactCache
}

// Ensure Store implements usecase.Store at compile time
var _ usecase.Store = (*Store)(nil)

// NewStore wraps next with cache.
func NewStore(next usecase.Store, cache ArtifactCache) *Store {
	return &Store{Store: next, cache: cache}
}

// FindArtifact serves from the cache and falls back to the wrapped store.
func (s *Store) FindArtifact(ctx context.Context, id string) (*domain.Artifact, error) {
	if cached, _ := s.cache.Get(ctx, id); cached != nil {
		return cached, nil
	}

	a, err := s.Store.FindArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, a)
	return a, nil
}

func (s *Store) UpdateArtifact(ctx context.Context, a *domain.Artifact) error {
	if err := s.Store.UpdateArtifact(ctx, a); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, a.ID)
	return nil
}

func (s *Store) DeleteArtifact(ctx context.Context, id string) error {
	if err := s.Store.DeleteArtifact(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, id)
	return nil
}
