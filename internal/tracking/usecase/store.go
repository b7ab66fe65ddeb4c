package usecase

import (
	"context"
	"errors"

	"go-shortview/internal/tracking/domain"
)

// ErrDuplicateKey is returned by a Store when an insert collides with an existing key.
var ErrDuplicateKey = errors.New("duplicate key")

// Store is the persistence contract of the tracking core. Lookups of missing
// rows return domain.ErrNotFound.
type Store interface {
	GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error)
	// CreateProfileIfAbsent inserts p unless the owner already has a profile,
	// and returns whichever profile is stored afterwards.
	CreateProfileIfAbsent(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, p *domain.Profile) error
	// ListSweepableProfiles returns the profiles whose owners asked for expired
	// artifacts to be deleted.
	ListSweepableProfiles(ctx context.Context) ([]domain.Profile, error)

	CreateArtifact(ctx context.Context, a *domain.Artifact) error
	FindArtifact(ctx context.Context, id string) (*domain.Artifact, error)
	ListArtifactsByOwner(ctx context.Context, ownerID string) ([]domain.Artifact, error)
	UpdateArtifact(ctx context.Context, a *domain.Artifact) error
	// DeleteArtifact removes the artifact and its events atomically. Deleting a
	// missing artifact is not an error.
	DeleteArtifact(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, e *domain.Event) error
	FindEvent(ctx context.Context, id string) (*domain.Event, error)
	// ListEvents returns the artifact's events ordered by occurrence.
	ListEvents(ctx context.Context, artifactID string) ([]domain.Event, error)
	CountEvents(ctx context.Context, artifactID string) (int64, error)
}
