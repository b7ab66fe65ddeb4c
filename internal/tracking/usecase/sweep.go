package usecase

import (
	"context"
	"errors"

	"go-shortview/internal/tracking/domain"

	"go.uber.org/zap"
)

// SweepExpired deletes the owner's inactive artifacts, events included, when
// the owner asked for it. It returns how many artifacts were deleted.
func (s *TrackingService) SweepExpired(ctx context.Context, ownerID string) (int, error) {
	profile, err := s.store.GetProfile(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !profile.DeleteExpired {
		return 0, nil
	}
	return s.sweepOwner(ctx, ownerID)
}

func (s *TrackingService) sweepOwner(ctx context.Context, ownerID string) (int, error) {
	artifacts, err := s.store.ListArtifactsByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	deleted := 0
	for i := range artifacts {
		a := &artifacts[i]
		if domain.IsActive(a, now) {
			continue
		}
		if err := s.store.DeleteArtifact(ctx, a.ID); err != nil {
			s.logger.Warn("failed to delete expired artifact",
				zap.String("artifact_id", a.ID),
				zap.String("owner_id", ownerID),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("expired artifacts deleted",
			zap.String("owner_id", ownerID),
			zap.Int("count", deleted),
		)
	}
	return deleted, nil
}

// SweepAll sweeps every owner who enabled deletion of expired artifacts. A
// failing owner is logged and skipped.
func (s *TrackingService) SweepAll(ctx context.Context) (int, error) {
	profiles, err := s.store.ListSweepableProfiles(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.sweepOwner(ctx, p.OwnerID)
		if err != nil {
			s.logger.Warn("sweep failed for owner", zap.String("owner_id", p.OwnerID), zap.Error(err))
			continue
		}
		total += n
	}
	return total, nil
}
