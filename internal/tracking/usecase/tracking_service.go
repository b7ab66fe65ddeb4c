package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-shortview/internal/tracking/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// NanoID alphabet: alphanumeric (a-z, A-Z, 0-9) - 62 characters, case-sensitive
	nanoIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	nanoIDLength   = 8
	maxRetries     = 5
)

// TrackingService implements the artifact lifecycle and the hit recording engine.
type TrackingService struct {
	store      Store
	guard      *LoopGuard
	agents     *AgentFilter
	recorder   *EventRecorder
	policy     *NotificationPolicy
	dispatcher Dispatcher // may be nil
	clock      domain.Clock
	site       Site
	logger     *zap.Logger
}

// NewTrackingService wires the core components together. A nil dispatcher
// disables notifications.
func NewTrackingService(
	store Store,
	guard *LoopGuard,
	agents *AgentFilter,
	dispatcher Dispatcher,
	clock domain.Clock,
	site Site,
	logger *zap.Logger,
) *TrackingService {
	return &TrackingService{
		store:      store,
		guard:      guard,
		agents:     agents,
		recorder:   NewEventRecorder(store, agents, clock),
		policy:     NewNotificationPolicy(site),
		dispatcher: dispatcher,
		clock:      clock,
		site:       site,
		logger:     logger,
	}
}

// ArtifactView is an artifact as listed to its owner.
type ArtifactView struct {
	domain.Artifact
	URL        string `json:"url"`
	Active     bool   `json:"active"`
	EventCount int64  `json:"event_count"`
}

// ArtifactDetail is an artifact with its full event history.
type ArtifactDetail struct {
	ArtifactView
	Events []domain.Event `json:"events"`
}

// ArtifactURL returns the absolute URL third parties load for a.
func (s *TrackingService) ArtifactURL(a *domain.Artifact) string {
	return s.site.ArtifactURL(a)
}

// EnsureProfile returns the owner's profile, creating it with defaults on first
// access. A changed owner email is copied onto the profile.
func (s *TrackingService) EnsureProfile(ctx context.Context, owner domain.Owner) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, owner.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.store.CreateProfileIfAbsent(ctx, domain.NewProfile(owner))
	}
	if err != nil {
		return nil, err
	}

	if owner.Email != "" && owner.Email != profile.Email {
		profile.Email = owner.Email
		if err := s.store.UpdateProfile(ctx, profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// CreateArtifact validates the input and stores a new pixel or link.
func (s *TrackingService) CreateArtifact(ctx context.Context, owner domain.Owner, in CreateArtifactInput) (*domain.Artifact, error) {
	if err := toValidationError(in.Validate()); err != nil {
		return nil, err
	}

	profile, err := s.EnsureProfile(ctx, owner)
	if err != nil {
		return nil, err
	}

	lifetime, explicit, err := lifetimeOf(in.NeverExpire, in.Lifetime)
	if err != nil {
		return nil, err
	}
	if !explicit {
		lifetime = profile.DefaultLifetime
	}

	notify := domain.NotifyInherit
	if in.Kind == domain.KindLink && in.Notify != "" {
		if notify, err = domain.ParseNotifyPolicy(in.Notify); err != nil {
			return nil, err
		}
	}

	if in.Kind == domain.KindLink {
		if err := s.guard.ValidateDestination(in.Destination); err != nil {
			return nil, err
		}
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := gonanoid.Generate(nanoIDAlphabet, nanoIDLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate artifact id: %w", err)
		}

		artifact := &domain.Artifact{
			ID:          id,
			Kind:        in.Kind,
			OwnerID:     owner.ID,
			Description: in.Description,
			CreatedAt:   s.clock.Now(),
			Lifetime:    lifetime,
			Destination: in.Destination,
			Notify:      notify,
		}

		err = s.store.CreateArtifact(ctx, artifact)
		if errors.Is(err, ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("artifact created",
			zap.String("artifact_id", artifact.ID),
			zap.String("kind", string(artifact.Kind)),
			zap.String("owner_id", owner.ID),
		)
		return artifact, nil
	}

	return nil, domain.ErrIDConflict
}

// ResolveAndRecord answers a hit on a pixel or link.
//
// Unknown and expired artifacts, and artifacts of another kind than the route
// serves, are all ErrNotFound and record nothing. Hits from the owner and
// from preview crawlers are served without being recorded. Everything else is
// recorded and may notify the owner. A failure to record is logged, the
// visitor is still served.
func (s *TrackingService) ResolveAndRecord(ctx context.Context, kind domain.Kind, id string, req RequestContext) (*Resolution, error) {
	artifact, err := s.store.FindArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if artifact.Kind != kind {
		return nil, domain.ErrNotFound
	}

	if !domain.IsActive(artifact, s.clock.Now()) {
		return nil, domain.ErrNotFound
	}

	res := &Resolution{Kind: artifact.Kind, Destination: artifact.Destination}

	if req.Caller.Owns(artifact) {
		res.Outcome = OutcomeOwnerExempt
		return res, nil
	}

	if s.agents.IsPreviewAgent(req.Header.Get("User-Agent")) {
		res.Outcome = OutcomePreviewAgent
		return res, nil
	}

	event, ordinal, err := s.recorder.Record(ctx, artifact, req)
	if err != nil {
		s.logger.Error("failed to record event",
			zap.String("artifact_id", artifact.ID),
			zap.Error(err),
		)
		res.Outcome = OutcomeRecordFailed
		if event != nil {
			// stored, but without an ordinal the policy cannot be applied
			res.Outcome = OutcomeRecorded
			res.EventID = event.ID
		}
		return res, nil
	}
	res.Outcome = OutcomeRecorded
	res.EventID = event.ID

	s.notify(ctx, artifact, event, ordinal)

	return res, nil
}

// notify evaluates the notification policy and hands the mail off. Nothing
// here may fail the hit.
func (s *TrackingService) notify(ctx context.Context, artifact *domain.Artifact, event *domain.Event, ordinal int64) {
	if s.dispatcher == nil {
		return
	}

	profile, err := s.store.GetProfile(ctx, artifact.OwnerID)
	if errors.Is(err, domain.ErrNotFound) {
		profile = domain.NewProfile(domain.Owner{ID: artifact.OwnerID})
	} else if err != nil {
		s.logger.Warn("failed to load owner profile for notification",
			zap.String("artifact_id", artifact.ID),
			zap.Error(err),
		)
		return
	}

	if !s.policy.ShouldNotify(artifact, profile, ordinal) {
		return
	}
	if profile.Email == "" {
		s.logger.Debug("owner has no email, notification skipped", zap.String("owner_id", profile.OwnerID))
		return
	}

	n, err := s.policy.Compose(artifact, profile, event)
	if err != nil {
		s.logger.Error("failed to compose notification",
			zap.String("artifact_id", artifact.ID),
			zap.Error(err),
		)
		return
	}

	s.dispatcher.Dispatch(n)
}

// ListArtifacts returns the owner's artifacts, active ones first, newest first
// within each group. The owner's profile is ensured and their expired
// artifacts swept beforehand.
func (s *TrackingService) ListArtifacts(ctx context.Context, owner domain.Owner, opts ListOptions) ([]ArtifactView, error) {
	profile, err := s.EnsureProfile(ctx, owner)
	if err != nil {
		return nil, err
	}

	if _, err := s.SweepExpired(ctx, owner.ID); err != nil {
		s.logger.Warn("inline sweep failed", zap.String("owner_id", owner.ID), zap.Error(err))
	}

	artifacts, err := s.store.ListArtifactsByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]ArtifactView, 0, len(artifacts))
	for i := range artifacts {
		view, err := s.view(ctx, &artifacts[i], now)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	if profile.HideExpired && !opts.IncludeHidden {
		views = lo.Filter(views, func(v ArtifactView, _ int) bool { return v.Active })
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Active != views[j].Active {
			return views[i].Active
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	return views, nil
}

// View returns the owner's view of a as of now.
func (s *TrackingService) View(ctx context.Context, a *domain.Artifact) (*ArtifactView, error) {
	return s.view(ctx, a, s.clock.Now())
}

func (s *TrackingService) view(ctx context.Context, a *domain.Artifact, now time.Time) (*ArtifactView, error) {
	count, err := s.store.CountEvents(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &ArtifactView{
		Artifact:   *a,
		URL:        s.site.ArtifactURL(a),
		Active:     domain.IsActive(a, now),
		EventCount: count,
	}, nil
}

// ownedArtifact loads an artifact on behalf of owner.
func (s *TrackingService) ownedArtifact(ctx context.Context, owner domain.Owner, id string) (*domain.Artifact, error) {
	artifact, err := s.store.FindArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owner.Owns(artifact) {
		return nil, domain.ErrForbidden
	}
	return artifact, nil
}

// GetArtifact returns an artifact with its events. Expired artifacts stay
// visible to their owner.
func (s *TrackingService) GetArtifact(ctx context.Context, owner domain.Owner, id string) (*ArtifactDetail, error) {
	artifact, err := s.ownedArtifact(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	view, err := s.view(ctx, artifact, s.clock.Now())
	if err != nil {
		return nil, err
	}

	events, err := s.store.ListEvents(ctx, artifact.ID)
	if err != nil {
		return nil, err
	}

	return &ArtifactDetail{ArtifactView: *view, Events: events}, nil
}

// GetEvent returns one event of an artifact. The event must belong to the
// artifact named in the request and the artifact to the requesting owner.
func (s *TrackingService) GetEvent(ctx context.Context, owner domain.Owner, artifactID, eventID string) (*domain.Event, error) {
	artifact, err := s.store.FindArtifact(ctx, artifactID)
	if err != nil {
		return nil, err
	}

	event, err := s.store.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.ArtifactID != artifact.ID {
		return nil, domain.ErrNotFound
	}

	if !owner.Owns(artifact) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// DeleteArtifact removes an owner's artifact and its events.
func (s *TrackingService) DeleteArtifact(ctx context.Context, owner domain.Owner, id string) error {
	artifact, err := s.ownedArtifact(ctx, owner, id)
	if err != nil {
		return err
	}
	return s.store.DeleteArtifact(ctx, artifact.ID)
}

// ChangeNotify sets a link's notify policy. Pixels always inherit.
func (s *TrackingService) ChangeNotify(ctx context.Context, owner domain.Owner, id, policy string) (*domain.Artifact, error) {
	notify, err := domain.ParseNotifyPolicy(policy)
	if err != nil {
		return nil, err
	}

	artifact, err := s.ownedArtifact(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if artifact.Kind != domain.KindLink {
		return nil, domain.NewValidationError("notify", "pixels follow the owner default")
	}

	artifact.Notify = notify
	if err := s.store.UpdateArtifact(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// GetPreferences returns the owner's profile.
func (s *TrackingService) GetPreferences(ctx context.Context, owner domain.Owner) (*domain.Profile, error) {
	return s.EnsureProfile(ctx, owner)
}

// UpdatePreferences replaces the owner's preferences. Deleting expired
// artifacts implies hiding them.
func (s *TrackingService) UpdatePreferences(ctx context.Context, owner domain.Owner, in PreferencesInput) (*domain.Profile, error) {
	lifetime, _, err := lifetimeOf(in.NeverExpire, &in.Lifetime)
	if err != nil {
		return nil, err
	}

	profile, err := s.EnsureProfile(ctx, owner)
	if err != nil {
		return nil, err
	}

	if in.DefaultNotify != "" {
		notify, err := domain.ParseNotifyPolicy(in.DefaultNotify)
		if err != nil {
			return nil, err
		}
		if !notify.ValidDefault() {
			return nil, domain.NewValidationError("default_notify", "inherit is not a valid default")
		}
		profile.DefaultNotify = notify
	}

	profile.DefaultLifetime = lifetime
	profile.DeleteExpired = in.DeleteExpired
	profile.HideExpired = in.HideExpired || in.DeleteExpired
	profile.ReceiveNewsletters = in.ReceiveNewsletters

	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
