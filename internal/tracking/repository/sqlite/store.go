package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-shortview/internal/tracking/database"
	"go-shortview/internal/tracking/domain"
	"go-shortview/internal/tracking/usecase"

	"github.com/lib/pq"
)

// Store implements usecase.Store over database/sql. Queries are written with
// '?' placeholders and rebound for postgres.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore creates a store for a connection opened with the given driver name.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Ensure Store implements usecase.Store at compile time
var _ usecase.Store = (*Store)(nil)

// rebind rewrites '?' placeholders into the driver's syntax.
func (s *Store) rebind(query string) string {
	if s.driver != database.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isDuplicateKey recognizes unique violations of both drivers.
func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

type scanner interface {
	Scan(dest ...any) error
}

const profileColumns = `owner_id, email, default_lifetime, hide_expired, delete_expired, default_notify, receive_newsletters`

func scanProfile(row scanner) (*domain.Profile, error) {
	var (
		p        domain.Profile
		lifetime int64
		notify   string
	)
	if err := row.Scan(&p.OwnerID, &p.Email, &lifetime, &p.HideExpired, &p.DeleteExpired, &notify, &p.ReceiveNewsletters); err != nil {
		return nil, err
	}
	p.DefaultLifetime = time.Duration(lifetime)
	p.DefaultNotify = domain.NotifyPolicy(notify)
	return &p, nil
}

// GetProfile retrieves the profile of an owner
func (s *Store) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+profileColumns+` FROM profiles WHERE owner_id = ?`), ownerID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// CreateProfileIfAbsent inserts the profile unless one exists and returns the stored row.
func (s *Store) CreateProfileIfAbsent(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id) DO NOTHING`),
		p.OwnerID, p.Email, int64(p.DefaultLifetime), p.HideExpired, p.DeleteExpired, string(p.DefaultNotify), p.ReceiveNewsletters,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return s.GetProfile(ctx, p.OwnerID)
}

// UpdateProfile overwrites all preferences of the profile's owner
func (s *Store) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE profiles SET
		email = ?, default_lifetime = ?, hide_expired = ?, delete_expired = ?, default_notify = ?, receive_newsletters = ?
		WHERE owner_id = ?`),
		p.Email, int64(p.DefaultLifetime), p.HideExpired, p.DeleteExpired, string(p.DefaultNotify), p.ReceiveNewsletters, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectRow(res)
}

// ListSweepableProfiles returns the profiles with delete_expired set
func (s *Store) ListSweepableProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+profileColumns+` FROM profiles WHERE delete_expired = ? ORDER BY owner_id`), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

const artifactColumns = `id, kind, owner_id, description, created_at, lifetime, destination, notify`

func scanArtifact(row scanner) (*domain.Artifact, error) {
	var (
		a                   domain.Artifact
		kind, notify        string
		createdAt, lifetime int64
	)
	if err := row.Scan(&a.ID, &kind, &a.OwnerID, &a.Description, &createdAt, &lifetime, &a.Destination, &notify); err != nil {
		return nil, err
	}
	a.Kind = domain.Kind(kind)
	a.CreatedAt = time.Unix(0, createdAt).UTC()
	a.Lifetime = time.Duration(lifetime)
	a.Notify = domain.NotifyPolicy(notify)
	return &a, nil
}

// CreateArtifact inserts a new artifact. An id collision returns usecase.ErrDuplicateKey.
func (s *Store) CreateArtifact(ctx context.Context, a *domain.Artifact) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO artifacts (`+artifactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, string(a.Kind), a.OwnerID, a.Description, a.CreatedAt.UnixNano(), int64(a.Lifetime), a.Destination, string(a.Notify),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	return nil
}

// FindArtifact retrieves an artifact by its id
func (s *Store) FindArtifact(ctx context.Context, id string) (*domain.Artifact, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+artifactColumns+` FROM artifacts WHERE id = ?`), id)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find artifact: %w", err)
	}
	return a, nil
}

// ListArtifactsByOwner returns all artifacts of an owner, newest first
func (s *Store) ListArtifactsByOwner(ctx context.Context, ownerID string) ([]domain.Artifact, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+artifactColumns+` FROM artifacts WHERE owner_id = ? ORDER BY created_at DESC, id`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []domain.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, rows.Err()
}

// UpdateArtifact overwrites the mutable fields of an artifact
func (s *Store) UpdateArtifact(ctx context.Context, a *domain.Artifact) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE artifacts SET description = ?, lifetime = ?, destination = ?, notify = ? WHERE id = ?`),
		a.Description, int64(a.Lifetime), a.Destination, string(a.Notify), a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update artifact: %w", err)
	}
	return expectRow(res)
}

// DeleteArtifact removes an artifact and its events in one transaction
func (s *Store) DeleteArtifact(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM events WHERE artifact_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM artifacts WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

const eventColumns = `id, artifact_id, occurred_at, source_ip, header, user_agent, device`

func scanEvent(row scanner) (*domain.Event, error) {
	var (
		e          domain.Event
		occurredAt int64
	)
	if err := row.Scan(&e.ID, &e.ArtifactID, &occurredAt, &e.SourceIP, &e.Header, &e.UserAgent, &e.Device); err != nil {
		return nil, err
	}
	e.OccurredAt = time.Unix(0, occurredAt).UTC()
	return &e, nil
}

// CreateEvent appends an event. The artifact must exist.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.ArtifactID, e.OccurredAt.UnixNano(), e.SourceIP, e.Header, e.UserAgent, e.Device,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// FindEvent retrieves an event by its id
func (s *Store) FindEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+eventColumns+` FROM events WHERE id = ?`), id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return e, nil
}

// ListEvents returns the events of an artifact, oldest first
func (s *Store) ListEvents(ctx context.Context, artifactID string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+eventColumns+` FROM events WHERE artifact_id = ? ORDER BY occurred_at, id`), artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// CountEvents returns how many events an artifact has
func (s *Store) CountEvents(ctx context.Context, artifactID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM events WHERE artifact_id = ?`), artifactID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// Ping checks the connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
