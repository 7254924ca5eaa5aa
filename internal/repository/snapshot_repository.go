package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paramtrail/paramtrail/internal/domain"
)

const uniqueViolationCode = "23505"

// snapshotRepository implements SnapshotRepository over pgx.
type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

const snapshotColumns = `id, project_id, track_id, entity_kind, version_label, official, captured_by, captured_at, dedicated, attributes, created_at`

// CreateBatch writes one capture transactionally. A conflict on the
// (project, version label, track id) key means the version was already
// captured; the whole batch rolls back.
func (r *snapshotRepository) CreateBatch(ctx context.Context, snapshots []domain.TrackedSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
INSERT INTO snapshots (id, project_id, track_id, entity_kind, version_label, official, captured_by, captured_at, dedicated, attributes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	for i := range snapshots {
		snapshot := snapshots[i]
		dedicatedJSON, err := snapshot.GetDedicatedAsJSONB()
		if err != nil {
			return fmt.Errorf("failed to marshal dedicated fields for %s: %w", snapshot.TrackID, err)
		}
		attributesJSON, err := snapshot.GetAttributesAsJSONB()
		if err != nil {
			return fmt.Errorf("failed to marshal attributes for %s: %w", snapshot.TrackID, err)
		}

		if _, err := tx.Exec(ctx, query,
			snapshot.ID,
			snapshot.ProjectID,
			snapshot.TrackID,
			string(snapshot.Kind),
			snapshot.VersionLabel,
			snapshot.Official,
			snapshot.CapturedBy,
			snapshot.CapturedAt,
			dedicatedJSON,
			attributesJSON,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return fmt.Errorf("%w: %s/%s", domain.ErrVersionExists, snapshot.VersionLabel, snapshot.TrackID)
			}
			return fmt.Errorf("failed to insert snapshot %s: %w", snapshot.TrackID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit capture: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Get(ctx context.Context, projectID uuid.UUID, versionLabel, trackID string) (domain.TrackedSnapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM snapshots
WHERE project_id = $1 AND version_label = $2 AND track_id = $3
`
	row := r.pool.QueryRow(ctx, query, projectID, versionLabel, trackID)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrackedSnapshot{}, fmt.Errorf("%w: %s@%s", domain.ErrSnapshotNotFound, trackID, versionLabel)
		}
		return domain.TrackedSnapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *snapshotRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.TrackedSnapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM snapshots
WHERE project_id = $1
ORDER BY version_label, track_id
`
	return r.querySnapshots(ctx, query, projectID)
}

func (r *snapshotRepository) ListByVersion(ctx context.Context, projectID uuid.UUID, versionLabel string) ([]domain.TrackedSnapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM snapshots
WHERE project_id = $1 AND version_label = $2
ORDER BY track_id
`
	return r.querySnapshots(ctx, query, projectID, versionLabel)
}

// History returns every stored capture of one entity, oldest first.
func (r *snapshotRepository) History(ctx context.Context, projectID uuid.UUID, trackID string) ([]domain.TrackedSnapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM snapshots
WHERE project_id = $1 AND track_id = $2
ORDER BY captured_at, version_label
`
	return r.querySnapshots(ctx, query, projectID, trackID)
}

func (r *snapshotRepository) ListVersions(ctx context.Context, projectID uuid.UUID) ([]domain.VersionInfo, error) {
	query := `
SELECT version_label, bool_or(official), min(captured_by), min(captured_at), count(*)
FROM snapshots
WHERE project_id = $1
GROUP BY version_label
ORDER BY min(captured_at)
`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	versions := []domain.VersionInfo{}
	for rows.Next() {
		var info domain.VersionInfo
		var count int64
		if err := rows.Scan(&info.Label, &info.Official, &info.CapturedBy, &info.CapturedAt, &count); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		info.EntityCount = int(count)
		versions = append(versions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate versions: %w", err)
	}
	return versions, nil
}

func (r *snapshotRepository) VersionExists(ctx context.Context, projectID uuid.UUID, versionLabel string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM snapshots WHERE project_id = $1 AND version_label = $2)`,
		projectID, versionLabel).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check version existence: %w", err)
	}
	return exists, nil
}

func (r *snapshotRepository) querySnapshots(ctx context.Context, query string, args ...any) ([]domain.TrackedSnapshot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []domain.TrackedSnapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (domain.TrackedSnapshot, error) {
	var (
		snapshot       domain.TrackedSnapshot
		kind           string
		dedicatedJSON  json.RawMessage
		attributesJSON json.RawMessage
		capturedAt     time.Time
	)
	if err := row.Scan(
		&snapshot.ID,
		&snapshot.ProjectID,
		&snapshot.TrackID,
		&kind,
		&snapshot.VersionLabel,
		&snapshot.Official,
		&snapshot.CapturedBy,
		&capturedAt,
		&dedicatedJSON,
		&attributesJSON,
		&snapshot.CreatedAt,
	); err != nil {
		return domain.TrackedSnapshot{}, err
	}

	snapshot.Kind = domain.EntityKind(kind)
	snapshot.CapturedAt = capturedAt

	attributes, err := domain.FromJSONBAttributes(attributesJSON)
	if err != nil {
		return domain.TrackedSnapshot{}, fmt.Errorf("failed to decode attributes for %s: %w", snapshot.TrackID, err)
	}
	snapshot.Attributes = attributes

	if err := snapshot.ApplyDedicatedJSONB(dedicatedJSON); err != nil {
		return domain.TrackedSnapshot{}, fmt.Errorf("failed to decode dedicated fields for %s: %w", snapshot.TrackID, err)
	}
	return snapshot, nil
}
