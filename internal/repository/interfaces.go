package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

// ProjectRepository defines the interface for project operations.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) (domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error)
	GetByName(ctx context.Context, name string) (domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SnapshotRepository persists and queries tracked entity snapshots. Snapshots
// are written once per (project, version label, track id) and never updated;
// the store enforces that key's uniqueness.
type SnapshotRepository interface {
	CreateBatch(ctx context.Context, snapshots []domain.TrackedSnapshot) error
	Get(ctx context.Context, projectID uuid.UUID, versionLabel, trackID string) (domain.TrackedSnapshot, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.TrackedSnapshot, error)
	ListByVersion(ctx context.Context, projectID uuid.UUID, versionLabel string) ([]domain.TrackedSnapshot, error)
	History(ctx context.Context, projectID uuid.UUID, trackID string) ([]domain.TrackedSnapshot, error)
	ListVersions(ctx context.Context, projectID uuid.UUID) ([]domain.VersionInfo, error)
	VersionExists(ctx context.Context, projectID uuid.UUID, versionLabel string) (bool, error)
}

// ViewActivationRepository stores view-activation history for observability.
type ViewActivationRepository interface {
	Record(ctx context.Context, activation domain.ViewActivation) (domain.ViewActivation, error)
	List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]domain.ViewActivation, error)
}
