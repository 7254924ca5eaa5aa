// Package capture turns live entity states into persisted snapshot versions.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
	"github.com/paramtrail/paramtrail/internal/extract"
	"github.com/paramtrail/paramtrail/internal/repository"
	"github.com/paramtrail/paramtrail/pkg/validator"
)

// Source supplies live entity states from a host model adapter. The core
// never reads host objects itself; adapters implement this against whatever
// host API holds the elements.
type Source interface {
	States(ctx context.Context) ([]domain.EntityState, error)
}

// Service validates and persists capture batches.
type Service struct {
	projects  repository.ProjectRepository
	snapshots repository.SnapshotRepository
	now       func() time.Time
}

// NewService creates a new capture service.
func NewService(projects repository.ProjectRepository, snapshots repository.SnapshotRepository) *Service {
	return &Service{
		projects:  projects,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// Request describes one capture batch.
type Request struct {
	ProjectID    uuid.UUID
	VersionLabel string
	CapturedBy   string
	Official     bool
	Entities     []domain.EntityState
}

// Result summarizes a persisted capture.
type Result struct {
	ProjectID    uuid.UUID `json:"projectId"`
	VersionLabel string    `json:"versionLabel"`
	Official     bool      `json:"official"`
	Entities     int       `json:"entities"`
	CapturedAt   time.Time `json:"capturedAt"`
}

// Capture validates the batch, extracts every entity's generic mapping, and
// persists the snapshots transactionally. Validation failures (bad label,
// duplicate or missing track ids, existing version label) are reported before
// anything is written.
func (s *Service) Capture(ctx context.Context, req Request) (Result, error) {
	if req.ProjectID == uuid.Nil {
		return Result{}, errors.New("project ID is required")
	}
	if strings.TrimSpace(req.CapturedBy) == "" {
		return Result{}, errors.New("capturing user is required")
	}
	if len(req.Entities) == 0 {
		return Result{}, errors.New("capture batch is empty")
	}

	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		return Result{}, fmt.Errorf("validate project: %w", err)
	}

	if _, err := validator.ValidateCapture(req.VersionLabel, req.Entities); err != nil {
		return Result{}, err
	}

	exists, err := s.snapshots.VersionExists(ctx, req.ProjectID, req.VersionLabel)
	if err != nil {
		return Result{}, fmt.Errorf("check version existence: %w", err)
	}
	if exists {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrVersionExists, req.VersionLabel)
	}

	capturedAt := s.now()
	snapshots := make([]domain.TrackedSnapshot, 0, len(req.Entities))
	for _, state := range req.Entities {
		snapshot := extract.Snapshot(req.ProjectID, req.VersionLabel, req.CapturedBy, req.Official, capturedAt, state)
		if err := snapshot.Validate(); err != nil {
			return Result{}, fmt.Errorf("entity %s: %w", state.TrackID, err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := s.snapshots.CreateBatch(ctx, snapshots); err != nil {
		return Result{}, fmt.Errorf("persist capture: %w", err)
	}

	return Result{
		ProjectID:    req.ProjectID,
		VersionLabel: req.VersionLabel,
		Official:     req.Official,
		Entities:     len(snapshots),
		CapturedAt:   capturedAt,
	}, nil
}

// CaptureFromSource reads the live states from a host adapter and captures
// them under the given label.
func (s *Service) CaptureFromSource(ctx context.Context, projectID uuid.UUID, versionLabel, capturedBy string, official bool, source Source) (Result, error) {
	states, err := source.States(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read entity states: %w", err)
	}
	return s.Capture(ctx, Request{
		ProjectID:    projectID,
		VersionLabel: versionLabel,
		CapturedBy:   capturedBy,
		Official:     official,
		Entities:     states,
	})
}

// RegisterProject creates a project record.
func (s *Service) RegisterProject(ctx context.Context, name, description string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, errors.New("project name is required")
	}
	return s.projects.Create(ctx, domain.NewProject(name, description))
}

// ListProjects returns all registered projects.
func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// ListVersions returns the stored capture versions of a project.
func (s *Service) ListVersions(ctx context.Context, projectID uuid.UUID) ([]domain.VersionInfo, error) {
	return s.snapshots.ListVersions(ctx, projectID)
}

// VersionExists reports whether a version label is already taken.
func (s *Service) VersionExists(ctx context.Context, projectID uuid.UUID, versionLabel string) (bool, error) {
	if err := domain.ValidateVersionLabel(versionLabel); err != nil {
		return false, err
	}
	return s.snapshots.VersionExists(ctx, projectID, versionLabel)
}
