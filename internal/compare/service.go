// Package compare computes change sets between stored versions, or between a
// stored version and live entity state.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
	"github.com/paramtrail/paramtrail/internal/extract"
	"github.com/paramtrail/paramtrail/internal/repository"
	"github.com/paramtrail/paramtrail/pkg/validator"
)

// LiveLabel names the live side of a live-versus-stored comparison.
const LiveLabel = "live"

// Service answers comparison and history queries.
type Service struct {
	snapshots repository.SnapshotRepository
	now       func() time.Time
}

// NewService creates a new comparison service.
func NewService(snapshots repository.SnapshotRepository) *Service {
	return &Service{snapshots: snapshots, now: time.Now}
}

// CompareVersions diffs two stored versions of a project. The baseline is the
// older side: entities present only in target are reported as added.
func (s *Service) CompareVersions(ctx context.Context, projectID uuid.UUID, baseLabel, targetLabel string) (domain.ChangeSet, error) {
	if err := domain.ValidateVersionLabel(baseLabel); err != nil {
		return domain.ChangeSet{}, err
	}
	if err := domain.ValidateVersionLabel(targetLabel); err != nil {
		return domain.ChangeSet{}, err
	}

	baseline, err := s.loadVersion(ctx, projectID, baseLabel)
	if err != nil {
		return domain.ChangeSet{}, err
	}
	target, err := s.loadVersion(ctx, projectID, targetLabel)
	if err != nil {
		return domain.ChangeSet{}, err
	}

	changeSet, err := domain.Diff(baseline, target)
	if err != nil {
		return domain.ChangeSet{}, fmt.Errorf("diff %s against %s: %w", targetLabel, baseLabel, err)
	}
	changeSet.BaseLabel = baseLabel
	changeSet.TargetLabel = targetLabel
	return changeSet, nil
}

// CompareWithLive diffs live entity states against a stored version. The live
// states run through the same extraction policy as capture did, so both sides
// are normalized identically before the diff.
func (s *Service) CompareWithLive(ctx context.Context, projectID uuid.UUID, baseLabel string, live []domain.EntityState) (domain.ChangeSet, error) {
	if err := domain.ValidateVersionLabel(baseLabel); err != nil {
		return domain.ChangeSet{}, err
	}
	if _, err := validator.ValidateCapture(baseLabel, live); err != nil {
		return domain.ChangeSet{}, err
	}

	baseline, err := s.loadVersion(ctx, projectID, baseLabel)
	if err != nil {
		return domain.ChangeSet{}, err
	}

	at := s.now()
	target := make([]domain.TrackedSnapshot, 0, len(live))
	for _, state := range live {
		target = append(target, extract.Snapshot(projectID, baseLabel, "", false, at, state))
	}

	changeSet, err := domain.Diff(baseline, target)
	if err != nil {
		return domain.ChangeSet{}, fmt.Errorf("diff live state against %s: %w", baseLabel, err)
	}
	changeSet.BaseLabel = baseLabel
	changeSet.TargetLabel = LiveLabel
	return changeSet, nil
}

// History returns every stored capture of one entity, oldest first.
func (s *Service) History(ctx context.Context, projectID uuid.UUID, trackID string) ([]domain.TrackedSnapshot, error) {
	if trackID == "" {
		return nil, domain.ErrMissingTrackID
	}
	return s.snapshots.History(ctx, projectID, trackID)
}

func (s *Service) loadVersion(ctx context.Context, projectID uuid.UUID, label string) ([]domain.TrackedSnapshot, error) {
	exists, err := s.snapshots.VersionExists(ctx, projectID, label)
	if err != nil {
		return nil, fmt.Errorf("check version %s: %w", label, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: version %s", domain.ErrSnapshotNotFound, label)
	}
	snapshots, err := s.snapshots.ListByVersion(ctx, projectID, label)
	if err != nil {
		return nil, fmt.Errorf("load version %s: %w", label, err)
	}
	return snapshots, nil
}
