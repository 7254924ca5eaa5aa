package compare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

type fakeSnapshotRepo struct {
	snapshots []domain.TrackedSnapshot
}

func (f *fakeSnapshotRepo) CreateBatch(_ context.Context, snapshots []domain.TrackedSnapshot) error {
	f.snapshots = append(f.snapshots, snapshots...)
	return nil
}

func (f *fakeSnapshotRepo) Get(_ context.Context, projectID uuid.UUID, versionLabel, trackID string) (domain.TrackedSnapshot, error) {
	for _, snapshot := range f.snapshots {
		if snapshot.ProjectID == projectID && snapshot.VersionLabel == versionLabel && snapshot.TrackID == trackID {
			return snapshot, nil
		}
	}
	return domain.TrackedSnapshot{}, domain.ErrSnapshotNotFound
}

func (f *fakeSnapshotRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]domain.TrackedSnapshot, error) {
	var out []domain.TrackedSnapshot
	for _, snapshot := range f.snapshots {
		if snapshot.ProjectID == projectID {
			out = append(out, snapshot)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) ListByVersion(_ context.Context, projectID uuid.UUID, versionLabel string) ([]domain.TrackedSnapshot, error) {
	var out []domain.TrackedSnapshot
	for _, snapshot := range f.snapshots {
		if snapshot.ProjectID == projectID && snapshot.VersionLabel == versionLabel {
			out = append(out, snapshot)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) History(_ context.Context, projectID uuid.UUID, trackID string) ([]domain.TrackedSnapshot, error) {
	var out []domain.TrackedSnapshot
	for _, snapshot := range f.snapshots {
		if snapshot.ProjectID == projectID && snapshot.TrackID == trackID {
			out = append(out, snapshot)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) ListVersions(_ context.Context, _ uuid.UUID) ([]domain.VersionInfo, error) {
	return nil, nil
}

func (f *fakeSnapshotRepo) VersionExists(_ context.Context, projectID uuid.UUID, versionLabel string) (bool, error) {
	for _, snapshot := range f.snapshots {
		if snapshot.ProjectID == projectID && snapshot.VersionLabel == versionLabel {
			return true, nil
		}
	}
	return false, nil
}

func seedRepo(projectID uuid.UUID) *fakeSnapshotRepo {
	at := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return &fakeSnapshotRepo{snapshots: []domain.TrackedSnapshot{
		{
			ID: uuid.New(), ProjectID: projectID, TrackID: "R1", Kind: domain.KindRoom,
			VersionLabel: "v1", CapturedAt: at,
			Room:       &domain.RoomFields{Number: "101", Name: "Lobby", Area: 100.0},
			Attributes: map[string]any{"Base Offset": 0.0},
		},
		{
			ID: uuid.New(), ProjectID: projectID, TrackID: "R2", Kind: domain.KindRoom,
			VersionLabel: "v1", CapturedAt: at,
			Room: &domain.RoomFields{Number: "102", Name: "Office", Area: 50.0},
		},
		{
			ID: uuid.New(), ProjectID: projectID, TrackID: "R1", Kind: domain.KindRoom,
			VersionLabel: "v2", CapturedAt: at.Add(24 * time.Hour),
			Room:       &domain.RoomFields{Number: "101", Name: "Reception", Area: 100.0},
			Attributes: map[string]any{"Base Offset": 0.0},
		},
	}}
}

func TestCompareVersions(t *testing.T) {
	projectID := uuid.New()
	service := NewService(seedRepo(projectID))

	changeSet, err := service.CompareVersions(context.Background(), projectID, "v1", "v2")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if changeSet.BaseLabel != "v1" || changeSet.TargetLabel != "v2" {
		t.Errorf("labels not carried: %+v", changeSet)
	}
	if len(changeSet.Removed) != 1 || changeSet.Removed[0].TrackID != "R2" {
		t.Errorf("expected R2 removed, got %+v", changeSet.Removed)
	}
	if len(changeSet.Modified) != 1 || changeSet.Modified[0].TrackID != "R1" {
		t.Fatalf("expected R1 modified, got %+v", changeSet.Modified)
	}
	change := changeSet.Modified[0].Changes[0]
	if change.Field != "Name" || change.Old != "Lobby" || change.New != "Reception" {
		t.Errorf("unexpected field change: %+v", change)
	}
}

func TestCompareVersionsUnknownVersion(t *testing.T) {
	projectID := uuid.New()
	service := NewService(seedRepo(projectID))

	_, err := service.CompareVersions(context.Background(), projectID, "v1", "v9")
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}

	_, err = service.CompareVersions(context.Background(), projectID, "bad label", "v2")
	if !errors.Is(err, domain.ErrInvalidVersionLabel) {
		t.Errorf("expected ErrInvalidVersionLabel, got %v", err)
	}
}

func TestCompareWithLive(t *testing.T) {
	projectID := uuid.New()
	service := NewService(seedRepo(projectID))

	live := []domain.EntityState{
		{
			TrackID: "R1",
			Kind:    domain.KindRoom,
			Room:    &domain.RoomFields{Number: "101", Name: "Lobby", Area: 100.0005},
			Instance: []domain.Attribute{
				{Name: "Base Offset", Value: domain.NumberValue(0)},
			},
		},
		{
			TrackID: "R3",
			Kind:    domain.KindRoom,
			Room:    &domain.RoomFields{Number: "103", Name: "Store", Area: 12.0},
		},
	}

	changeSet, err := service.CompareWithLive(context.Background(), projectID, "v1", live)
	if err != nil {
		t.Fatalf("compare with live failed: %v", err)
	}
	if changeSet.TargetLabel != LiveLabel {
		t.Errorf("expected live target label, got %q", changeSet.TargetLabel)
	}
	if len(changeSet.Modified) != 0 {
		t.Errorf("area delta is within tolerance, expected no modification: %+v", changeSet.Modified)
	}
	if len(changeSet.Added) != 1 || changeSet.Added[0].TrackID != "R3" {
		t.Errorf("expected R3 added, got %+v", changeSet.Added)
	}
	if len(changeSet.Removed) != 1 || changeSet.Removed[0].TrackID != "R2" {
		t.Errorf("expected R2 removed, got %+v", changeSet.Removed)
	}
}

func TestCompareWithLiveDuplicateTrackID(t *testing.T) {
	projectID := uuid.New()
	service := NewService(seedRepo(projectID))

	live := []domain.EntityState{
		{TrackID: "X", Kind: domain.KindRoom},
		{TrackID: "X", Kind: domain.KindRoom},
	}
	_, err := service.CompareWithLive(context.Background(), projectID, "v1", live)
	if !errors.Is(err, domain.ErrDuplicateTrackID) {
		t.Errorf("expected ErrDuplicateTrackID, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	projectID := uuid.New()
	service := NewService(seedRepo(projectID))

	history, err := service.History(context.Background(), projectID, "R1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 captures of R1, got %d", len(history))
	}

	if _, err := service.History(context.Background(), projectID, ""); !errors.Is(err, domain.ErrMissingTrackID) {
		t.Errorf("expected ErrMissingTrackID, got %v", err)
	}
}
