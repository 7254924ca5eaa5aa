package compare

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

func storedRoom() domain.TrackedSnapshot {
	return domain.TrackedSnapshot{
		ID:           uuid.New(),
		ProjectID:    uuid.New(),
		TrackID:      "R1",
		Kind:         domain.KindRoom,
		VersionLabel: "v1",
		CapturedAt:   time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Room:         &domain.RoomFields{Number: "101", Name: "Lobby", Area: 100.0},
		Attributes:   map[string]any{"Base Offset": 0.0, "Finish Note": "per schedule"},
	}
}

func TestBuildRestorePlan(t *testing.T) {
	snapshot := storedRoom()
	live := domain.EntityState{
		TrackID: "R1",
		Kind:    domain.KindRoom,
		Room:    &domain.RoomFields{Number: "101", Name: "Reception", Area: 100.0},
		Instance: []domain.Attribute{
			{Name: "Base Offset", Value: domain.NumberValue(0)},
			{Name: "New Note", Value: domain.TextValue("added later")},
		},
	}

	plan, err := BuildRestorePlan(snapshot, live)
	if err != nil {
		t.Fatalf("restore plan failed: %v", err)
	}
	if plan.TrackID != "R1" || plan.VersionLabel != "v1" {
		t.Errorf("plan metadata missing: %+v", plan)
	}

	byAttr := map[string]RestoreAction{}
	for _, action := range plan.Actions {
		byAttr[action.Attribute] = action
	}

	name, ok := byAttr["Name"]
	if !ok || name.Action != RestoreSet || name.Value != "Lobby" || name.LiveValue != "Reception" {
		t.Errorf("expected Name to be set back to Lobby, got %+v", name)
	}

	note, ok := byAttr["Finish Note"]
	if !ok || note.Action != RestoreSet || note.Value != "per schedule" {
		t.Errorf("expected Finish Note to be restored, got %+v", note)
	}

	added, ok := byAttr["New Note"]
	if !ok || added.Action != RestoreClear || added.LiveValue != "added later" {
		t.Errorf("expected New Note to be cleared, got %+v", added)
	}

	if _, present := byAttr["Area"]; present {
		t.Error("unchanged Area must not appear in the plan")
	}
}

func TestBuildRestorePlanNoChanges(t *testing.T) {
	snapshot := storedRoom()
	live := domain.EntityState{
		TrackID: "R1",
		Kind:    domain.KindRoom,
		Room:    &domain.RoomFields{Number: "101", Name: "Lobby", Area: 100.0},
		Instance: []domain.Attribute{
			{Name: "Base Offset", Value: domain.NumberValue(0)},
			{Name: "Finish Note", Value: domain.TextValue("per schedule")},
		},
	}

	plan, err := BuildRestorePlan(snapshot, live)
	if err != nil {
		t.Fatalf("restore plan failed: %v", err)
	}
	if len(plan.Actions) != 0 {
		t.Errorf("expected empty plan, got %+v", plan.Actions)
	}
}

func TestBuildRestorePlanMismatch(t *testing.T) {
	snapshot := storedRoom()

	if _, err := BuildRestorePlan(snapshot, domain.EntityState{TrackID: "R2", Kind: domain.KindRoom}); err == nil {
		t.Error("expected track id mismatch error")
	}
	if _, err := BuildRestorePlan(snapshot, domain.EntityState{TrackID: "R1", Kind: domain.KindDoor}); err == nil {
		t.Error("expected kind mismatch error")
	}
}
