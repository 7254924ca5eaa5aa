package domain

import (
	"errors"
	"testing"
)

func TestTrackedSnapshotValidate(t *testing.T) {
	valid := TrackedSnapshot{
		TrackID:      "R1",
		Kind:         KindRoom,
		VersionLabel: "2026-08_official",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid snapshot, got %v", err)
	}

	missing := valid
	missing.TrackID = ""
	if err := missing.Validate(); !errors.Is(err, ErrMissingTrackID) {
		t.Errorf("expected ErrMissingTrackID, got %v", err)
	}

	badLabel := valid
	badLabel.VersionLabel = "has spaces"
	if err := badLabel.Validate(); !errors.Is(err, ErrInvalidVersionLabel) {
		t.Errorf("expected ErrInvalidVersionLabel, got %v", err)
	}

	badKind := valid
	badKind.Kind = EntityKind("WALL")
	if err := badKind.Validate(); !errors.Is(err, ErrUnknownEntityKind) {
		t.Errorf("expected ErrUnknownEntityKind, got %v", err)
	}

	shadowed := valid
	shadowed.Attributes = map[string]any{"Area": 12.0}
	if err := shadowed.Validate(); err == nil {
		t.Error("expected dedicated-field collision to be rejected")
	}
}

func TestValidateVersionLabel(t *testing.T) {
	for _, label := range []string{"v1", "2026-08-31", "official_2026", "A-b_3"} {
		if err := ValidateVersionLabel(label); err != nil {
			t.Errorf("label %q should be valid: %v", label, err)
		}
	}
	for _, label := range []string{"", "has space", "semi;colon", "slash/label", "ünïcode"} {
		if err := ValidateVersionLabel(label); !errors.Is(err, ErrInvalidVersionLabel) {
			t.Errorf("label %q should be rejected, got %v", label, err)
		}
	}
}

func TestMergedAttributesRoom(t *testing.T) {
	snapshot := TrackedSnapshot{
		TrackID: "R1",
		Kind:    KindRoom,
		Room: &RoomFields{
			Number: "101",
			Name:   "Lobby",
			Area:   42.5,
		},
		Attributes: map[string]any{"Base Offset": 0.0},
	}

	merged := snapshot.MergedAttributes()
	if merged["Number"] != "101" || merged["Name"] != "Lobby" {
		t.Errorf("dedicated text fields missing from merge: %+v", merged)
	}
	if merged["Area"] != 42.5 {
		t.Errorf("expected Area 42.5, got %v", merged["Area"])
	}
	if merged["Base Offset"] != 0.0 {
		t.Errorf("generic attribute lost in merge: %+v", merged)
	}
	// Empty text fields stay out of the mapping, numeric ones always merge.
	if _, present := merged["Department"]; present {
		t.Error("empty Department should not appear in merge")
	}
	if _, present := merged["Perimeter"]; !present {
		t.Error("numeric Perimeter should always appear in merge")
	}
}

func TestMergedAttributesDoor(t *testing.T) {
	snapshot := TrackedSnapshot{
		TrackID: "D1",
		Kind:    KindDoor,
		Door: &DoorFields{
			Family:     "Single-Flush",
			TypeName:   "0915 x 2134mm",
			FireRating: "60 min",
			Width:      915,
			Height:     2134,
		},
	}

	merged := snapshot.MergedAttributes()
	if merged["Type"] != "0915 x 2134mm" {
		t.Errorf("TypeName should merge under 'Type', got %v", merged["Type"])
	}
	if merged["Width"] != 915.0 || merged["Height"] != 2134.0 {
		t.Errorf("door dimensions missing: %+v", merged)
	}
}

func TestJSONBRoundTrip(t *testing.T) {
	snapshot := TrackedSnapshot{
		TrackID: "D1",
		Kind:    KindDoor,
		Door: &DoorFields{
			Family: "Single-Flush",
			Width:  915,
		},
		Attributes: map[string]any{"Head Height": 2100.0, "Frame Type": "HM"},
	}

	dedicated, err := snapshot.GetDedicatedAsJSONB()
	if err != nil {
		t.Fatalf("marshal dedicated: %v", err)
	}
	attrs, err := snapshot.GetAttributesAsJSONB()
	if err != nil {
		t.Fatalf("marshal attributes: %v", err)
	}

	restored := TrackedSnapshot{TrackID: "D1", Kind: KindDoor}
	if err := restored.ApplyDedicatedJSONB(dedicated); err != nil {
		t.Fatalf("apply dedicated: %v", err)
	}
	restoredAttrs, err := FromJSONBAttributes(attrs)
	if err != nil {
		t.Fatalf("decode attributes: %v", err)
	}
	restored.Attributes = restoredAttrs

	if restored.Door == nil || restored.Door.Family != "Single-Flush" || restored.Door.Width != 915 {
		t.Errorf("dedicated fields did not round trip: %+v", restored.Door)
	}
	if restored.Attributes["Frame Type"] != "HM" {
		t.Errorf("generic attributes did not round trip: %+v", restored.Attributes)
	}
	if changes := DiffAttributeMaps(snapshot.MergedAttributes(), restored.MergedAttributes()); len(changes) != 0 {
		t.Errorf("round trip should compare clean, got %+v", changes)
	}
}
