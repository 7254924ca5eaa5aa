package extract

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

func TestAttributesSkipsExcludedAndEmptyNames(t *testing.T) {
	policy := PolicyFor(domain.KindRoom)
	instance := []domain.Attribute{
		{Name: "Area", Value: domain.NumberValue(100)},          // dedicated, excluded
		{Name: "", Value: domain.TextValue("anonymous")},        // no name
		{Name: "Base Offset", Value: domain.NumberValue(0)},     // kept, zero included
		{Name: "Limit Offset", Value: domain.NumberValue(2438)}, // kept
	}

	mapping := Attributes(instance, nil, policy)
	if len(mapping) != 2 {
		t.Fatalf("expected 2 attributes, got %+v", mapping)
	}
	if mapping["Base Offset"] != 0.0 {
		t.Errorf("zero numeric value must survive extraction: %+v", mapping)
	}
	if _, present := mapping["Area"]; present {
		t.Error("dedicated attribute must not enter the generic mapping")
	}
}

func TestAttributesEmptyTextPolicy(t *testing.T) {
	instance := []domain.Attribute{
		{Name: "Occupant", Value: domain.TextValue("")},
		{Name: "Comments2", Value: domain.TextValue("kept")},
	}

	roomMapping := Attributes(instance, nil, PolicyFor(domain.KindRoom))
	if _, present := roomMapping["Occupant"]; present {
		t.Error("rooms drop empty text attributes")
	}

	doorMapping := Attributes(instance, nil, PolicyFor(domain.KindDoor))
	if value, present := doorMapping["Occupant"]; !present || value != "" {
		t.Errorf("doors keep empty text attributes, got %+v", doorMapping)
	}

	elementMapping := Attributes(instance, nil, PolicyFor(domain.KindElement))
	if _, present := elementMapping["Occupant"]; !present {
		t.Error("generic elements keep empty text attributes")
	}
}

func TestAttributesInstanceWinsOverType(t *testing.T) {
	instance := []domain.Attribute{
		{Name: "Finish", Value: domain.TextValue("Paint A")},
	}
	typeLevel := []domain.Attribute{
		{Name: "Finish", Value: domain.TextValue("Paint B")},
		{Name: "Cost", Value: domain.NumberValue(120)},
	}

	mapping := Attributes(instance, typeLevel, PolicyFor(domain.KindElement))
	if mapping["Finish"] != "Paint A" {
		t.Errorf("instance value must win: %+v", mapping)
	}
	if mapping["Cost"] != 120.0 {
		t.Errorf("type-level only attribute must survive: %+v", mapping)
	}
}

func TestAttributesValueShapes(t *testing.T) {
	instance := []domain.Attribute{
		{Name: "Count", Value: domain.IntegerValue(3, "3 units")},
		{Name: "Plain Count", Value: domain.IntegerValue(5, "")},
		{Name: "Host", Value: domain.ReferenceValue("Level 1", "ref-123")},
		{Name: "Unnamed Host", Value: domain.ReferenceValue("", "ref-456")},
	}

	mapping := Attributes(instance, nil, PolicyFor(domain.KindElement))
	if mapping["Count"] != "3 units" {
		t.Errorf("integer with display should store its display string: %v", mapping["Count"])
	}
	if mapping["Plain Count"] != int64(5) {
		t.Errorf("integer without display should store the raw value: %v", mapping["Plain Count"])
	}
	if mapping["Host"] != "Level 1" {
		t.Errorf("reference should store its display name: %v", mapping["Host"])
	}
	if mapping["Unnamed Host"] != "ref-456" {
		t.Errorf("reference without display falls back to the id: %v", mapping["Unnamed Host"])
	}
}

func TestAttributesDeterministic(t *testing.T) {
	instance := []domain.Attribute{
		{Name: "Base Offset", Value: domain.NumberValue(0)},
		{Name: "Finish", Value: domain.TextValue("Paint A")},
		{Name: "Count", Value: domain.IntegerValue(3, "3 units")},
		{Name: "Host", Value: domain.ReferenceValue("Level 1", "ref-123")},
	}
	typeLevel := []domain.Attribute{
		{Name: "Finish", Value: domain.TextValue("Paint B")},
		{Name: "Cost", Value: domain.NumberValue(120)},
	}
	policy := PolicyFor(domain.KindElement)

	first := Attributes(instance, typeLevel, policy)
	second := Attributes(instance, typeLevel, policy)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input must yield the same mapping:\n%+v\n%+v", first, second)
	}
}

func TestAttributesEmptyInputYieldsEmptyMapping(t *testing.T) {
	mapping := Attributes(nil, nil, PolicyFor(domain.KindRoom))
	if len(mapping) != 0 {
		t.Errorf("expected empty mapping, got %+v", mapping)
	}
}

func TestSnapshotCarriesDedicatedFields(t *testing.T) {
	projectID := uuid.New()
	capturedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	state := domain.EntityState{
		TrackID: "R1",
		Kind:    domain.KindRoom,
		Room:    &domain.RoomFields{Number: "101", Area: 42.5},
		Instance: []domain.Attribute{
			{Name: "Base Offset", Value: domain.NumberValue(0)},
		},
	}

	snapshot := Snapshot(projectID, "v1", "alex", true, capturedAt, state)
	if snapshot.ID == uuid.Nil {
		t.Error("snapshot must get its own id")
	}
	if snapshot.TrackID != "R1" || snapshot.VersionLabel != "v1" || !snapshot.Official {
		t.Errorf("capture metadata not carried: %+v", snapshot)
	}
	if snapshot.Room == nil || snapshot.Room.Area != 42.5 {
		t.Errorf("dedicated fields not carried: %+v", snapshot.Room)
	}
	if snapshot.Attributes["Base Offset"] != 0.0 {
		t.Errorf("generic mapping not extracted: %+v", snapshot.Attributes)
	}
	if !snapshot.CapturedAt.Equal(capturedAt) {
		t.Errorf("capture time not carried: %v", snapshot.CapturedAt)
	}

	// A state without dedicated fields still gets an empty struct for its kind.
	bare := Snapshot(projectID, "v1", "alex", false, capturedAt, domain.EntityState{
		TrackID: "D1",
		Kind:    domain.KindDoor,
	})
	if bare.Door == nil {
		t.Error("door snapshot should carry an empty dedicated struct")
	}
}
