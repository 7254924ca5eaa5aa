package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityKind identifies which dedicated-field schema a snapshot carries. It is
// always passed explicitly; there is no ambient current-kind state.
type EntityKind string

const (
	KindRoom    EntityKind = "ROOM"
	KindDoor    EntityKind = "DOOR"
	KindElement EntityKind = "ELEMENT"
)

// ValidateEntityKind rejects kinds outside the tracked set.
func ValidateEntityKind(kind EntityKind) error {
	switch kind {
	case KindRoom, KindDoor, KindElement:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
}

// RoomFields holds the dedicated columns captured for a room.
type RoomFields struct {
	Number        string  `json:"number,omitempty"`
	Name          string  `json:"name,omitempty"`
	Level         string  `json:"level,omitempty"`
	Area          float64 `json:"area"`
	Perimeter     float64 `json:"perimeter"`
	Volume        float64 `json:"volume"`
	Occupancy     string  `json:"occupancy,omitempty"`
	Department    string  `json:"department,omitempty"`
	Phase         string  `json:"phase,omitempty"`
	FloorFinish   string  `json:"floorFinish,omitempty"`
	CeilingFinish string  `json:"ceilingFinish,omitempty"`
	WallFinish    string  `json:"wallFinish,omitempty"`
	BaseFinish    string  `json:"baseFinish,omitempty"`
	Comments      string  `json:"comments,omitempty"`
}

// DoorFields holds the dedicated columns captured for a door.
type DoorFields struct {
	Family          string  `json:"family,omitempty"`
	TypeName        string  `json:"typeName,omitempty"`
	Mark            string  `json:"mark,omitempty"`
	Level           string  `json:"level,omitempty"`
	FireRating      string  `json:"fireRating,omitempty"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	PhaseCreated    string  `json:"phaseCreated,omitempty"`
	PhaseDemolished string  `json:"phaseDemolished,omitempty"`
	Comments        string  `json:"comments,omitempty"`
}

// ElementFields holds the dedicated columns captured for a generic element.
type ElementFields struct {
	Category string `json:"category,omitempty"`
	Family   string `json:"family,omitempty"`
	TypeName string `json:"typeName,omitempty"`
	Level    string `json:"level,omitempty"`
	Mark     string `json:"mark,omitempty"`
	Comments string `json:"comments,omitempty"`
}

// Fixed attribute names under which dedicated fields rejoin the generic
// mapping for comparison and display. The same names form the extractor's
// exclusion set, which keeps the dedicated and generic key sets disjoint.
var dedicatedAttributeNames = map[EntityKind][]string{
	KindRoom: {
		"Number", "Name", "Level", "Area", "Perimeter", "Volume",
		"Occupancy", "Department", "Phase",
		"Floor Finish", "Ceiling Finish", "Wall Finish", "Base Finish",
		"Comments",
	},
	KindDoor: {
		"Family", "Type", "Mark", "Level", "Fire Rating",
		"Width", "Height", "Phase Created", "Phase Demolished", "Comments",
	},
	KindElement: {
		"Category", "Family", "Type", "Level", "Mark", "Comments",
	},
}

// DedicatedAttributeNames returns the fixed attribute names reserved for the
// kind's dedicated fields.
func DedicatedAttributeNames(kind EntityKind) []string {
	names := dedicatedAttributeNames[kind]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// TrackedSnapshot is one versioned capture of one trackable entity. Snapshots
// are immutable once persisted; later captures create new records.
type TrackedSnapshot struct {
	ID           uuid.UUID      `json:"id"`
	ProjectID    uuid.UUID      `json:"projectId"`
	TrackID      string         `json:"trackId"`
	Kind         EntityKind     `json:"kind"`
	VersionLabel string         `json:"versionLabel"`
	Official     bool           `json:"official"`
	CapturedBy   string         `json:"capturedBy"`
	CapturedAt   time.Time      `json:"capturedAt"`
	Room         *RoomFields    `json:"room,omitempty"`
	Door         *DoorFields    `json:"door,omitempty"`
	Element      *ElementFields `json:"element,omitempty"`
	Attributes   map[string]any `json:"attributes"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Validate enforces the capture-time invariants: a stable identifier, a legal
// version label, a known kind, and generic attributes that do not shadow the
// kind's dedicated fields.
func (s TrackedSnapshot) Validate() error {
	if s.TrackID == "" {
		return ErrMissingTrackID
	}
	if err := ValidateVersionLabel(s.VersionLabel); err != nil {
		return err
	}
	if err := ValidateEntityKind(s.Kind); err != nil {
		return err
	}
	for _, name := range dedicatedAttributeNames[s.Kind] {
		if _, shadowed := s.Attributes[name]; shadowed {
			return fmt.Errorf("attribute %q on entity %s collides with a dedicated field", name, s.TrackID)
		}
	}
	return nil
}

// MergedAttributes folds the dedicated fields back into the generic mapping
// under their fixed attribute names. Both comparison sides go through this
// before diffing so dedicated and generic attributes are compared uniformly.
func (s TrackedSnapshot) MergedAttributes() map[string]any {
	merged := make(map[string]any, len(s.Attributes)+16)
	for k, v := range s.Attributes {
		merged[k] = v
	}
	switch {
	case s.Room != nil:
		r := s.Room
		putText(merged, "Number", r.Number)
		putText(merged, "Name", r.Name)
		putText(merged, "Level", r.Level)
		merged["Area"] = r.Area
		merged["Perimeter"] = r.Perimeter
		merged["Volume"] = r.Volume
		putText(merged, "Occupancy", r.Occupancy)
		putText(merged, "Department", r.Department)
		putText(merged, "Phase", r.Phase)
		putText(merged, "Floor Finish", r.FloorFinish)
		putText(merged, "Ceiling Finish", r.CeilingFinish)
		putText(merged, "Wall Finish", r.WallFinish)
		putText(merged, "Base Finish", r.BaseFinish)
		putText(merged, "Comments", r.Comments)
	case s.Door != nil:
		d := s.Door
		putText(merged, "Family", d.Family)
		putText(merged, "Type", d.TypeName)
		putText(merged, "Mark", d.Mark)
		putText(merged, "Level", d.Level)
		putText(merged, "Fire Rating", d.FireRating)
		merged["Width"] = d.Width
		merged["Height"] = d.Height
		putText(merged, "Phase Created", d.PhaseCreated)
		putText(merged, "Phase Demolished", d.PhaseDemolished)
		putText(merged, "Comments", d.Comments)
	case s.Element != nil:
		e := s.Element
		putText(merged, "Category", e.Category)
		putText(merged, "Family", e.Family)
		putText(merged, "Type", e.TypeName)
		putText(merged, "Level", e.Level)
		putText(merged, "Mark", e.Mark)
		putText(merged, "Comments", e.Comments)
	}
	return merged
}

func putText(merged map[string]any, name, value string) {
	if value != "" {
		merged[name] = value
	}
}

// GetDedicatedAsJSONB returns the kind-specific dedicated fields for storage.
func (s TrackedSnapshot) GetDedicatedAsJSONB() (json.RawMessage, error) {
	switch {
	case s.Room != nil:
		return json.Marshal(s.Room)
	case s.Door != nil:
		return json.Marshal(s.Door)
	case s.Element != nil:
		return json.Marshal(s.Element)
	default:
		return json.RawMessage(`{}`), nil
	}
}

// GetAttributesAsJSONB returns the generic mapping for storage.
func (s *TrackedSnapshot) GetAttributesAsJSONB() (json.RawMessage, error) {
	if s.Attributes == nil {
		s.Attributes = make(map[string]any)
	}
	return json.Marshal(s.Attributes)
}

// ApplyDedicatedJSONB decodes stored dedicated fields into the struct matching
// the snapshot's kind.
func (s *TrackedSnapshot) ApplyDedicatedJSONB(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	switch s.Kind {
	case KindRoom:
		fields := &RoomFields{}
		if err := json.Unmarshal(raw, fields); err != nil {
			return fmt.Errorf("decode room fields: %w", err)
		}
		s.Room = fields
	case KindDoor:
		fields := &DoorFields{}
		if err := json.Unmarshal(raw, fields); err != nil {
			return fmt.Errorf("decode door fields: %w", err)
		}
		s.Door = fields
	case KindElement:
		fields := &ElementFields{}
		if err := json.Unmarshal(raw, fields); err != nil {
			return fmt.Errorf("decode element fields: %w", err)
		}
		s.Element = fields
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntityKind, s.Kind)
	}
	return nil
}

// FromJSONBAttributes decodes a stored generic mapping.
func FromJSONBAttributes(raw json.RawMessage) (map[string]any, error) {
	var attributes map[string]any
	if err := json.Unmarshal(raw, &attributes); err != nil {
		return nil, err
	}
	if attributes == nil {
		attributes = map[string]any{}
	}
	return attributes, nil
}
