// Package extract normalizes a live entity's attribute set into the generic
// mapping used for storage. Capture and live-comparison both run through it,
// so the same policy is always applied to both sides of a diff.
package extract

import (
	"time"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

// Policy controls how one entity kind's attributes are normalized. The
// exclusion set names the attributes already externalized as dedicated
// fields; KeepEmptyText decides whether cleared text parameters survive into
// the mapping (they do for doors and generic elements, so restoration can
// round-trip a cleared field, but not for rooms).
type Policy struct {
	Kind          domain.EntityKind
	Exclusions    map[string]struct{}
	KeepEmptyText bool
}

// PolicyFor returns the capture policy for an entity kind.
func PolicyFor(kind domain.EntityKind) Policy {
	return Policy{
		Kind:          kind,
		Exclusions:    exclusionSet(kind),
		KeepEmptyText: kind != domain.KindRoom,
	}
}

func exclusionSet(kind domain.EntityKind) map[string]struct{} {
	names := domain.DedicatedAttributeNames(kind)
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Attributes builds the generic storage mapping from an entity's instance and
// type-level attribute sets. Type-level attributes are folded in first so an
// instance attribute with the same name silently replaces them. Floating
// point values are always kept, including zero; an entity with no eligible
// attributes yields an empty mapping.
func Attributes(instance, typeLevel []domain.Attribute, policy Policy) map[string]any {
	mapping := make(map[string]any, len(instance)+len(typeLevel))
	for _, attr := range typeLevel {
		include(mapping, attr, policy)
	}
	for _, attr := range instance {
		include(mapping, attr, policy)
	}
	return mapping
}

func include(mapping map[string]any, attr domain.Attribute, policy Policy) {
	if attr.Name == "" {
		return
	}
	if _, excluded := policy.Exclusions[attr.Name]; excluded {
		return
	}
	if attr.Value.IsEmptyText() && !policy.KeepEmptyText {
		return
	}
	mapping[attr.Name] = attr.Value.StorageValue()
}

// Snapshot builds a storable snapshot from one live entity state, applying
// the kind's extraction policy and carrying over the dedicated fields.
func Snapshot(projectID uuid.UUID, versionLabel, capturedBy string, official bool, capturedAt time.Time, state domain.EntityState) domain.TrackedSnapshot {
	snapshot := domain.TrackedSnapshot{
		ID:           uuid.New(),
		ProjectID:    projectID,
		TrackID:      state.TrackID,
		Kind:         state.Kind,
		VersionLabel: versionLabel,
		Official:     official,
		CapturedBy:   capturedBy,
		CapturedAt:   capturedAt,
		Attributes:   Attributes(state.Instance, state.TypeLevel, PolicyFor(state.Kind)),
	}
	switch state.Kind {
	case domain.KindRoom:
		if state.Room != nil {
			fields := *state.Room
			snapshot.Room = &fields
		} else {
			snapshot.Room = &domain.RoomFields{}
		}
	case domain.KindDoor:
		if state.Door != nil {
			fields := *state.Door
			snapshot.Door = &fields
		} else {
			snapshot.Door = &domain.DoorFields{}
		}
	case domain.KindElement:
		if state.Element != nil {
			fields := *state.Element
			snapshot.Element = &fields
		} else {
			snapshot.Element = &domain.ElementFields{}
		}
	}
	return snapshot
}
