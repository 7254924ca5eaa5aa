package domain

import "fmt"

// FieldChangeType classifies a single attribute difference.
type FieldChangeType string

const (
	// FieldModified indicates the attribute exists on both sides with
	// differing values.
	FieldModified FieldChangeType = "modified"
	// FieldAdded indicates the attribute exists only on the target side.
	FieldAdded FieldChangeType = "added"
	// FieldRemoved indicates the attribute exists only on the baseline side.
	FieldRemoved FieldChangeType = "removed"
)

// FieldChange describes one attribute difference between two snapshots of the
// same entity. Old and New are normalized string renderings.
type FieldChange struct {
	Field string          `json:"field"`
	Old   string          `json:"old,omitempty"`
	New   string          `json:"new,omitempty"`
	Type  FieldChangeType `json:"type"`
}

func (c FieldChange) String() string {
	switch c.Type {
	case FieldAdded:
		return fmt.Sprintf("%s: (new) '%s'", c.Field, c.New)
	case FieldRemoved:
		return fmt.Sprintf("%s: (removed) '%s'", c.Field, c.Old)
	default:
		return fmt.Sprintf("%s: '%s' → '%s'", c.Field, c.Old, c.New)
	}
}

// EntityChange collects the field-level differences for one modified entity.
type EntityChange struct {
	TrackID string        `json:"trackId"`
	Kind    EntityKind    `json:"kind"`
	Changes []FieldChange `json:"changes"`
}

// ChangeSetSummary provides counts for a change set.
type ChangeSetSummary struct {
	Added        int `json:"added"`
	Removed      int `json:"removed"`
	Modified     int `json:"modified"`
	FieldChanges int `json:"fieldChanges"`
	TotalChanges int `json:"totalChanges"`
}

// ChangeSet is the result of comparing two snapshot collections. Each track
// identifier appears in at most one of Added, Removed or Modified; unchanged
// entities are omitted. Change sets are computed on demand, never persisted.
type ChangeSet struct {
	BaseLabel   string            `json:"baseLabel"`
	TargetLabel string            `json:"targetLabel"`
	Added       []TrackedSnapshot `json:"added"`
	Removed     []TrackedSnapshot `json:"removed"`
	Modified    []EntityChange    `json:"modified"`
	Summary     ChangeSetSummary  `json:"summary"`
}

// HasChanges reports whether the change set contains any differences. A false
// result is the normal "no changes" outcome, not an error.
func (c ChangeSet) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

func calculateSummary(c *ChangeSet) ChangeSetSummary {
	fieldChanges := 0
	for _, change := range c.Modified {
		fieldChanges += len(change.Changes)
	}
	return ChangeSetSummary{
		Added:        len(c.Added),
		Removed:      len(c.Removed),
		Modified:     len(c.Modified),
		FieldChanges: fieldChanges,
		TotalChanges: len(c.Added) + len(c.Removed) + len(c.Modified),
	}
}
