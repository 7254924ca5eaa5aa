package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// NumericTolerance is the absolute delta under which two floating-point
// attribute values are considered equal.
const NumericTolerance = 0.001

// Diff computes the three-way change set between a baseline and a target
// snapshot collection, keyed by track identifier. Both sides must already be
// free of duplicate identifiers; a duplicate is reported as a validation
// error, never resolved by silent overwrite.
func Diff(baseline, target []TrackedSnapshot) (ChangeSet, error) {
	baseIndex, err := indexByTrackID(baseline)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("baseline: %w", err)
	}
	targetIndex, err := indexByTrackID(target)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("target: %w", err)
	}

	changeSet := ChangeSet{
		Added:    []TrackedSnapshot{},
		Removed:  []TrackedSnapshot{},
		Modified: []EntityChange{},
	}

	for _, id := range sortedTrackIDs(targetIndex) {
		targetSnap := targetIndex[id]
		baseSnap, known := baseIndex[id]
		if !known {
			changeSet.Added = append(changeSet.Added, targetSnap)
			continue
		}
		changes := DiffAttributeMaps(baseSnap.MergedAttributes(), targetSnap.MergedAttributes())
		if len(changes) > 0 {
			changeSet.Modified = append(changeSet.Modified, EntityChange{
				TrackID: id,
				Kind:    targetSnap.Kind,
				Changes: changes,
			})
		}
	}

	for _, id := range sortedTrackIDs(baseIndex) {
		if _, known := targetIndex[id]; !known {
			changeSet.Removed = append(changeSet.Removed, baseIndex[id])
		}
	}

	changeSet.Summary = calculateSummary(&changeSet)
	return changeSet, nil
}

// DiffAttributeMaps compares two normalized attribute mappings field by field.
// Numeric values are equal within NumericTolerance and are compared by value
// regardless of integer width; everything else falls back to normalized
// string comparison, with absence rendered as the empty string.
func DiffAttributeMaps(base, target map[string]any) []FieldChange {
	names := make([]string, 0, len(base)+len(target))
	seen := make(map[string]struct{}, len(base)+len(target))
	for name := range base {
		names = append(names, name)
		seen[name] = struct{}{}
	}
	for name := range target {
		if _, dup := seen[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var changes []FieldChange
	for _, name := range names {
		baseValue, inBase := base[name]
		targetValue, inTarget := target[name]

		switch {
		case inBase && !inTarget:
			changes = append(changes, FieldChange{
				Field: name,
				Old:   RenderValue(baseValue),
				Type:  FieldRemoved,
			})
		case !inBase && inTarget:
			changes = append(changes, FieldChange{
				Field: name,
				New:   RenderValue(targetValue),
				Type:  FieldAdded,
			})
		default:
			baseNum, baseIsNum := numericValue(baseValue)
			targetNum, targetIsNum := numericValue(targetValue)
			if baseIsNum && targetIsNum {
				if math.Abs(baseNum-targetNum) <= NumericTolerance {
					continue
				}
				changes = append(changes, FieldChange{
					Field: name,
					Old:   RenderValue(baseValue),
					New:   RenderValue(targetValue),
					Type:  FieldModified,
				})
				continue
			}
			oldRendered := RenderValue(baseValue)
			newRendered := RenderValue(targetValue)
			if oldRendered == newRendered {
				continue
			}
			changes = append(changes, FieldChange{
				Field: name,
				Old:   oldRendered,
				New:   newRendered,
				Type:  FieldModified,
			})
		}
	}
	return changes
}

func indexByTrackID(snapshots []TrackedSnapshot) (map[string]TrackedSnapshot, error) {
	index := make(map[string]TrackedSnapshot, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.TrackID == "" {
			return nil, fmt.Errorf("%w (version %s)", ErrMissingTrackID, snapshot.VersionLabel)
		}
		if _, dup := index[snapshot.TrackID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTrackID, snapshot.TrackID)
		}
		index[snapshot.TrackID] = snapshot
	}
	return index, nil
}

func sortedTrackIDs(index map[string]TrackedSnapshot) []string {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// numericValue coerces the numeric shapes a mapping value can take after a
// JSONB round trip or a live extraction. Anything else is compared as text.
func numericValue(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// RenderValue produces the normalized string form used for comparison and
// display. Nil renders as the empty string; floats drop trailing zeros so a
// stored 100.0 reads back as '100'.
func RenderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
