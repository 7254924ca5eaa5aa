package compare

import (
	"fmt"

	"github.com/paramtrail/paramtrail/internal/domain"
	"github.com/paramtrail/paramtrail/internal/extract"
)

// RestoreActionType categorizes a single restore step.
type RestoreActionType string

const (
	// RestoreSet writes the stored value over the live one.
	RestoreSet RestoreActionType = "SET"
	// RestoreClear removes a value which exists live but not in the snapshot.
	RestoreClear RestoreActionType = "CLEAR"
)

// RestoreAction is one attribute write needed to bring a live entity back to
// its stored state.
type RestoreAction struct {
	Attribute string            `json:"attribute"`
	Action    RestoreActionType `json:"action"`
	LiveValue any               `json:"liveValue,omitempty"`
	Value     any               `json:"value,omitempty"`
}

// RestorePlan lists the attribute writes that would bring a live entity back
// to the state a snapshot captured. An empty Actions slice means the entity
// already matches the snapshot.
type RestorePlan struct {
	TrackID      string            `json:"trackId"`
	Kind         domain.EntityKind `json:"kind"`
	VersionLabel string            `json:"versionLabel"`
	Actions      []RestoreAction   `json:"actions"`
}

// BuildRestorePlan diffs a live entity against a stored snapshot and returns
// the writes needed to restore the stored state. The plan is advisory: the
// caller applies it through whatever authoring tool owns the entity.
func BuildRestorePlan(snapshot domain.TrackedSnapshot, live domain.EntityState) (RestorePlan, error) {
	if live.TrackID != snapshot.TrackID {
		return RestorePlan{}, fmt.Errorf("restore plan: live entity %s does not match snapshot %s", live.TrackID, snapshot.TrackID)
	}
	if live.Kind != snapshot.Kind {
		return RestorePlan{}, fmt.Errorf("restore plan: live entity %s is %s, snapshot is %s", live.TrackID, live.Kind, snapshot.Kind)
	}

	liveSnapshot := extract.Snapshot(snapshot.ProjectID, snapshot.VersionLabel, "", false, snapshot.CapturedAt, live)

	changes := domain.DiffAttributeMaps(liveSnapshot.MergedAttributes(), snapshot.MergedAttributes())
	actions := make([]RestoreAction, 0, len(changes))
	for _, change := range changes {
		switch change.Type {
		case domain.FieldRemoved:
			// Present live, absent in the snapshot.
			actions = append(actions, RestoreAction{
				Attribute: change.Field,
				Action:    RestoreClear,
				LiveValue: change.Old,
			})
		default:
			actions = append(actions, RestoreAction{
				Attribute: change.Field,
				Action:    RestoreSet,
				LiveValue: change.Old,
				Value:     change.New,
			})
		}
	}

	return RestorePlan{
		TrackID:      snapshot.TrackID,
		Kind:         snapshot.Kind,
		VersionLabel: snapshot.VersionLabel,
		Actions:      actions,
	}, nil
}
