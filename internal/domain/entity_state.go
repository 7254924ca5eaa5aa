package domain

// EntityState is the live-side input to capture and comparison: the full
// user-visible attribute set of one element as read from the host model,
// together with the values destined for the kind's dedicated fields. Instance
// attributes win over type-level attributes when both carry the same name.
type EntityState struct {
	TrackID   string         `json:"trackId"`
	Kind      EntityKind     `json:"kind"`
	Instance  []Attribute    `json:"instance,omitempty"`
	TypeLevel []Attribute    `json:"typeLevel,omitempty"`
	Room      *RoomFields    `json:"room,omitempty"`
	Door      *DoorFields    `json:"door,omitempty"`
	Element   *ElementFields `json:"element,omitempty"`
}
