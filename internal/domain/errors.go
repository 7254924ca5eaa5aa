package domain

import "errors"

var (
	// ErrInvalidVersionLabel indicates a version label that does not match the
	// allowed character set.
	ErrInvalidVersionLabel = errors.New("invalid version label")

	// ErrDuplicateTrackID indicates two entities sharing a track identifier
	// within one capture or one comparison side.
	ErrDuplicateTrackID = errors.New("duplicate track id")

	// ErrMissingTrackID indicates an entity without a stable identifier.
	ErrMissingTrackID = errors.New("missing track id")

	// ErrVersionExists indicates an attempt to capture under a version label
	// that is already persisted for the project.
	ErrVersionExists = errors.New("version label already exists")

	// ErrUnknownEntityKind indicates an entity kind outside the tracked set.
	ErrUnknownEntityKind = errors.New("unknown entity kind")

	// ErrSnapshotNotFound indicates a lookup for a snapshot that is not stored.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
