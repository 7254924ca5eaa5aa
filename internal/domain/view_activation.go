package domain

import (
	"time"

	"github.com/google/uuid"
)

// ViewActivation records one view being brought to front in the host model.
type ViewActivation struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	ViewName    string    `json:"viewName"`
	ViewKind    string    `json:"viewKind"`
	ActivatedBy string    `json:"activatedBy"`
	ActivatedAt time.Time `json:"activatedAt"`
}

// NewViewActivation stamps a new activation event.
func NewViewActivation(projectID uuid.UUID, viewName, viewKind, activatedBy string) ViewActivation {
	return ViewActivation{
		ID:          uuid.New(),
		ProjectID:   projectID,
		ViewName:    viewName,
		ViewKind:    viewKind,
		ActivatedBy: activatedBy,
		ActivatedAt: time.Now(),
	}
}
