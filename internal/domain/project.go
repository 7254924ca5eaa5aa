package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project scopes snapshots and view activations to one building model.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject creates a new project record.
func NewProject(name, description string) Project {
	now := time.Now()
	return Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithDescription returns a copy of the project with an updated description.
func (p Project) WithDescription(description string) Project {
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   time.Now(),
	}
}

// VersionInfo summarizes one stored capture version of a project.
type VersionInfo struct {
	Label       string    `json:"label"`
	Official    bool      `json:"official"`
	CapturedBy  string    `json:"capturedBy"`
	CapturedAt  time.Time `json:"capturedAt"`
	EntityCount int       `json:"entityCount"`
}
