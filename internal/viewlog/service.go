// Package viewlog records which views users bring to front in the host model,
// so reviewers can see what was looked at around each capture.
package viewlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
	"github.com/paramtrail/paramtrail/internal/repository"
)

// Service records and lists view activations.
type Service struct {
	activations repository.ViewActivationRepository
	projects    repository.ProjectRepository
}

// NewService creates a new view activation service.
func NewService(activations repository.ViewActivationRepository, projects repository.ProjectRepository) *Service {
	return &Service{activations: activations, projects: projects}
}

// Record logs that a user activated a view. The project must exist.
func (s *Service) Record(ctx context.Context, projectID uuid.UUID, viewName, viewKind, activatedBy string) (domain.ViewActivation, error) {
	if viewName == "" {
		return domain.ViewActivation{}, errors.New("viewName is required")
	}
	if activatedBy == "" {
		return domain.ViewActivation{}, errors.New("activatedBy is required")
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return domain.ViewActivation{}, fmt.Errorf("project %s: %w", projectID, err)
	}

	activation := domain.NewViewActivation(projectID, viewName, viewKind, activatedBy)
	recorded, err := s.activations.Record(ctx, activation)
	if err != nil {
		return domain.ViewActivation{}, fmt.Errorf("record view activation: %w", err)
	}
	return recorded, nil
}

// List returns recent view activations for a project, newest first.
func (s *Service) List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]domain.ViewActivation, error) {
	return s.activations.List(ctx, projectID, limit, offset)
}
