package viewlog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/paramtrail/paramtrail/internal/domain"
)

type fakeProjectRepo struct {
	known map[uuid.UUID]domain.Project
}

func (f *fakeProjectRepo) Create(_ context.Context, project domain.Project) (domain.Project, error) {
	f.known[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Project, error) {
	project, ok := f.known[id]
	if !ok {
		return domain.Project{}, errors.New("project not found")
	}
	return project, nil
}

func (f *fakeProjectRepo) GetByName(_ context.Context, _ string) (domain.Project, error) {
	return domain.Project{}, errors.New("project not found")
}

func (f *fakeProjectRepo) List(_ context.Context) ([]domain.Project, error) { return nil, nil }

func (f *fakeProjectRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type fakeActivationRepo struct {
	recorded []domain.ViewActivation
}

func (f *fakeActivationRepo) Record(_ context.Context, activation domain.ViewActivation) (domain.ViewActivation, error) {
	f.recorded = append(f.recorded, activation)
	return activation, nil
}

func (f *fakeActivationRepo) List(_ context.Context, projectID uuid.UUID, _, _ int) ([]domain.ViewActivation, error) {
	var out []domain.ViewActivation
	for _, activation := range f.recorded {
		if activation.ProjectID == projectID {
			out = append(out, activation)
		}
	}
	return out, nil
}

func TestRecordActivation(t *testing.T) {
	project := domain.NewProject("Tower A", "")
	projects := &fakeProjectRepo{known: map[uuid.UUID]domain.Project{project.ID: project}}
	activations := &fakeActivationRepo{}
	service := NewService(activations, projects)

	activation, err := service.Record(context.Background(), project.ID, "Level 1 Plan", "FloorPlan", "alex")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if activation.ID == uuid.Nil || activation.ViewName != "Level 1 Plan" || activation.ViewKind != "FloorPlan" {
		t.Errorf("unexpected activation: %+v", activation)
	}

	listed, err := service.List(context.Background(), project.ID, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("expected 1 activation, got %d", len(listed))
	}
}

func TestRecordActivationValidation(t *testing.T) {
	project := domain.NewProject("Tower A", "")
	projects := &fakeProjectRepo{known: map[uuid.UUID]domain.Project{project.ID: project}}
	service := NewService(&fakeActivationRepo{}, projects)
	ctx := context.Background()

	if _, err := service.Record(ctx, project.ID, "", "FloorPlan", "alex"); err == nil {
		t.Error("expected error for missing view name")
	}
	if _, err := service.Record(ctx, project.ID, "Level 1 Plan", "FloorPlan", ""); err == nil {
		t.Error("expected error for missing user")
	}
	if _, err := service.Record(ctx, uuid.New(), "Level 1 Plan", "FloorPlan", "alex"); err == nil {
		t.Error("expected error for unknown project")
	}
}
