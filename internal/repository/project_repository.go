package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paramtrail/paramtrail/internal/domain"
)

// ErrProjectNotFound indicates a lookup for a project that is not stored.
var ErrProjectNotFound = errors.New("project not found")

// projectRepository implements ProjectRepository over pgx.
type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	if project.ID == uuid.Nil {
		project = domain.NewProject(project.Name, project.Description)
	}

	query := `
INSERT INTO projects (id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, created_at, updated_at
`
	row := r.pool.QueryRow(ctx, query,
		project.ID, project.Name, project.Description, project.CreatedAt, project.UpdatedAt)

	var created domain.Project
	if err := row.Scan(&created.ID, &created.Name, &created.Description, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return domain.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	query := `
SELECT id, name, description, created_at, updated_at
FROM projects
WHERE id = $1
`
	var project domain.Project
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return domain.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (r *projectRepository) GetByName(ctx context.Context, name string) (domain.Project, error) {
	query := `
SELECT id, name, description, created_at, updated_at
FROM projects
WHERE name = $1
`
	var project domain.Project
	err := r.pool.QueryRow(ctx, query, name).
		Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
		}
		return domain.Project{}, fmt.Errorf("failed to get project by name: %w", err)
	}
	return project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	query := `
SELECT id, name, description, created_at, updated_at
FROM projects
ORDER BY name
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
