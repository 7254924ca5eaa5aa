package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paramtrail/paramtrail/internal/domain"
)

// viewActivationRepository implements ViewActivationRepository over pgx.
type viewActivationRepository struct {
	pool *pgxpool.Pool
}

// NewViewActivationRepository creates a new view-activation repository.
func NewViewActivationRepository(pool *pgxpool.Pool) ViewActivationRepository {
	return &viewActivationRepository{pool: pool}
}

func (r *viewActivationRepository) Record(ctx context.Context, activation domain.ViewActivation) (domain.ViewActivation, error) {
	if activation.ID == uuid.Nil {
		activation.ID = uuid.New()
	}

	query := `
INSERT INTO view_activations (id, project_id, view_name, view_kind, activated_by, activated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, project_id, view_name, view_kind, activated_by, activated_at
`
	row := r.pool.QueryRow(ctx, query,
		activation.ID, activation.ProjectID, activation.ViewName, activation.ViewKind,
		activation.ActivatedBy, activation.ActivatedAt)

	var recorded domain.ViewActivation
	if err := row.Scan(&recorded.ID, &recorded.ProjectID, &recorded.ViewName, &recorded.ViewKind,
		&recorded.ActivatedBy, &recorded.ActivatedAt); err != nil {
		return domain.ViewActivation{}, fmt.Errorf("failed to record view activation: %w", err)
	}
	return recorded, nil
}

// List returns activations for a project, most recent first.
func (r *viewActivationRepository) List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]domain.ViewActivation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT id, project_id, view_name, view_kind, activated_by, activated_at
FROM view_activations
WHERE project_id = $1
ORDER BY activated_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, query, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list view activations: %w", err)
	}
	defer rows.Close()

	activations := []domain.ViewActivation{}
	for rows.Next() {
		var activation domain.ViewActivation
		if err := rows.Scan(&activation.ID, &activation.ProjectID, &activation.ViewName, &activation.ViewKind,
			&activation.ActivatedBy, &activation.ActivatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view activation: %w", err)
		}
		activations = append(activations, activation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate view activations: %w", err)
	}
	return activations, nil
}
