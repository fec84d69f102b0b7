package sqlite

import (
	"context"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

type activitiesRepo struct {
	db dbtx
}

func (r *activitiesRepo) CreateActivity(ctx context.Context, a domain.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, action, resource_type, resource_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Action, a.ResourceType, a.ResourceID, a.Details,
		a.CreatedAt.UTC())
	return err
}

func (r *activitiesRepo) ListActivitiesByResource(ctx context.Context, resourceType domain.ResourceType, resourceID string, limit int) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, resource_type, resource_id, details, created_at
		 FROM activities
		 WHERE resource_type = ? AND resource_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, resourceType, resourceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.ResourceType,
			&a.ResourceID, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
