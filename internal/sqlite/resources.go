package sqlite

import (
	"context"
	"fmt"
	"time"

	"relief-router/internal/models"
)

type resourceRepository struct {
	store *Store
}

func (r *resourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT resource_type, available, updated_at FROM resources ORDER BY resource_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	resources := []models.Resource{}
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.Type, &res.Available, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	return resources, nil
}

// Set inserts or replaces the stock for a resource type
func (r *resourceRepository) Set(ctx context.Context, res *models.Resource) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO resources (resource_type, available, updated_at)
	          VALUES (?, ?, ?)
	          ON CONFLICT(resource_type) DO UPDATE SET available = excluded.available, updated_at = excluded.updated_at`

	if _, err := r.store.db.ExecContext(ctx, query, res.Type, res.Available, res.UpdatedAt); err != nil {
		return fmt.Errorf("failed to set resource: %w", err)
	}
	return nil
}
