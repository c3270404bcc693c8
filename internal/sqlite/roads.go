package sqlite

import (
	"context"
	"fmt"

	"relief-router/internal/models"
)

type roadRepository struct {
	store *Store
}

func (r *roadRepository) List(ctx context.Context) ([]models.Road, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, from_zone, to_zone, distance_km
	          FROM roads
	          ORDER BY id`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query roads: %w", err)
	}
	defer rows.Close()

	roads := []models.Road{}
	for rows.Next() {
		var road models.Road
		if err := rows.Scan(&road.ID, &road.FromZone, &road.ToZone, &road.DistanceKm); err != nil {
			return nil, fmt.Errorf("failed to scan road: %w", err)
		}
		roads = append(roads, road)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roads: %w", err)
	}

	return roads, nil
}

func (r *roadRepository) Create(ctx context.Context, road *models.Road) (*models.Road, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `INSERT INTO roads (from_zone, to_zone, distance_km) VALUES (?, ?, ?)`

	result, err := r.store.db.ExecContext(ctx, query, road.FromZone, road.ToZone, road.DistanceKm)
	if err != nil {
		return nil, fmt.Errorf("failed to create road: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	road.ID = id

	return road, nil
}

func (r *roadRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM roads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete road: %w", err)
	}

	return requireAffected(result)
}
