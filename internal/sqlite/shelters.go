package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"relief-router/internal/database"
	"relief-router/internal/models"
)

type shelterRepository struct {
	store *Store
}

func (r *shelterRepository) List(ctx context.Context) ([]models.Shelter, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT shelter_id, zone_id, capacity
	          FROM shelters
	          ORDER BY seq`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shelters: %w", err)
	}
	defer rows.Close()

	shelters := []models.Shelter{}
	for rows.Next() {
		var s models.Shelter
		if err := rows.Scan(&s.ID, &s.ZoneID, &s.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan shelter: %w", err)
		}
		shelters = append(shelters, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shelters: %w", err)
	}

	return shelters, nil
}

func (r *shelterRepository) GetByID(ctx context.Context, id string) (*models.Shelter, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var s models.Shelter
	err := r.store.db.QueryRowContext(ctx,
		`SELECT shelter_id, zone_id, capacity FROM shelters WHERE shelter_id = ?`, id,
	).Scan(&s.ID, &s.ZoneID, &s.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shelter: %w", err)
	}

	return &s, nil
}

func (r *shelterRepository) Create(ctx context.Context, s *models.Shelter) (*models.Shelter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `INSERT INTO shelters (shelter_id, zone_id, capacity) VALUES (?, ?, ?)`

	if _, err := r.store.db.ExecContext(ctx, query, s.ID, s.ZoneID, s.Capacity); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("shelter %s: %w", s.ID, database.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create shelter: %w", err)
	}

	return s, nil
}

func (r *shelterRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM shelters WHERE shelter_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shelter: %w", err)
	}

	return requireAffected(result)
}
