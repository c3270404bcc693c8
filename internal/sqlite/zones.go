package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"relief-router/internal/database"
	"relief-router/internal/models"
)

type zoneRepository struct {
	store *Store
}

func (r *zoneRepository) List(ctx context.Context) ([]models.Zone, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT zone_id, zone_name, population, risk_level, region
	          FROM zones
	          ORDER BY seq`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	zones := []models.Zone{}
	for rows.Next() {
		var z models.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Population, &z.RiskLevel, &z.Region); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zones: %w", err)
	}

	return zones, nil
}

func (r *zoneRepository) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT zone_id, zone_name, population, risk_level, region
	          FROM zones WHERE zone_id = ?`

	var z models.Zone
	err := r.store.db.QueryRowContext(ctx, query, id).Scan(&z.ID, &z.Name, &z.Population, &z.RiskLevel, &z.Region)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	return &z, nil
}

func (r *zoneRepository) Create(ctx context.Context, z *models.Zone) (*models.Zone, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `INSERT INTO zones (zone_id, zone_name, population, risk_level, region)
	          VALUES (?, ?, ?, ?, ?)`

	if _, err := r.store.db.ExecContext(ctx, query, z.ID, z.Name, z.Population, z.RiskLevel, z.Region); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("zone %s: %w", z.ID, database.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	return z, nil
}

func (r *zoneRepository) Update(ctx context.Context, z *models.Zone) (*models.Zone, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `UPDATE zones
	          SET zone_name = ?, population = ?, risk_level = ?, region = ?
	          WHERE zone_id = ?`

	result, err := r.store.db.ExecContext(ctx, query, z.Name, z.Population, z.RiskLevel, z.Region, z.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update zone: %w", err)
	}

	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return z, nil
}

func (r *zoneRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM zones WHERE zone_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrNotFound
	}
	return nil
}
