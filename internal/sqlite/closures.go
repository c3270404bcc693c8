package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"relief-router/internal/database"
	"relief-router/internal/graph"
	"relief-router/internal/models"
)

type closureRepository struct {
	store *Store
}

func (r *closureRepository) List(ctx context.Context) ([]models.Closure, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, disaster, zone_a, zone_b FROM closures ORDER BY disaster, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query closures: %w", err)
	}
	return scanClosures(rows)
}

func (r *closureRepository) ListByDisaster(ctx context.Context, disaster models.DisasterType) ([]models.Closure, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, disaster, zone_a, zone_b FROM closures WHERE disaster = ? ORDER BY id`, string(disaster))
	if err != nil {
		return nil, fmt.Errorf("failed to query closures: %w", err)
	}
	return scanClosures(rows)
}

func scanClosures(rows *sql.Rows) ([]models.Closure, error) {
	defer rows.Close()

	closures := []models.Closure{}
	for rows.Next() {
		var c models.Closure
		var disaster string
		if err := rows.Scan(&c.ID, &disaster, &c.ZoneA, &c.ZoneB); err != nil {
			return nil, fmt.Errorf("failed to scan closure: %w", err)
		}
		c.Disaster = models.DisasterType(disaster)
		closures = append(closures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closures: %w", err)
	}
	return closures, nil
}

// Create stores the pair normalised so {A,B} and {B,A} are one closure
func (r *closureRepository) Create(ctx context.Context, c *models.Closure) (*models.Closure, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := graph.Key(c.ZoneA, c.ZoneB)
	c.ZoneA, c.ZoneB = key.A, key.B

	result, err := r.store.db.ExecContext(ctx,
		`INSERT INTO closures (disaster, zone_a, zone_b) VALUES (?, ?, ?)`,
		string(c.Disaster), c.ZoneA, c.ZoneB)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("closure %s %s: %w", c.Disaster, key, database.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create closure: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *closureRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM closures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete closure: %w", err)
	}
	return requireAffected(result)
}
