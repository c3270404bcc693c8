package database

import (
	"context"

	"relief-router/internal/models"
)

// DataStore is the interface for city reference data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Zones() ZoneRepository
	Roads() RoadRepository
	Shelters() ShelterRepository
	Resources() ResourceRepository
	Closures() ClosureRepository
}

// ZoneRepository handles zone persistence. List returns zones in load order,
// which the shelter allocator depends on.
type ZoneRepository interface {
	List(ctx context.Context) ([]models.Zone, error)
	GetByID(ctx context.Context, id string) (*models.Zone, error)
	Create(ctx context.Context, z *models.Zone) (*models.Zone, error)
	Update(ctx context.Context, z *models.Zone) (*models.Zone, error)
	Delete(ctx context.Context, id string) error
}

// RoadRepository handles road persistence
type RoadRepository interface {
	List(ctx context.Context) ([]models.Road, error)
	Create(ctx context.Context, r *models.Road) (*models.Road, error)
	Delete(ctx context.Context, id int64) error
}

// ShelterRepository handles shelter persistence. List returns shelters in load order.
type ShelterRepository interface {
	List(ctx context.Context) ([]models.Shelter, error)
	GetByID(ctx context.Context, id string) (*models.Shelter, error)
	Create(ctx context.Context, s *models.Shelter) (*models.Shelter, error)
	Delete(ctx context.Context, id string) error
}

// ResourceRepository handles relief stock persistence
type ResourceRepository interface {
	List(ctx context.Context) ([]models.Resource, error)
	Set(ctx context.Context, r *models.Resource) error
}

// ClosureRepository handles per-disaster road closures
type ClosureRepository interface {
	List(ctx context.Context) ([]models.Closure, error)
	ListByDisaster(ctx context.Context, disaster models.DisasterType) ([]models.Closure, error)
	Create(ctx context.Context, c *models.Closure) (*models.Closure, error)
	Delete(ctx context.Context, id int64) error
}
