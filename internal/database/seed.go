package database

import (
	"context"
	"fmt"
	"log"

	"relief-router/internal/models"
)

// DefaultClosures are the roads each disaster type closes in the reference city
func DefaultClosures() []models.Closure {
	return []models.Closure{
		{Disaster: models.DisasterFlood, ZoneA: "Z3", ZoneB: "Z4"},
		{Disaster: models.DisasterFire, ZoneA: "Z2", ZoneB: "Z3"},
		{Disaster: models.DisasterEarthquake, ZoneA: "Z1", ZoneB: "Z3"},
		{Disaster: models.DisasterEarthquake, ZoneA: "Z3", ZoneB: "Z5"},
	}
}

// Seed validates city data and writes it to the store in load order.
// Default closures are added when the store has none.
func Seed(ctx context.Context, store DataStore, city *CityData) error {
	if err := city.Validate(); err != nil {
		return err
	}

	for i := range city.Zones {
		if _, err := store.Zones().Create(ctx, &city.Zones[i]); err != nil {
			return fmt.Errorf("failed to seed zone %s: %w", city.Zones[i].ID, err)
		}
	}
	for i := range city.Roads {
		if _, err := store.Roads().Create(ctx, &city.Roads[i]); err != nil {
			return fmt.Errorf("failed to seed road %s-%s: %w", city.Roads[i].FromZone, city.Roads[i].ToZone, err)
		}
	}
	for i := range city.Shelters {
		if _, err := store.Shelters().Create(ctx, &city.Shelters[i]); err != nil {
			return fmt.Errorf("failed to seed shelter %s: %w", city.Shelters[i].ID, err)
		}
	}
	for i := range city.Resources {
		if err := store.Resources().Set(ctx, &city.Resources[i]); err != nil {
			return fmt.Errorf("failed to seed resource %s: %w", city.Resources[i].Type, err)
		}
	}

	if err := SeedClosures(ctx, store); err != nil {
		return err
	}

	log.Printf("[IMPORT] Seeded zones=%d roads=%d shelters=%d resources=%d",
		len(city.Zones), len(city.Roads), len(city.Shelters), len(city.Resources))
	return nil
}

// SeedClosures inserts DefaultClosures if no closure exists yet
func SeedClosures(ctx context.Context, store DataStore) error {
	existing, err := store.Closures().List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range DefaultClosures() {
		if _, err := store.Closures().Create(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed closure %s %s-%s: %w", c.Disaster, c.ZoneA, c.ZoneB, err)
		}
	}
	return nil
}

// IsEmpty reports whether the store holds no zones yet
func IsEmpty(ctx context.Context, store DataStore) (bool, error) {
	zones, err := store.Zones().List(ctx)
	if err != nil {
		return false, err
	}
	return len(zones) == 0, nil
}
