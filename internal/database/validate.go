package database

import (
	"fmt"
	"math"
	"strings"

	"relief-router/internal/models"
)

// ValidateZone checks a zone before it reaches the engine
func ValidateZone(z *models.Zone) error {
	record := fmt.Sprintf("zone %s", z.ID)
	if z.ID == "" {
		return &ValidationError{Record: "zone", Field: "zone_id", Reason: "must not be empty"}
	}
	if err := checkZoneID(record, "zone_id", z.ID); err != nil {
		return err
	}
	if z.Population < 0 {
		return &ValidationError{Record: record, Field: "population", Reason: "must not be negative"}
	}
	return nil
}

// ValidateRoad checks a road before it reaches the engine. Roads may name
// zones that have no zone record.
func ValidateRoad(r *models.Road) error {
	record := fmt.Sprintf("road %s-%s", r.FromZone, r.ToZone)
	if r.FromZone == "" || r.ToZone == "" {
		return &ValidationError{Record: record, Field: "from_zone/to_zone", Reason: "must not be empty"}
	}
	if err := checkZoneID(record, "from_zone", r.FromZone); err != nil {
		return err
	}
	if err := checkZoneID(record, "to_zone", r.ToZone); err != nil {
		return err
	}
	if math.IsNaN(r.DistanceKm) || math.IsInf(r.DistanceKm, 0) {
		return &ValidationError{Record: record, Field: "distance_km", Reason: "must be a finite number"}
	}
	if r.DistanceKm < 0 {
		return &ValidationError{Record: record, Field: "distance_km", Reason: "must not be negative"}
	}
	return nil
}

// ValidateShelter checks a shelter before it reaches the engine
func ValidateShelter(s *models.Shelter) error {
	record := fmt.Sprintf("shelter %s", s.ID)
	if s.ID == "" {
		return &ValidationError{Record: "shelter", Field: "shelter_id", Reason: "must not be empty"}
	}
	if s.ZoneID == "" {
		return &ValidationError{Record: record, Field: "zone_id", Reason: "must not be empty"}
	}
	if err := checkZoneID(record, "zone_id", s.ZoneID); err != nil {
		return err
	}
	if s.Capacity < 0 {
		return &ValidationError{Record: record, Field: "capacity", Reason: "must not be negative"}
	}
	if s.ID == models.UnmetShelterID {
		return &ValidationError{Record: record, Field: "shelter_id", Reason: "is reserved"}
	}
	return nil
}

// ValidateClosure checks a disaster road closure
func ValidateClosure(c *models.Closure) error {
	record := fmt.Sprintf("closure %s", c.Disaster)
	if c.Disaster == models.DisasterNone {
		return &ValidationError{Record: "closure", Field: "disaster", Reason: "must not be empty"}
	}
	if c.ZoneA == "" || c.ZoneB == "" {
		return &ValidationError{Record: record, Field: "zone_a/zone_b", Reason: "must not be empty"}
	}
	if err := checkZoneID(record, "zone_a", c.ZoneA); err != nil {
		return err
	}
	return checkZoneID(record, "zone_b", c.ZoneB)
}

func checkZoneID(record, field, id string) error {
	if strings.Contains(id, models.PairSeparator) {
		return &ValidationError{Record: record, Field: field, Reason: fmt.Sprintf("%q must not contain %q", id, models.PairSeparator)}
	}
	return nil
}

// ValidateResource checks a resource stock entry
func ValidateResource(r *models.Resource) error {
	if r.Type == "" {
		return &ValidationError{Record: "resource", Field: "resource_type", Reason: "must not be empty"}
	}
	if r.Available < 0 {
		return &ValidationError{Record: "resource " + r.Type, Field: "available", Reason: "must not be negative"}
	}
	return nil
}

// Validate checks a whole city: every record individually, unique zone and
// shelter ids, and shelters located in known zones.
func (c *CityData) Validate() error {
	zoneIDs := make(map[string]bool, len(c.Zones))
	for i := range c.Zones {
		if err := ValidateZone(&c.Zones[i]); err != nil {
			return err
		}
		if zoneIDs[c.Zones[i].ID] {
			return &ValidationError{Record: "zone " + c.Zones[i].ID, Field: "zone_id", Reason: "duplicate"}
		}
		zoneIDs[c.Zones[i].ID] = true
	}

	for i := range c.Roads {
		if err := ValidateRoad(&c.Roads[i]); err != nil {
			return err
		}
	}

	shelterIDs := make(map[string]bool, len(c.Shelters))
	for i := range c.Shelters {
		s := &c.Shelters[i]
		if err := ValidateShelter(s); err != nil {
			return err
		}
		if shelterIDs[s.ID] {
			return &ValidationError{Record: "shelter " + s.ID, Field: "shelter_id", Reason: "duplicate"}
		}
		shelterIDs[s.ID] = true
		if !zoneIDs[s.ZoneID] {
			return &ValidationError{Record: "shelter " + s.ID, Field: "zone_id", Reason: fmt.Sprintf("unknown zone %q", s.ZoneID)}
		}
	}

	for i := range c.Resources {
		if err := ValidateResource(&c.Resources[i]); err != nil {
			return err
		}
	}
	return nil
}
