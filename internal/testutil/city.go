// Package testutil provides shared fixtures for package tests.
package testutil

import "relief-router/internal/models"

// PentagonZones returns five zones Z1..Z5 in load order.
func PentagonZones() []models.Zone {
	return []models.Zone{
		{ID: "Z1", Name: "Central Market", Population: 1000, RiskLevel: 5, Region: "Central"},
		{ID: "Z2", Name: "North Hills", Population: 800, RiskLevel: 3, Region: "North"},
		{ID: "Z3", Name: "East Riverside", Population: 1500, RiskLevel: 5, Region: "East"},
		{ID: "Z4", Name: "South Docks", Population: 1200, RiskLevel: 4, Region: "South"},
		{ID: "Z5", Name: "West Gardens", Population: 600, RiskLevel: 2, Region: "West"},
	}
}

// PentagonRoads returns a five-zone ring Z1-Z2-Z3-Z4-Z5-Z1 plus the Z1-Z3 diagonal.
//
// Shortest distances from Z1: Z2=4, Z3=6 (diagonal), Z5=6, Z4=8 (via Z5).
func PentagonRoads() []models.Road {
	return []models.Road{
		{ID: 1, FromZone: "Z1", ToZone: "Z2", DistanceKm: 4},
		{ID: 2, FromZone: "Z2", ToZone: "Z3", DistanceKm: 3},
		{ID: 3, FromZone: "Z3", ToZone: "Z4", DistanceKm: 5},
		{ID: 4, FromZone: "Z4", ToZone: "Z5", DistanceKm: 2},
		{ID: 5, FromZone: "Z5", ToZone: "Z1", DistanceKm: 6},
		{ID: 6, FromZone: "Z1", ToZone: "Z3", DistanceKm: 6},
	}
}

// PentagonShelters returns four shelters with 2700 total places.
func PentagonShelters() []models.Shelter {
	return []models.Shelter{
		{ID: "S1", ZoneID: "Z1", Capacity: 500},
		{ID: "S2", ZoneID: "Z3", Capacity: 1000},
		{ID: "S3", ZoneID: "Z4", Capacity: 800},
		{ID: "S4", ZoneID: "Z2", Capacity: 400},
	}
}

// PentagonResources returns relief stock for the pentagon city.
func PentagonResources() []models.Resource {
	return []models.Resource{
		{Type: models.ResourceFoodPackets, Available: 5000},
		{Type: models.ResourceFirstAidKits, Available: 400},
	}
}

// AffectedSet builds a zone id set.
func AffectedSet(ids ...string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
