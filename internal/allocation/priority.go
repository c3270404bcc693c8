package allocation

import (
	"sort"

	"relief-router/internal/models"
)

// RankZones returns the affected zones ordered by risk level, then
// population, both descending. Zones equal on both are ordered by id.
func RankZones(zones []models.Zone, affected map[string]bool) []models.PriorityEntry {
	entries := []models.PriorityEntry{}
	for _, z := range zones {
		if !affected[z.ID] {
			continue
		}
		entries = append(entries, models.PriorityEntry{
			RiskLevel:  z.RiskLevel,
			Population: z.Population,
			ZoneID:     z.ID,
			ZoneName:   z.Name,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.RiskLevel != b.RiskLevel {
			return a.RiskLevel > b.RiskLevel
		}
		if a.Population != b.Population {
			return a.Population > b.Population
		}
		return a.ZoneID < b.ZoneID
	})
	return entries
}
