// Package allocation ranks affected zones and shares shelter capacity and
// relief supplies among them.
package allocation

import (
	"log"

	"relief-router/internal/models"
)

// AllocateShelters assigns the population of each affected zone to shelters,
// first-fit, preferring shelters located in the zone itself.
//
// Zones are processed in the given order, which decides who gets first pick
// of shared capacity. For each zone the preference list is its local shelters
// followed by every shelter in input order, so local shelters are listed twice;
// the second visit finds them empty or skips them once the zone is housed.
// People who fit nowhere produce one record with UnmetShelterID.
//
// Capacities are tracked on a private copy; shelters is not modified.
func AllocateShelters(zones []models.Zone, shelters []models.Shelter, affected map[string]bool) []models.AllocationRecord {
	remaining := make(map[string]int, len(shelters))
	for _, s := range shelters {
		remaining[s.ID] = s.Capacity
	}

	allocations := []models.AllocationRecord{}
	for _, z := range zones {
		if !affected[z.ID] {
			continue
		}
		people := z.Population

		for _, s := range preferenceList(z.ID, shelters) {
			if people <= 0 {
				break
			}
			if remaining[s.ID] <= 0 {
				continue
			}
			take := min(people, remaining[s.ID])
			remaining[s.ID] -= take
			people -= take
			allocations = append(allocations, models.AllocationRecord{
				ZoneID:      z.ID,
				ShelterID:   s.ID,
				People:      take,
				ShelterZone: s.ZoneID,
			})
		}

		if people > 0 {
			log.Printf("[ALLOC] Zone %s: %d people without shelter", z.ID, people)
			allocations = append(allocations, models.AllocationRecord{
				ZoneID:      z.ID,
				ShelterID:   models.UnmetShelterID,
				People:      people,
				ShelterZone: models.UnmetShelterZone,
			})
		}
	}

	return allocations
}

func preferenceList(zoneID string, shelters []models.Shelter) []models.Shelter {
	preferred := make([]models.Shelter, 0, len(shelters)+1)
	for _, s := range shelters {
		if s.ZoneID == zoneID {
			preferred = append(preferred, s)
		}
	}
	return append(preferred, shelters...)
}

// ZoneTotals sums allocation records per zone.
type ZoneTotals struct {
	ZoneID  string `json:"zone_id"`
	Housed  int    `json:"housed"`
	Unmet   int    `json:"unmet"`
	Records int    `json:"records"`
}

// Summarize returns per-zone totals in first-appearance order.
func Summarize(allocations []models.AllocationRecord) []ZoneTotals {
	index := make(map[string]int)
	var totals []ZoneTotals
	for _, a := range allocations {
		i, ok := index[a.ZoneID]
		if !ok {
			i = len(totals)
			index[a.ZoneID] = i
			totals = append(totals, ZoneTotals{ZoneID: a.ZoneID})
		}
		if a.IsUnmet() {
			totals[i].Unmet += a.People
		} else {
			totals[i].Housed += a.People
		}
		totals[i].Records++
	}
	return totals
}

// ShelterUsage returns people placed per shelter id.
func ShelterUsage(allocations []models.AllocationRecord) map[string]int {
	usage := make(map[string]int)
	for _, a := range allocations {
		if !a.IsUnmet() {
			usage[a.ShelterID] += a.People
		}
	}
	return usage
}
