package allocation

import (
	"relief-router/internal/models"
)

// Supply rules: two food packets per person, one first-aid kit per ten people.
const (
	FoodPacketsPerPerson = 2
	PeoplePerFirstAidKit = 10
)

// SupplyNeeds converts a non-negative population into supply requirements.
func SupplyNeeds(population int) models.Supplies {
	return models.Supplies{
		FoodPackets:  population * FoodPacketsPerPerson,
		FirstAidKits: (population + PeoplePerFirstAidKit - 1) / PeoplePerFirstAidKit,
	}
}

// ZoneSupplies pairs a zone with its supply requirements.
type ZoneSupplies struct {
	ZoneID   string          `json:"zone_id"`
	ZoneName string          `json:"zone_name"`
	Needs    models.Supplies `json:"needs"`
}

// SupplyPlan returns supply needs for every affected zone in zone order.
func SupplyPlan(zones []models.Zone, affected map[string]bool) []ZoneSupplies {
	plan := []ZoneSupplies{}
	for _, z := range zones {
		if !affected[z.ID] {
			continue
		}
		plan = append(plan, ZoneSupplies{ZoneID: z.ID, ZoneName: z.Name, Needs: SupplyNeeds(z.Population)})
	}
	return plan
}

// DetectGaps compares total needs of the affected zones with the stock and
// returns every resource whose requirement exceeds what is available.
// Missing stock entries count as zero.
func DetectGaps(zones []models.Zone, resources []models.Resource, affected map[string]bool) []models.ResourceGap {
	var total models.Supplies
	for _, p := range SupplyPlan(zones, affected) {
		total.FoodPackets += p.Needs.FoodPackets
		total.FirstAidKits += p.Needs.FirstAidKits
	}

	stock := make(map[string]int, len(resources))
	for _, r := range resources {
		stock[r.Type] += r.Available
	}

	gaps := []models.ResourceGap{}
	required := []struct {
		kind   string
		amount int
	}{
		{models.ResourceFoodPackets, total.FoodPackets},
		{models.ResourceFirstAidKits, total.FirstAidKits},
	}
	for _, req := range required {
		if req.amount > stock[req.kind] {
			gaps = append(gaps, models.ResourceGap{
				ResourceType: req.kind,
				Required:     req.amount,
				Available:    stock[req.kind],
				Gap:          req.amount - stock[req.kind],
			})
		}
	}
	return gaps
}
