package handlers

import (
	"net/http"
	"strings"

	"relief-router/internal/allocation"
	"relief-router/internal/graph"
	"relief-router/internal/models"
	"relief-router/internal/routing"
)

// ZoneCard is one zone tile on the dashboard
type ZoneCard struct {
	Zone      models.Zone
	Status    models.ZoneStatus
	Remaining int
}

// DashboardData is the view model of the commander dashboard
type DashboardData struct {
	Title          string
	Disaster       models.DisasterType
	Disasters      []models.DisasterType
	Affected       []string
	CommandCenter  string
	Zones          []ZoneCard
	PopulationRisk int
	Priority       []models.PriorityEntry
	Actions        []string
	Routes         []models.Route
	Supplies       []allocation.ZoneSupplies
	Gaps           []models.ResourceGap
	Allocations    []models.AllocationRecord
	Missions       []models.Mission
	MissionCount   int
	TotalRescued   int
	ZonesSafe      int
}

// parseAffected accepts ?affected=Z1&affected=Z2 and ?affected=Z1,Z2
func parseAffected(values []string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// HandleDashboard handles GET /
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	c, err := h.loadCity(ctx)
	if err != nil {
		h.renderError(w, err)
		return
	}
	closures, err := h.DB.Closures().List(ctx)
	if err != nil {
		h.renderError(w, err)
		return
	}

	disaster := models.DisasterType(q.Get("disaster"))
	affectedIDs := parseAffected(q["affected"])
	affected := affectedSet(affectedIDs)
	ledger := h.Missions.Ledger()
	remaining := ledger.Apply(c.zones)

	data := DashboardData{
		Title:         "Commander Dashboard",
		Disaster:      disaster,
		Affected:      affectedIDs,
		CommandCenter: h.CommandCenter,
		Priority:      allocation.RankZones(c.zones, affected),
		Actions:       models.RescueActions(disaster),
		Supplies:      allocation.SupplyPlan(remaining, affected),
		Gaps:          allocation.DetectGaps(remaining, c.resources, affected),
		Missions:      h.Missions.Recent(5),
		MissionCount:  h.Missions.Count(),
		TotalRescued:  ledger.Total(),
	}
	for _, g := range groupClosures(closures) {
		data.Disasters = append(data.Disasters, g.Disaster)
	}

	for i, z := range c.zones {
		card := ZoneCard{Zone: z, Status: z.Status(affected[z.ID]), Remaining: remaining[i].Population}
		if card.Status == models.ZoneStatusSafe {
			data.ZonesSafe++
		}
		if affected[z.ID] {
			data.PopulationRisk += z.Population
		}
		data.Zones = append(data.Zones, card)
	}

	h.allocMu.Lock()
	data.Allocations = allocation.AllocateShelters(remaining, c.shelters, affected)
	h.allocMu.Unlock()

	if h.CommandCenter != "" && len(affectedIDs) > 0 {
		var closed []graph.EdgeKey
		for _, cl := range closures {
			if disaster != models.DisasterNone && cl.Disaster == disaster {
				closed = append(closed, graph.Key(cl.ZoneA, cl.ZoneB))
			}
		}
		tree := routing.ShortestPaths(graph.Build(c.roads), h.CommandCenter, graph.NewEdgeSet(closed...))
		for _, p := range data.Priority {
			data.Routes = append(data.Routes, tree.RouteTo(p.ZoneID))
		}
	}

	h.renderTemplate(w, "dashboard.html", data)
}
