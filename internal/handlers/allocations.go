package handlers

import (
	"log"
	"net/http"

	"relief-router/internal/allocation"
	"relief-router/internal/models"
)

// AffectedRequest names the zones hit by the disaster
type AffectedRequest struct {
	Affected []string `json:"affected"`
	// UseRemaining subtracts people already rescued by approved missions
	UseRemaining bool `json:"use_remaining"`
}

// AllocationResponse lists allocation decisions in the order they were made
type AllocationResponse struct {
	Allocations []models.AllocationRecord `json:"allocations"`
	Totals      []allocation.ZoneTotals   `json:"totals"`
	ShelterLoad map[string]int            `json:"shelter_load"`
	Housed      int                       `json:"housed"`
	Unmet       int                       `json:"unmet"`
}

// SuppliesResponse lists per-zone needs and shortfalls in stock
type SuppliesResponse struct {
	Zones []allocation.ZoneSupplies `json:"zones"`
	Gaps  []models.ResourceGap      `json:"gaps"`
}

// HandlePriority handles POST /api/v1/priority
func (h *Handler) HandlePriority(w http.ResponseWriter, r *http.Request) {
	var req AffectedRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}

	zones, err := h.DB.Zones().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	priority := allocation.RankZones(zones, affectedSet(req.Affected))
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"priority": priority})
}

// HandleAllocate handles POST /api/v1/allocations
func (h *Handler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	var req AffectedRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Printf("[HTTP] POST /api/v1/allocations: invalid_json err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}

	h.allocMu.Lock()
	defer h.allocMu.Unlock()

	c, err := h.loadCity(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	zones := c.zones
	if req.UseRemaining && h.Missions != nil {
		zones = h.Missions.Ledger().Apply(zones)
	}

	log.Printf("[ALLOC] Allocating shelters: affected=%d shelters=%d use_remaining=%v", len(req.Affected), len(c.shelters), req.UseRemaining)
	records := allocation.AllocateShelters(zones, c.shelters, affectedSet(req.Affected))

	resp := AllocationResponse{
		Allocations: records,
		Totals:      allocation.Summarize(records),
		ShelterLoad: allocation.ShelterUsage(records),
	}
	for _, t := range resp.Totals {
		resp.Housed += t.Housed
		resp.Unmet += t.Unmet
	}
	log.Printf("[ALLOC] Done: records=%d housed=%d unmet=%d", len(records), resp.Housed, resp.Unmet)

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleSupplies handles POST /api/v1/supplies
func (h *Handler) HandleSupplies(w http.ResponseWriter, r *http.Request) {
	var req AffectedRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}

	c, err := h.loadCity(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	zones := c.zones
	if req.UseRemaining && h.Missions != nil {
		zones = h.Missions.Ledger().Apply(zones)
	}
	affected := affectedSet(req.Affected)

	h.writeJSON(w, http.StatusOK, SuppliesResponse{
		Zones: allocation.SupplyPlan(zones, affected),
		Gaps:  allocation.DetectGaps(zones, c.resources, affected),
	})
}
