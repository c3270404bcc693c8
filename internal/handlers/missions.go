package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"relief-router/internal/models"
)

// DefaultRescueBatch is how many people one approved mission evacuates
const DefaultRescueBatch = 500

// MissionLog keeps approved rescue missions and the rescued-per-zone ledger
// in memory for the lifetime of the process.
type MissionLog struct {
	missions []models.Mission
	ledger   models.RescueLedger
	mu       sync.RWMutex
}

// NewMissionLog creates an empty mission log
func NewMissionLog() *MissionLog {
	return &MissionLog{
		ledger: models.RescueLedger{},
	}
}

// Approve records a mission for the zone and credits the rescued people,
// capped at the people still stranded there.
func (l *MissionLog) Approve(zone *models.Zone, disaster models.DisasterType, people int) models.Mission {
	l.mu.Lock()
	defer l.mu.Unlock()

	rescued := l.ledger.Record(zone, people)
	status := "In Progress"
	if l.ledger.Remaining(zone) == 0 {
		status = "Zone Cleared"
	}

	m := models.Mission{
		ID:         uuid.NewString(),
		ZoneID:     zone.ID,
		Disaster:   disaster,
		Rescued:    rescued,
		Status:     status,
		ApprovedAt: time.Now().UTC(),
	}
	l.missions = append(l.missions, m)

	log.Printf("[SESSION] Approved mission: id=%s zone=%s disaster=%s rescued=%d total=%d", m.ID, zone.ID, disaster, rescued, l.ledger[zone.ID])
	return m
}

// Recent returns up to limit most recent missions, oldest first. limit <= 0 returns all.
func (l *MissionLog) Recent(limit int) []models.Mission {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := 0
	if limit > 0 && len(l.missions) > limit {
		start = len(l.missions) - limit
	}
	out := make([]models.Mission, len(l.missions)-start)
	copy(out, l.missions[start:])
	return out
}

// Count returns the number of approved missions
func (l *MissionLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.missions)
}

// Ledger returns a copy of the rescued-per-zone ledger
func (l *MissionLog) Ledger() models.RescueLedger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(models.RescueLedger, len(l.ledger))
	for k, v := range l.ledger {
		out[k] = v
	}
	return out
}

// Reset forgets all missions and rescues
func (l *MissionLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.missions = nil
	l.ledger = models.RescueLedger{}
	log.Printf("[SESSION] Mission log reset")
}

// ApproveMissionRequest approves a rescue for a zone
type ApproveMissionRequest struct {
	ZoneID   string              `json:"zone_id"`
	Disaster models.DisasterType `json:"disaster"`
	People   int                 `json:"people"`
}

// HandleListMissions handles GET /api/v1/missions?limit=N
func (h *Handler) HandleListMissions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.handleValidationError(w, "Invalid limit")
			return
		}
		limit = n
	}

	ledger := h.Missions.Ledger()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"missions":      h.Missions.Recent(limit),
		"count":         h.Missions.Count(),
		"rescued":       ledger,
		"total_rescued": ledger.Total(),
	})
}

// HandleApproveMission handles POST /api/v1/missions
func (h *Handler) HandleApproveMission(w http.ResponseWriter, r *http.Request) {
	var req ApproveMissionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if req.ZoneID == "" {
		h.handleValidationError(w, "zone_id is required")
		return
	}
	if req.People < 0 {
		h.handleValidationError(w, "people must not be negative")
		return
	}
	if req.People == 0 {
		req.People = DefaultRescueBatch
	}

	zone, err := h.DB.Zones().GetByID(r.Context(), req.ZoneID)
	if err != nil {
		h.handleStoreError(w, err, "zone "+req.ZoneID)
		return
	}

	mission := h.Missions.Approve(zone, req.Disaster, req.People)
	h.writeJSON(w, http.StatusCreated, mission)
}

// HandleResetMissions handles DELETE /api/v1/missions
func (h *Handler) HandleResetMissions(w http.ResponseWriter, r *http.Request) {
	h.Missions.Reset()
	w.WriteHeader(http.StatusNoContent)
}
