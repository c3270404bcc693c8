package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"relief-router/internal/database"
	"relief-router/internal/models"
)

// HandleListZones handles GET /api/v1/zones
func (h *Handler) HandleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.DB.Zones().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"zones": zones})
}

// HandleGetZone handles GET /api/v1/zones/{id}
func (h *Handler) HandleGetZone(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	zone, err := h.DB.Zones().GetByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, "zone "+id)
		return
	}
	h.writeJSON(w, http.StatusOK, zone)
}

// HandleCreateZone handles POST /api/v1/zones
func (h *Handler) HandleCreateZone(w http.ResponseWriter, r *http.Request) {
	var z models.Zone
	if err := decodeJSON(r, &z); err != nil {
		log.Printf("[HTTP] POST /api/v1/zones: invalid_json err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if err := database.ValidateZone(&z); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}

	created, err := h.DB.Zones().Create(r.Context(), &z)
	if err != nil {
		h.handleStoreError(w, err, "zone "+z.ID)
		return
	}
	log.Printf("[HTTP] POST /api/v1/zones: created zone=%s population=%d risk=%d", z.ID, z.Population, z.RiskLevel)
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateZone handles PUT /api/v1/zones/{id}
func (h *Handler) HandleUpdateZone(w http.ResponseWriter, r *http.Request) {
	var z models.Zone
	if err := decodeJSON(r, &z); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	z.ID = mux.Vars(r)["id"]
	if err := database.ValidateZone(&z); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}

	updated, err := h.DB.Zones().Update(r.Context(), &z)
	if err != nil {
		h.handleStoreError(w, err, "zone "+z.ID)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteZone handles DELETE /api/v1/zones/{id}
func (h *Handler) HandleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.DB.Zones().Delete(r.Context(), id); err != nil {
		h.handleStoreError(w, err, "zone "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListRoads handles GET /api/v1/roads
func (h *Handler) HandleListRoads(w http.ResponseWriter, r *http.Request) {
	roads, err := h.DB.Roads().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"roads": roads})
}

// HandleCreateRoad handles POST /api/v1/roads
func (h *Handler) HandleCreateRoad(w http.ResponseWriter, r *http.Request) {
	var road models.Road
	if err := decodeJSON(r, &road); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if err := database.ValidateRoad(&road); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}

	created, err := h.DB.Roads().Create(r.Context(), &road)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleDeleteRoad handles DELETE /api/v1/roads/{id}
func (h *Handler) HandleDeleteRoad(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.handleValidationError(w, "Invalid road ID")
		return
	}
	if err := h.DB.Roads().Delete(r.Context(), id); err != nil {
		h.handleStoreError(w, err, "road")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListShelters handles GET /api/v1/shelters
func (h *Handler) HandleListShelters(w http.ResponseWriter, r *http.Request) {
	shelters, err := h.DB.Shelters().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"shelters": shelters})
}

// HandleCreateShelter handles POST /api/v1/shelters
func (h *Handler) HandleCreateShelter(w http.ResponseWriter, r *http.Request) {
	var s models.Shelter
	if err := decodeJSON(r, &s); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if err := database.ValidateShelter(&s); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}

	if _, err := h.DB.Zones().GetByID(r.Context(), s.ZoneID); err != nil {
		if h.checkNotFound(err) {
			h.handleValidationError(w, "Shelter zone "+s.ZoneID+" does not exist")
			return
		}
		h.handleInternalError(w, err)
		return
	}

	created, err := h.DB.Shelters().Create(r.Context(), &s)
	if err != nil {
		h.handleStoreError(w, err, "shelter "+s.ID)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleDeleteShelter handles DELETE /api/v1/shelters/{id}
func (h *Handler) HandleDeleteShelter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.DB.Shelters().Delete(r.Context(), id); err != nil {
		h.handleStoreError(w, err, "shelter "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListResources handles GET /api/v1/resources
func (h *Handler) HandleListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.DB.Resources().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"resources": resources})
}

// HandleSetResource handles PUT /api/v1/resources
func (h *Handler) HandleSetResource(w http.ResponseWriter, r *http.Request) {
	var res models.Resource
	if err := decodeJSON(r, &res); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if err := database.ValidateResource(&res); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}
	if err := h.DB.Resources().Set(r.Context(), &res); err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// DisasterInfo lists the road closures of one disaster type
type DisasterInfo struct {
	Disaster models.DisasterType `json:"disaster"`
	Closures []models.Closure    `json:"closures"`
}

// HandleListDisasters handles GET /api/v1/disasters
func (h *Handler) HandleListDisasters(w http.ResponseWriter, r *http.Request) {
	closures, err := h.DB.Closures().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"disasters": groupClosures(closures)})
}

func groupClosures(closures []models.Closure) []DisasterInfo {
	byType := make(map[models.DisasterType][]models.Closure)
	for _, c := range closures {
		byType[c.Disaster] = append(byType[c.Disaster], c)
	}

	infos := make([]DisasterInfo, 0, len(byType))
	for d, cs := range byType {
		infos = append(infos, DisasterInfo{Disaster: d, Closures: cs})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Disaster < infos[j].Disaster })
	return infos
}

// HandleCreateClosure handles POST /api/v1/disasters/closures
func (h *Handler) HandleCreateClosure(w http.ResponseWriter, r *http.Request) {
	var c models.Closure
	if err := decodeJSON(r, &c); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if err := database.ValidateClosure(&c); err != nil {
		h.handleValidationError(w, err.Error())
		return
	}

	created, err := h.DB.Closures().Create(r.Context(), &c)
	if err != nil {
		h.handleStoreError(w, err, "closure")
		return
	}
	log.Printf("[HTTP] POST /api/v1/disasters/closures: disaster=%s road=%s-%s", c.Disaster, c.ZoneA, c.ZoneB)
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleDeleteClosure handles DELETE /api/v1/disasters/closures/{id}
func (h *Handler) HandleDeleteClosure(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.handleValidationError(w, "Invalid closure ID")
		return
	}
	if err := h.DB.Closures().Delete(r.Context(), id); err != nil {
		h.handleStoreError(w, err, "closure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
