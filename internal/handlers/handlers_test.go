package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-router/internal/database"
	"relief-router/internal/models"
	"relief-router/internal/sqlite"
	"relief-router/internal/testutil"
)

func setupTestHandler(t *testing.T) *Handler {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	city := &database.CityData{
		Zones:     testutil.PentagonZones(),
		Roads:     testutil.PentagonRoads(),
		Shelters:  testutil.PentagonShelters(),
		Resources: testutil.PentagonResources(),
	}
	require.NoError(t, database.Seed(context.Background(), store, city))

	base := template.Must(template.New("layout.html").Parse(`<html>{{template "content" .}}</html>`))
	return &Handler{
		DB:            store,
		Missions:      NewMissionLog(),
		CommandCenter: "Z1",
		Templates: &TemplateSet{
			Base: base,
			Pages: map[string]string{
				"dashboard.html": `{{define "content"}}{{range .Priority}}<p>{{.ZoneID}}</p>{{end}}{{range .Routes}}<r>{{.Target}}:{{.Reachable}}</r>{{end}}{{range .Actions}}<a>{{.}}</a>{{end}}{{end}}`,
			},
		},
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthCheck(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "connected", resp["database"])
}

func TestListZones(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleListZones(w, httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Zones []models.Zone `json:"zones"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, testutil.PentagonZones(), resp.Zones)
}

func TestGetZoneNotFound(t *testing.T) {
	h := setupTestHandler(t)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/zones/Z99", nil), map[string]string{"id": "Z99"})
	w := httptest.NewRecorder()

	h.HandleGetZone(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestCreateZoneValidation(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"valid", models.Zone{ID: "Z6", Name: "Harbor", Population: 300, RiskLevel: 2}, http.StatusCreated},
		{"negative population", models.Zone{ID: "Z7", Population: -1}, http.StatusBadRequest},
		{"missing id", models.Zone{Population: 10}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.HandleCreateZone(w, jsonRequest(t, http.MethodPost, "/api/v1/zones", tt.body))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreateRoadRejectsNegativeDistance(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleCreateRoad(w, jsonRequest(t, http.MethodPost, "/api/v1/roads", models.Road{FromZone: "Z1", ToZone: "Z4", DistanceKm: -3}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateShelterRequiresKnownZone(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleCreateShelter(w, jsonRequest(t, http.MethodPost, "/api/v1/shelters", models.Shelter{ID: "S9", ZoneID: "Z42", Capacity: 10}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Z42")
}

func TestRouteBlockedDiagonal(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleRoute(w, jsonRequest(t, http.MethodPost, "/api/v1/routes", RouteRequest{
		Target:  "Z3",
		Blocked: [][2]string{{"Z3", "Z1"}},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RouteResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Z1", resp.Start)
	assert.Equal(t, []string{"Z1", "Z2", "Z3"}, resp.Zones)
	assert.Equal(t, 7.0, resp.TotalDistanceKm)
	assert.Equal(t, []string{"Z1-Z3"}, resp.Blocked)
}

func TestRouteUsesDisasterClosures(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	// Earthquake closes Z1-Z3
	h.HandleRoute(w, jsonRequest(t, http.MethodPost, "/api/v1/routes", RouteRequest{
		Start:    "Z1",
		Target:   "Z3",
		Disaster: models.DisasterEarthquake,
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RouteResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, []string{"Z1", "Z2", "Z3"}, resp.Zones)
	assert.Contains(t, resp.Blocked, "Z1-Z3")
}

func TestRouteNoSafeRoute(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleRoute(w, jsonRequest(t, http.MethodPost, "/api/v1/routes", RouteRequest{
		Start:   "Z1",
		Target:  "Z4",
		Blocked: [][2]string{{"Z3", "Z4"}, {"Z4", "Z5"}},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "NO_ROUTE", resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, details["target_on_network"])
}

func TestRouteDisasterAndAdhocBlocksCombine(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	// Flood closes Z3-Z4, the ad-hoc block closes Z4-Z5
	h.HandleRoute(w, jsonRequest(t, http.MethodPost, "/api/v1/routes", RouteRequest{
		Target:   "Z4",
		Disaster: models.DisasterFlood,
		Blocked:  [][2]string{{"Z5", "Z4"}},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"Z3-Z4"`)
	assert.Contains(t, w.Body.String(), `"Z4-Z5"`)
}

func TestRouteRequiresTarget(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleRoute(w, jsonRequest(t, http.MethodPost, "/api/v1/routes", RouteRequest{Start: "Z1"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteTree(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleRouteTree(w, jsonRequest(t, http.MethodPost, "/api/v1/routes/tree", RouteRequest{
		Blocked: [][2]string{{"Z3", "Z4"}, {"Z5", "Z1"}},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp TreeResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, map[string]float64{"Z1": 0, "Z2": 4, "Z3": 6}, resp.Distances)
	assert.Equal(t, []string{"Z4", "Z5"}, resp.Unreached)
	assert.Equal(t, "", resp.Parents["Z1"])
	assert.Equal(t, "Z1", resp.Parents["Z3"])
}

func TestGraphDOT(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleGraphDOT(w, httptest.NewRequest(http.MethodGet, "/api/v1/graph.dot?disaster=Flood&target=Z4", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "graph {"))
	assert.Contains(t, body, `"Z3" -- "Z4" [label="5km", color=red`)
	assert.Contains(t, body, `"Z5" -- "Z1" [label="6km", color=darkgreen`)
}

func TestGraphDOTInvalidBlocked(t *testing.T) {
	h := setupTestHandler(t)

	for _, blocked := range []string{"Z1", "Z-1-Z-2"} {
		w := httptest.NewRecorder()
		h.HandleGraphDOT(w, httptest.NewRequest(http.MethodGet, "/api/v1/graph.dot?blocked="+blocked, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, blocked)
	}
}

func TestCreateRejectsHyphenatedZoneIDs(t *testing.T) {
	h := setupTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleCreateZone(w, jsonRequest(t, http.MethodPost, "/api/v1/zones", models.Zone{ID: "Z-1", Population: 10}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.HandleCreateRoad(w, jsonRequest(t, http.MethodPost, "/api/v1/roads", models.Road{FromZone: "Z-1", ToZone: "Z-2", DistanceKm: 1}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.HandleCreateClosure(w, jsonRequest(t, http.MethodPost, "/api/v1/disasters/closures", models.Closure{Disaster: models.DisasterFire, ZoneA: "Z-1", ZoneB: "Z2"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDuplicatesConflict(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name   string
		handle http.HandlerFunc
		body   interface{}
	}{
		{"zone", h.HandleCreateZone, models.Zone{ID: "Z1", Name: "Central Market", Population: 1000, RiskLevel: 5}},
		{"shelter", h.HandleCreateShelter, models.Shelter{ID: "S1", ZoneID: "Z1", Capacity: 500}},
		{"closure", h.HandleCreateClosure, models.Closure{Disaster: models.DisasterFlood, ZoneA: "Z4", ZoneB: "Z3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handle(w, jsonRequest(t, http.MethodPost, "/", tt.body))

			assert.Equal(t, http.StatusConflict, w.Code)
			var resp ErrorResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, "CONFLICT", resp.Error.Code)
		})
	}
}

func TestPriority(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandlePriority(w, jsonRequest(t, http.MethodPost, "/api/v1/priority", AffectedRequest{Affected: []string{"Z2", "Z4", "Z1"}}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Priority []models.PriorityEntry `json:"priority"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Priority, 3)
	assert.Equal(t, "Z1", resp.Priority[0].ZoneID)
	assert.Equal(t, "Z4", resp.Priority[1].ZoneID)
	assert.Equal(t, "Z2", resp.Priority[2].ZoneID)
}

func TestAllocate(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleAllocate(w, jsonRequest(t, http.MethodPost, "/api/v1/allocations", AffectedRequest{Affected: []string{"Z4", "Z3", "Z5"}}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp AllocationResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 2700, resp.Housed)
	assert.Equal(t, 600, resp.Unmet)
	require.Len(t, resp.Allocations, 5)
	// zone load order, not request order, decides first pick
	assert.Equal(t, "Z3", resp.Allocations[0].ZoneID)
	assert.True(t, resp.Allocations[4].IsUnmet())
	assert.Equal(t, map[string]int{"S1": 500, "S2": 1000, "S3": 800, "S4": 400}, resp.ShelterLoad)
}

func TestAllocateRunsAreIndependent(t *testing.T) {
	h := setupTestHandler(t)

	var first, second AllocationResponse
	for _, out := range []*AllocationResponse{&first, &second} {
		w := httptest.NewRecorder()
		h.HandleAllocate(w, jsonRequest(t, http.MethodPost, "/api/v1/allocations", AffectedRequest{Affected: []string{"Z3"}}))
		require.Equal(t, http.StatusOK, w.Code)
		decodeBody(t, w, out)
	}
	assert.Equal(t, first, second)
}

func TestAllocateUseRemaining(t *testing.T) {
	h := setupTestHandler(t)
	zone := testutil.PentagonZones()[4] // Z5, 600 people
	h.Missions.Approve(&zone, models.DisasterFlood, 500)

	w := httptest.NewRecorder()
	h.HandleAllocate(w, jsonRequest(t, http.MethodPost, "/api/v1/allocations", AffectedRequest{Affected: []string{"Z5"}, UseRemaining: true}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp AllocationResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 100, resp.Housed)
	assert.Equal(t, 0, resp.Unmet)
}

func TestSupplies(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleSupplies(w, jsonRequest(t, http.MethodPost, "/api/v1/supplies", AffectedRequest{Affected: []string{"Z1", "Z2", "Z3", "Z4", "Z5"}}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SuppliesResponse
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Zones, 5)
	assert.Equal(t, models.Supplies{FoodPackets: 2000, FirstAidKits: 100}, resp.Zones[0].Needs)
	require.Len(t, resp.Gaps, 2)
	assert.Equal(t, 5200, resp.Gaps[0].Gap)
}

func TestMissions(t *testing.T) {
	h := setupTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleApproveMission(w, jsonRequest(t, http.MethodPost, "/api/v1/missions", ApproveMissionRequest{ZoneID: "Z5", Disaster: models.DisasterFlood}))
	require.Equal(t, http.StatusCreated, w.Code)
	var m models.Mission
	decodeBody(t, w, &m)
	assert.Equal(t, DefaultRescueBatch, m.Rescued)
	_, err := uuid.Parse(m.ID)
	assert.NoError(t, err)
	assert.Equal(t, "In Progress", m.Status)

	w = httptest.NewRecorder()
	h.HandleApproveMission(w, jsonRequest(t, http.MethodPost, "/api/v1/missions", ApproveMissionRequest{ZoneID: "Z5"}))
	decodeBody(t, w, &m)
	assert.Equal(t, 100, m.Rescued)
	assert.Equal(t, "Zone Cleared", m.Status)

	w = httptest.NewRecorder()
	h.HandleListMissions(w, httptest.NewRequest(http.MethodGet, "/api/v1/missions?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Missions     []models.Mission `json:"missions"`
		Count        int              `json:"count"`
		TotalRescued int              `json:"total_rescued"`
	}
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Missions, 1)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 600, resp.TotalRescued)

	w = httptest.NewRecorder()
	h.HandleResetMissions(w, httptest.NewRequest(http.MethodDelete, "/api/v1/missions", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, h.Missions.Count())
}

func TestApproveMissionUnknownZone(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleApproveMission(w, jsonRequest(t, http.MethodPost, "/api/v1/missions", ApproveMissionRequest{ZoneID: "Z99"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDisasters(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleListDisasters(w, httptest.NewRequest(http.MethodGet, "/api/v1/disasters", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Disasters []DisasterInfo `json:"disasters"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Disasters, 3)
	assert.Equal(t, models.DisasterEarthquake, resp.Disasters[0].Disaster)
	assert.Len(t, resp.Disasters[0].Closures, 2)
}

func TestDashboard(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/?affected=Z4,Z3&disaster=Flood", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<p>Z3</p><p>Z4</p>")
	assert.Contains(t, body, "<r>Z4:true</r>")
	assert.Contains(t, body, "<a>Deploy water rescue boats</a>")
}

func TestDashboardEarthquakeOperations(t *testing.T) {
	h := setupTestHandler(t)
	w := httptest.NewRecorder()

	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/?affected=Z3&disaster=Earthquake", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<a>Deploy debris rescue team</a>")
	assert.NotContains(t, w.Body.String(), "helicopter")
}

func TestParseAffected(t *testing.T) {
	assert.Equal(t, []string{"Z1", "Z2", "Z3"}, parseAffected([]string{"Z1,Z2", " Z3 ", "Z1", ""}))
	assert.Nil(t, parseAffected(nil))
}
