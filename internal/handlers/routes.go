package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"relief-router/internal/graph"
	"relief-router/internal/models"
	"relief-router/internal/routing"
	"relief-router/internal/visualize"
)

// RouteRequest asks for the shortest safe route from Start (the command
// center when empty) to Target. Blocked pairs are added to the closures of
// Disaster.
type RouteRequest struct {
	Start    string              `json:"start"`
	Target   string              `json:"target"`
	Disaster models.DisasterType `json:"disaster"`
	Blocked  [][2]string         `json:"blocked"`
}

// RouteResponse is the route plus the blocked roads it avoided
type RouteResponse struct {
	models.Route
	Blocked []string `json:"blocked"`
}

// TreeResponse holds distances and predecessors for every reached zone.
// The start zone's parent is empty. Unreached lists road-network zones cut
// off from the start.
type TreeResponse struct {
	Start     string             `json:"start"`
	Distances map[string]float64 `json:"distances"`
	Parents   map[string]string  `json:"parents"`
	Unreached []string           `json:"unreached"`
	Blocked   []string           `json:"blocked"`
}

// blockedSet merges the closures of a disaster with ad-hoc blocked pairs
func (h *Handler) blockedSet(ctx context.Context, disaster models.DisasterType, extra [][2]string) (graph.EdgeSet, error) {
	adhoc := graph.EdgeSet{}
	for _, pair := range extra {
		adhoc.Add(pair[0], pair[1])
	}
	if disaster == models.DisasterNone {
		return adhoc, nil
	}

	closures, err := h.DB.Closures().ListByDisaster(ctx, disaster)
	if err != nil {
		return nil, err
	}
	return graph.FromClosures(closures).Union(adhoc), nil
}

func edgeStrings(s graph.EdgeSet) []string {
	keys := s.Sorted()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func (h *Handler) startZone(start string) string {
	if start == "" {
		return h.CommandCenter
	}
	return start
}

// HandleRoute handles POST /api/v1/routes
func (h *Handler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Printf("[HTTP] POST /api/v1/routes: invalid_json err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	req.Start = h.startZone(req.Start)
	if req.Start == "" || req.Target == "" {
		h.handleValidationError(w, "start and target zones are required")
		return
	}

	roads, err := h.DB.Roads().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	blocked, err := h.blockedSet(r.Context(), req.Disaster, req.Blocked)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	g := graph.Build(roads)
	route := routing.FindRoute(g, req.Start, req.Target, blocked)
	if !route.Reachable {
		h.handleNoRoute(w, route, edgeStrings(blocked), g.Has(req.Target))
		return
	}

	h.writeJSON(w, http.StatusOK, RouteResponse{Route: route, Blocked: edgeStrings(blocked)})
}

// HandleRouteTree handles POST /api/v1/routes/tree
func (h *Handler) HandleRouteTree(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	req.Start = h.startZone(req.Start)
	if req.Start == "" {
		h.handleValidationError(w, "start zone is required")
		return
	}

	roads, err := h.DB.Roads().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	blocked, err := h.blockedSet(r.Context(), req.Disaster, req.Blocked)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	g := graph.Build(roads)
	tree := routing.ShortestPaths(g, req.Start, blocked)

	unreached := []string{}
	for _, zone := range g.Nodes() {
		if !tree.Reachable(zone) {
			unreached = append(unreached, zone)
		}
	}
	log.Printf("[ROUTING] Tree from %s: roads=%d reached=%d unreached=%d blocked=%d",
		req.Start, g.NumRoads(), len(tree.Dist), len(unreached), len(blocked))

	h.writeJSON(w, http.StatusOK, TreeResponse{
		Start:     tree.Start,
		Distances: tree.Dist,
		Parents:   tree.Parent,
		Unreached: unreached,
		Blocked:   edgeStrings(blocked),
	})
}

// HandleGraphDOT handles GET /api/v1/graph.dot
//
// Query: disaster, blocked=A-B (repeatable), start and target to highlight a route.
func (h *Handler) HandleGraphDOT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var extra [][2]string
	for _, raw := range q["blocked"] {
		key, err := graph.ParseKey(raw)
		if err != nil {
			h.handleValidationError(w, err.Error())
			return
		}
		extra = append(extra, [2]string{key.A, key.B})
	}

	roads, err := h.DB.Roads().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	blocked, err := h.blockedSet(r.Context(), models.DisasterType(q.Get("disaster")), extra)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}

	var path []string
	if target := q.Get("target"); target != "" {
		start := h.startZone(q.Get("start"))
		path = routing.ShortestPaths(graph.Build(roads), start, blocked).PathTo(target)
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, visualize.NetworkDOT(roads, blocked, path))
}
