package routing

import (
	"log"

	"relief-router/internal/graph"
	"relief-router/internal/models"
)

// PathTo returns the zones from the start to target. It returns an empty
// slice when target was not reached and a single zone when target is the start.
func (t *Tree) PathTo(target string) []string {
	if _, ok := t.Parent[target]; !ok {
		return []string{}
	}

	var path []string
	for cur := target; ; cur = t.Parent[cur] {
		path = append(path, cur)
		if cur == t.Start {
			break
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// RouteTo builds a Route to target. TotalDistanceKm is only set when reachable.
func (t *Tree) RouteTo(target string) models.Route {
	route := models.Route{
		Start:  t.Start,
		Target: target,
		Zones:  t.PathTo(target),
	}
	if len(route.Zones) > 0 {
		route.Reachable = true
		route.TotalDistanceKm = t.Dist[target]
	}
	return route
}

// FindRoute computes the shortest safe route between two zones.
func FindRoute(g *graph.Graph, start, target string, blocked graph.EdgeSet) models.Route {
	tree := ShortestPaths(g, start, blocked)
	route := tree.RouteTo(target)

	if route.Reachable {
		log.Printf("[ROUTING] Route %s->%s: hops=%d distance=%.2fkm blocked=%d", start, target, len(route.Zones)-1, route.TotalDistanceKm, len(blocked))
	} else {
		log.Printf("[ROUTING] No safe route %s->%s: reached=%d blocked=%d", start, target, len(tree.Dist), len(blocked))
	}
	return route
}
