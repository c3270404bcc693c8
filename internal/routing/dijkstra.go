// Package routing computes shortest safe routes over the road graph.
package routing

import (
	"relief-router/internal/graph"
)

// Tree is the result of a single-source search. Zones missing from Dist
// were not reached. Parent of the start zone is the empty string.
type Tree struct {
	Start  string
	Dist   map[string]float64
	Parent map[string]string
}

// ShortestPaths runs Dijkstra from start, ignoring every road whose
// unordered zone pair is in blocked. Road weights must be non-negative.
//
// The frontier holds duplicate entries instead of decreasing keys; entries
// whose distance is above the recorded best are skipped when popped.
func ShortestPaths(g *graph.Graph, start string, blocked graph.EdgeSet) *Tree {
	t := &Tree{
		Start:  start,
		Dist:   map[string]float64{start: 0},
		Parent: map[string]string{start: ""},
	}

	pq := &minHeap{}
	pq.Push(start, 0)

	for pq.Len() > 0 {
		cur := pq.Pop()
		if cur.dist != t.Dist[cur.zone] {
			continue // stale
		}

		for _, e := range g.Neighbors(cur.zone) {
			if blocked.Contains(cur.zone, e.To) {
				continue
			}
			next := cur.dist + e.Weight
			if best, seen := t.Dist[e.To]; seen && next >= best {
				continue
			}
			t.Dist[e.To] = next
			t.Parent[e.To] = cur.zone
			pq.Push(e.To, next)
		}
	}

	return t
}

// Reachable reports whether the search reached the zone.
func (t *Tree) Reachable(zone string) bool {
	_, ok := t.Dist[zone]
	return ok
}
