// Package graph holds the undirected road multigraph over zone identifiers.
package graph

import (
	"sort"

	"relief-router/internal/models"
)

// Edge is one directed adjacency entry.
type Edge struct {
	To     string
	Weight float64
}

// Graph maps each zone id to its adjacency list. Parallel roads are kept
// as separate entries in road input order.
type Graph struct {
	adj   map[string][]Edge
	roads int
}

// Build creates a Graph from road records. Every road contributes an entry
// in both directions. Zone ids are not checked against any zone list.
func Build(roads []models.Road) *Graph {
	g := &Graph{
		adj:   make(map[string][]Edge),
		roads: len(roads),
	}
	for _, r := range roads {
		g.adj[r.FromZone] = append(g.adj[r.FromZone], Edge{To: r.ToZone, Weight: r.DistanceKm})
		g.adj[r.ToZone] = append(g.adj[r.ToZone], Edge{To: r.FromZone, Weight: r.DistanceKm})
	}
	return g
}

// Neighbors returns the adjacency list of a zone. The slice must not be modified.
func (g *Graph) Neighbors(zone string) []Edge {
	return g.adj[zone]
}

// Has reports whether any road touches the zone.
func (g *Graph) Has(zone string) bool {
	_, ok := g.adj[zone]
	return ok
}

// Nodes returns all zone ids touched by a road, sorted.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.adj))
	for id := range g.adj {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// NumRoads returns the number of road records the graph was built from.
func (g *Graph) NumRoads() int { return g.roads }
