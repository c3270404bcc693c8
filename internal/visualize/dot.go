// Package visualize renders the road network as a Graphviz DOT diagram.
package visualize

import (
	"fmt"
	"strconv"
	"strings"

	"relief-router/internal/graph"
	"relief-router/internal/models"
)

type edgeStyle struct {
	color    string
	style    string
	penwidth int
}

var (
	styleNormal  = edgeStyle{color: "black", style: "solid", penwidth: 1}
	styleBlocked = edgeStyle{color: "red", style: "dashed", penwidth: 2}
	styleRoute   = edgeStyle{color: "darkgreen", style: "solid", penwidth: 4}
)

// NetworkDOT draws every road once. Blocked roads are red and dashed, roads
// along path are thick dark green, others are plain black. Blocking wins
// over the route highlight.
func NetworkDOT(roads []models.Road, blocked graph.EdgeSet, path []string) string {
	onPath := graph.EdgeSet{}
	for i := 0; i+1 < len(path); i++ {
		onPath.Add(path[i], path[i+1])
	}

	var b strings.Builder
	b.WriteString("graph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [style=filled, fillcolor=lightblue, shape=circle];\n")

	for _, r := range roads {
		st := styleNormal
		switch {
		case blocked.Contains(r.FromZone, r.ToZone):
			st = styleBlocked
		case onPath.Contains(r.FromZone, r.ToZone):
			st = styleRoute
		}
		fmt.Fprintf(&b, "  %q -- %q [label=\"%skm\", color=%s, style=%s, penwidth=%d];\n",
			r.FromZone, r.ToZone, strconv.FormatFloat(r.DistanceKm, 'f', -1, 64), st.color, st.style, st.penwidth)
	}

	b.WriteString("}")
	return b.String()
}
