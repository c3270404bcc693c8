package graph

import (
	"fmt"
	"sort"
	"strings"

	"relief-router/internal/models"
)

// EdgeKey is an unordered zone pair, stored with A <= B.
type EdgeKey struct {
	A, B string
}

// Key normalises a zone pair so that {a,b} and {b,a} compare equal.
func Key(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// String renders the pair as "A-B".
func (k EdgeKey) String() string {
	return k.A + models.PairSeparator + k.B
}

// ParseKey parses the "A-B" form produced by String. Exactly one separator
// is accepted, so ids containing it are rejected instead of split.
func ParseKey(s string) (EdgeKey, error) {
	parts := strings.Split(s, models.PairSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return EdgeKey{}, fmt.Errorf("invalid edge %q: expected FROM-TO", s)
	}
	return Key(parts[0], parts[1]), nil
}

// EdgeSet is a set of unordered zone pairs, used for blocked roads.
// Pairs that match no road are harmless.
type EdgeSet map[EdgeKey]struct{}

// NewEdgeSet builds a set from the given pairs.
func NewEdgeSet(keys ...EdgeKey) EdgeSet {
	s := make(EdgeSet, len(keys))
	for _, k := range keys {
		s[Key(k.A, k.B)] = struct{}{}
	}
	return s
}

// Add inserts the unordered pair {a,b}.
func (s EdgeSet) Add(a, b string) {
	s[Key(a, b)] = struct{}{}
}

// Contains reports whether the unordered pair {a,b} is in the set. A nil set is empty.
func (s EdgeSet) Contains(a, b string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[Key(a, b)]
	return ok
}

// Union returns a new set holding the pairs of s and other.
func (s EdgeSet) Union(other EdgeSet) EdgeSet {
	out := make(EdgeSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the pairs in a stable order.
func (s EdgeSet) Sorted() []EdgeKey {
	keys := make([]EdgeKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}

// FromClosures builds the blocked set for a list of road closures.
func FromClosures(closures []models.Closure) EdgeSet {
	s := make(EdgeSet, len(closures))
	for _, c := range closures {
		s.Add(c.ZoneA, c.ZoneB)
	}
	return s
}
