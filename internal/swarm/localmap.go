package swarm

import "mazeswarm.ai/internal/grid"

// LocalMap is an agent's record of discovered cells and the adjacency
// between them. Keys are never removed: "present in the map" is the
// single source of truth for "already explored", which both merge and
// frontier pruning depend on.
type LocalMap struct {
	nodes map[grid.Cell]map[grid.Cell]struct{}
}

func NewLocalMap() *LocalMap {
	return &LocalMap{nodes: map[grid.Cell]map[grid.Cell]struct{}{}}
}

// Record ensures c is a map key. Reports whether it was newly added.
func (m *LocalMap) Record(c grid.Cell) bool {
	if _, ok := m.nodes[c]; ok {
		return false
	}
	m.nodes[c] = map[grid.Cell]struct{}{}
	return true
}

// Link records a bidirectional edge between two mapped cells.
// Unknown endpoints are recorded first.
func (m *LocalMap) Link(a, b grid.Cell) {
	m.Record(a)
	m.Record(b)
	m.nodes[a][b] = struct{}{}
	m.nodes[b][a] = struct{}{}
}

func (m *LocalMap) Contains(c grid.Cell) bool {
	_, ok := m.nodes[c]
	return ok
}

func (m *LocalMap) Len() int { return len(m.nodes) }

// Degree returns the number of recorded neighbors of c.
func (m *LocalMap) Degree(c grid.Cell) int { return len(m.nodes[c]) }
