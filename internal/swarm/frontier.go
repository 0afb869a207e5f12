package swarm

import (
	"math/rand"

	"mazeswarm.ai/internal/grid"
)

// FrontierSet holds cells known to be open and adjacent to a mapped
// cell but not yet mapped themselves. Insertion order is kept so that
// iteration is deterministic; selection re-ranks by true distance
// anyway.
type FrontierSet struct {
	order  []grid.Cell
	member map[grid.Cell]bool
}

func NewFrontierSet() *FrontierSet {
	return &FrontierSet{member: map[grid.Cell]bool{}}
}

// Add inserts c if absent. Reports whether it was newly added.
func (s *FrontierSet) Add(c grid.Cell) bool {
	if s.member[c] {
		return false
	}
	s.member[c] = true
	s.order = append(s.order, c)
	return true
}

func (s *FrontierSet) Contains(c grid.Cell) bool { return s.member[c] }

func (s *FrontierSet) Len() int { return len(s.order) }

// Prune drops every frontier that has since become a LocalMap key.
// Run each tick before selection so no one chases an explored cell.
func (s *FrontierSet) Prune(m *LocalMap) {
	kept := s.order[:0]
	for _, c := range s.order {
		if m.Contains(c) {
			delete(s.member, c)
			continue
		}
		kept = append(kept, c)
	}
	s.order = kept
}

// All returns the frontiers in insertion order. The slice is a copy.
func (s *FrontierSet) All() []grid.Cell {
	out := make([]grid.Cell, len(s.order))
	copy(out, s.order)
	return out
}

// Random picks a uniformly random frontier, or ok=false if empty.
func (s *FrontierSet) Random(r *rand.Rand) (grid.Cell, bool) {
	if len(s.order) == 0 {
		return grid.Cell{}, false
	}
	return s.order[r.Intn(len(s.order))], true
}
