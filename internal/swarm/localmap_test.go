package swarm

import (
	"testing"

	"mazeswarm.ai/internal/grid"
)

func TestLocalMapRecordIdempotent(t *testing.T) {
	m := NewLocalMap()
	c := grid.Cell{Row: 1, Col: 2}

	if !m.Record(c) {
		t.Fatalf("first Record should report new")
	}
	if m.Record(c) {
		t.Fatalf("second Record should report existing")
	}
	if m.Len() != 1 {
		t.Fatalf("len %d, want 1", m.Len())
	}
}

func TestLocalMapLinkBidirectional(t *testing.T) {
	m := NewLocalMap()
	a := grid.Cell{Row: 0, Col: 0}
	b := grid.Cell{Row: 0, Col: 1}

	m.Link(a, b)

	if !m.Contains(a) || !m.Contains(b) {
		t.Fatalf("Link should record both endpoints")
	}
	if m.Degree(a) != 1 || m.Degree(b) != 1 {
		t.Fatalf("degrees %d/%d, want 1/1", m.Degree(a), m.Degree(b))
	}

	// Re-linking changes nothing.
	m.Link(b, a)
	if m.Degree(a) != 1 || m.Degree(b) != 1 {
		t.Fatalf("re-link changed degrees to %d/%d", m.Degree(a), m.Degree(b))
	}
}

func TestFrontierPruneDropsMapped(t *testing.T) {
	m := NewLocalMap()
	s := NewFrontierSet()
	a := grid.Cell{Row: 0, Col: 1}
	b := grid.Cell{Row: 1, Col: 0}

	s.Add(a)
	s.Add(b)
	m.Record(a)

	s.Prune(m)

	if s.Contains(a) {
		t.Fatalf("mapped cell %v survived prune", a)
	}
	if !s.Contains(b) {
		t.Fatalf("unmapped cell %v was pruned", b)
	}
	if s.Len() != 1 {
		t.Fatalf("len %d, want 1", s.Len())
	}
}

func TestFrontierAddDuplicate(t *testing.T) {
	s := NewFrontierSet()
	c := grid.Cell{Row: 3, Col: 3}
	if !s.Add(c) {
		t.Fatalf("first Add should report new")
	}
	if s.Add(c) {
		t.Fatalf("duplicate Add should report existing")
	}
	if s.Len() != 1 {
		t.Fatalf("len %d, want 1", s.Len())
	}
}
