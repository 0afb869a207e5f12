package swarm

import (
	"testing"

	"mazeswarm.ai/internal/grid"
)

func TestSelectFrontierEmpty(t *testing.T) {
	g := openGrid3x3(t)
	a := newTestAgent(t, 1, g, nil)
	if _, ok := a.selectFrontier(); ok {
		t.Fatalf("selected a frontier from an empty set")
	}
}

func TestSelectFrontierPrefersNearestByTrueDistance(t *testing.T) {
	g := testGrid(t, []string{
		"000000",
		"000000",
	}, grid.Cell{}, grid.Cell{Row: 1, Col: 5})
	a := newTestAgent(t, 1, g, nil)

	// Corridor mapped out to column 2; three reachable frontiers hang
	// off it, plus one stray nothing known connects to.
	a.localMap.Link(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 0, Col: 1})
	a.localMap.Link(grid.Cell{Row: 0, Col: 1}, grid.Cell{Row: 0, Col: 2})
	near := []grid.Cell{
		{Row: 1, Col: 0},
		{Row: 1, Col: 1},
		{Row: 0, Col: 3},
	}
	stray := grid.Cell{Row: 1, Col: 5}
	for _, f := range near {
		a.frontiers.Add(f)
	}
	a.frontiers.Add(stray)

	// With TopK=3, the unreachable stray (distance Unreachable) ranks
	// last and must never be selected.
	for trial := 0; trial < 50; trial++ {
		f, ok := a.selectFrontier()
		if !ok {
			t.Fatalf("no frontier selected")
		}
		if f == stray {
			t.Fatalf("selected the farthest frontier over the near three")
		}
	}
}

func TestSelectFrontierSkipsClaimed(t *testing.T) {
	g := openGrid3x3(t)
	a := newTestAgent(t, 2, g, nil)

	claimed := grid.Cell{Row: 0, Col: 1}
	free := grid.Cell{Row: 1, Col: 0}
	a.frontiers.Add(claimed)
	a.frontiers.Add(free)
	a.claims.Apply(claimed, 1)

	for trial := 0; trial < 20; trial++ {
		f, ok := a.selectFrontier()
		if !ok || f != free {
			t.Fatalf("got %v ok=%v, want the unclaimed frontier %v", f, ok, free)
		}
	}
}

func TestSelectFrontierAllClaimedFallsBack(t *testing.T) {
	g := openGrid3x3(t)
	a := newTestAgent(t, 5, g, nil)

	f1 := grid.Cell{Row: 0, Col: 1}
	f2 := grid.Cell{Row: 1, Col: 0}
	a.frontiers.Add(f1)
	a.frontiers.Add(f2)
	a.claims.Apply(f1, 1)
	a.claims.Apply(f2, 2)

	// Contend for a claimed frontier rather than stall.
	f, ok := a.selectFrontier()
	if !ok {
		t.Fatalf("no frontier selected with all claimed")
	}
	if f != f1 && f != f2 {
		t.Fatalf("selected %v, not a known frontier", f)
	}
}
