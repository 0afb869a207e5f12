package swarm

import "mazeswarm.ai/internal/grid"

// Unreachable is the sentinel distance for cells with no known path.
const Unreachable = 999999

// Traversal rule shared by Distance and NextStep: a step is legal onto
// any mapped cell, plus onto the destination itself even when unmapped
// (a frontier is by construction adjacent to a mapped cell). An agent
// cannot plan through terrain it has not observed.
func (m *LocalMap) passable(c, dest grid.Cell) bool {
	return m.Contains(c) || c == dest
}

// Distance returns the shortest-path hop count from a to b through
// currently mapped cells, or Unreachable. BFS over the 4-connected
// grid with fixed neighbor order for determinism.
func (m *LocalMap) Distance(a, b grid.Cell) int {
	if a == b {
		return 0
	}
	type item struct {
		c grid.Cell
		d int
	}
	visited := map[grid.Cell]bool{a: true}
	queue := []item{{c: a}}
	for head := 0; head < len(queue); head++ {
		it := queue[head]
		if it.c == b {
			return it.d
		}
		for _, n := range it.c.Neighbors4() {
			if visited[n] || !m.passable(n, b) {
				continue
			}
			visited[n] = true
			queue = append(queue, item{c: n, d: it.d + 1})
		}
	}
	return Unreachable
}

// NextStep returns the first hop of the shortest path from a to b
// under the same traversal rule, or ok=false if b is unreachable
// through known cells.
func (m *LocalMap) NextStep(a, b grid.Cell) (grid.Cell, bool) {
	if a == b {
		return grid.Cell{}, false
	}
	parent := map[grid.Cell]grid.Cell{a: a}
	queue := []grid.Cell{a}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if cur == b {
			// Walk back to the hop adjacent to the start.
			step := cur
			for parent[step] != a {
				step = parent[step]
			}
			return step, true
		}
		for _, n := range cur.Neighbors4() {
			if _, seen := parent[n]; seen {
				continue
			}
			if !m.passable(n, b) {
				continue
			}
			parent[n] = cur
			queue = append(queue, n)
		}
	}
	return grid.Cell{}, false
}
