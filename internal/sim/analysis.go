package sim

import "mazeswarm.ai/internal/grid"

// RequiredAgentsToGoal estimates how many agents a branch-per-fork
// exploration of the maze would use before the goal cell is first
// visited: total counts every branch ever taken, maxSimultaneous the
// deepest level of concurrent branching. It is a planning heuristic
// only; the swarm itself never spawns mid-run.
func RequiredAgentsToGoal(g *grid.Grid, start, goal grid.Cell) (total, maxSimultaneous int) {
	type frame struct {
		cell   grid.Cell
		active int
	}
	visited := map[grid.Cell]bool{}
	stack := []frame{{cell: start, active: 1}}
	total = 1
	maxSimultaneous = 1

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[fr.cell] {
			continue
		}
		visited[fr.cell] = true
		if fr.active > maxSimultaneous {
			maxSimultaneous = fr.active
		}

		if fr.cell == goal {
			return total, maxSimultaneous
		}

		var next []grid.Cell
		for _, n := range fr.cell.Neighbors4() {
			if g.InBounds(n) && !g.IsWall(n) && !visited[n] {
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			continue
		}

		// The current agent continues down the first branch; every
		// extra branch costs one more agent at active+1 depth.
		stack = append(stack, frame{cell: next[0], active: fr.active})
		for _, n := range next[1:] {
			total++
			stack = append(stack, frame{cell: n, active: fr.active + 1})
		}
	}
	// Goal unreachable; report what the sweep used.
	return total, maxSimultaneous
}
