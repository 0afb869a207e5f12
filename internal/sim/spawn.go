package sim

import (
	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/sim/tuning"
)

// OptimalAgentCount sizes the fixed swarm for a maze. Base provisioning
// is one agent per CellsPerAgent cells, boosted by wall density (denser
// mazes fragment the frontier and benefit from more agents, up to
// 1+WallBoost times the base) and capped at one agent per
// MinCellsPerAgent cells. Always at least 1.
func OptimalAgentCount(g *grid.Grid, sp tuning.Spawn) int {
	if sp.CellsPerAgent <= 0 {
		sp.CellsPerAgent = 50
	}
	if sp.MinCellsPerAgent <= 0 {
		sp.MinCellsPerAgent = 10
	}
	total := g.Rows() * g.Cols()

	base := total / sp.CellsPerAgent
	if base < 1 {
		base = 1
	}

	density := float64(g.WallCount()) / float64(total)
	n := int(float64(base) * (1.0 + sp.WallBoost*density))

	if limit := total / sp.MinCellsPerAgent; limit >= 1 && n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return n
}
