package swarm

import (
	"sort"

	"mazeswarm.ai/internal/grid"
)

// selectFrontier implements the jiggle policy: rank unclaimed
// frontiers by true path distance, pick uniformly among the nearest
// TopK. Ranking by BFS distance rather than Manhattan distance keeps
// agents from chasing frontiers that look close but sit behind walls.
// When every frontier is claimed, contend for a random one anyway:
// the lowest id keeps it and the loser re-decides next tick. That
// deliberate overlap breaks the mutual standoff where all known
// frontiers are taken.
func (a *Agent) selectFrontier() (grid.Cell, bool) {
	if a.frontiers.Len() == 0 {
		return grid.Cell{}, false
	}
	all := a.frontiers.All()

	var unclaimed []grid.Cell
	for _, f := range all {
		if !a.claims.Claimed(f) {
			unclaimed = append(unclaimed, f)
		}
	}
	if len(unclaimed) == 0 {
		return all[a.rng.Intn(len(all))], true
	}

	type ranked struct {
		cell grid.Cell
		dist int
	}
	byDist := make([]ranked, 0, len(unclaimed))
	for _, f := range unclaimed {
		byDist = append(byDist, ranked{cell: f, dist: a.localMap.Distance(a.pos, f)})
	}
	sort.SliceStable(byDist, func(i, j int) bool { return byDist[i].dist < byDist[j].dist })

	k := a.cfg.TopK
	if k > len(byDist) {
		k = len(byDist)
	}
	return byDist[a.rng.Intn(k)].cell, true
}
