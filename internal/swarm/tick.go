package swarm

import "mazeswarm.ai/internal/grid"

// step runs one tick of the state machine, in fixed phase order:
// CLEANUP, YIELD-CHECK, SCAN, BROADCAST, DECIDE, MOVE.
func (a *Agent) step() {
	// CLEANUP: current position is always mapped; frontiers that have
	// since been mapped are dropped; a target we are standing on is done.
	newNode := a.localMap.Record(a.pos)
	a.frontiers.Prune(a.localMap)
	if a.target != nil && *a.target == a.pos {
		a.target = nil
	}

	// YIELD-CHECK: if a lower id owns our target, stop contending.
	if a.target != nil {
		if owner, ok := a.claims.Owner(*a.target); ok && owner < a.cfg.ID {
			a.log.Printf("%s yields %v to agent %d", a.cfg.Name, *a.target, owner)
			a.target = nil
		}
	}

	// SCAN
	var newNodes []grid.Cell
	if newNode {
		newNodes = append(newNodes, a.pos)
	}
	newFrontiers := a.scan()

	// BROADCAST (skipped inside broadcastMerge when nothing is new)
	a.broadcastMerge(newNodes, newFrontiers)

	// DECIDE
	if a.target == nil {
		if f, ok := a.selectFrontier(); ok {
			// Local-first ordering: record our own claim before the
			// announcement leaves, so a racing peer claim resolves
			// against it instead of an empty slot.
			a.claims.Record(f, a.cfg.ID)
			t := f
			a.target = &t
			a.broadcastClaim(f)
		}
	}

	// MOVE
	if a.target != nil {
		a.move()
	}
}

// scan inspects the 4-neighborhood from the grid view. Open unmapped
// neighbors become frontiers; open mapped neighbors gain an edge in
// both directions. Returns the newly discovered frontiers.
func (a *Agent) scan() []grid.Cell {
	view := a.view.View(a.pos, a.cfg.ViewRadius)
	var discovered []grid.Cell
	for _, n := range a.pos.Neighbors4() {
		kind, ok := view.At(n)
		if !ok || kind == grid.Wall {
			continue
		}
		if a.localMap.Contains(n) {
			a.localMap.Link(a.pos, n)
			continue
		}
		if a.frontiers.Add(n) {
			discovered = append(discovered, n)
		}
	}
	return discovered
}

// move advances one cell toward the target, or handles the target
// being unreachable through currently known cells.
func (a *Agent) move() {
	target := *a.target
	next, ok := a.localMap.NextStep(a.pos, target)
	if !ok {
		a.log.Printf("%s cannot reach %v through known cells, dropping target", a.cfg.Name, target)
		a.target = nil
		a.stuck++
		if a.stuck >= a.cfg.StuckLimit {
			// Liveness escape: after repeated failures, take any
			// frontier at random to get out of a dead end.
			if f, ok := a.frontiers.Random(a.rng); ok {
				t := f
				a.target = &t
				a.stuck = 0
			}
		}
		return
	}
	a.pos = next
	a.stuck = 0
	// A reached target is cleared by the next tick's CLEANUP, which
	// also maps the cell and prunes it from the frontier set.
}
