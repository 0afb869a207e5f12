package swarm

import "mazeswarm.ai/internal/grid"

// ClaimTable maps a frontier to the id of the agent pursuing it. Each
// agent keeps its own replica, updated by local claims and by CLAIM
// messages; replicas may disagree at any instant and converge through
// the "lowest id wins" rule. Claims have no lease: a departed agent's
// claim is only ever displaced by a strictly lower id.
type ClaimTable struct {
	owner map[grid.Cell]int
}

func NewClaimTable() *ClaimTable {
	return &ClaimTable{owner: map[grid.Cell]int{}}
}

// Record stores id as the owner of c unconditionally. Used for the
// local-first step of claiming: an agent records itself before it
// announces.
func (t *ClaimTable) Record(c grid.Cell, id int) {
	t.owner[c] = id
}

// Apply merges a remote claim: absent frontiers get the sender, and a
// numerically lower sender displaces the recorded owner. Reports
// whether the table changed.
func (t *ClaimTable) Apply(c grid.Cell, senderID int) bool {
	cur, ok := t.owner[c]
	if !ok {
		t.owner[c] = senderID
		return true
	}
	if senderID < cur {
		t.owner[c] = senderID
		return true
	}
	return false
}

// Owner returns the recorded owner of c, if any.
func (t *ClaimTable) Owner(c grid.Cell) (int, bool) {
	id, ok := t.owner[c]
	return id, ok
}

func (t *ClaimTable) Claimed(c grid.Cell) bool {
	_, ok := t.owner[c]
	return ok
}

func (t *ClaimTable) Len() int { return len(t.owner) }
