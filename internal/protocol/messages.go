package protocol

import "mazeswarm.ai/internal/grid"

// CellRef is a cell on the wire: [row, col].
type CellRef [2]int

func Ref(c grid.Cell) CellRef     { return CellRef{c.Row, c.Col} }
func (r CellRef) Cell() grid.Cell { return grid.Cell{Row: r[0], Col: r[1]} }

func Refs(cells []grid.Cell) []CellRef {
	out := make([]CellRef, 0, len(cells))
	for _, c := range cells {
		out = append(out, Ref(c))
	}
	return out
}

// MERGE (agent -> peers): newly discovered nodes and frontiers.
// No adjacency travels on the wire; receivers rebuild connectivity
// from their own scans.
type MergeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	SenderID        int       `json:"sender_id"`
	SenderName      string    `json:"sender_name"`
	Nodes           []CellRef `json:"nodes"`
	Frontiers       []CellRef `json:"frontiers"`
}

// CLAIM (agent -> peers): the sender's intent to pursue a frontier.
type ClaimMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	SenderID        int     `json:"sender_id"`
	SenderName      string  `json:"sender_name"`
	TargetFrontier  CellRef `json:"target_frontier"`
}
