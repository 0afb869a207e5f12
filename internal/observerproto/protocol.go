package observerproto

import "mazeswarm.ai/internal/swarm"

// Version is the observer protocol version (separate from the
// agent-to-agent datagram protocol).
const Version = "0.1"

// Client -> Server. First message on the observer WS connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// HTTP response for GET /v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string     `json:"protocol_version"`
	Tick            uint64     `json:"tick"`
	Maze            []string   `json:"maze"` // rows of '0'/'1'
	Params          RunParams  `json:"params"`
}

type RunParams struct {
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Start      [2]int `json:"start"`
	Goal       [2]int `json:"goal"`
	SwarmSize  int    `json:"swarm_size"`
	TickRateHz int    `json:"tick_rate_hz"`
	MaxTicks   int    `json:"max_ticks"`
}

// Server -> Client. Sent every tick.
type TickMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Tick            uint64         `json:"tick"`
	Agents          []swarm.Status `json:"agents"`
	Digest          string         `json:"digest"`
	GoalReached     bool           `json:"goal_reached,omitempty"`
}
