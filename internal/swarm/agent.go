package swarm

import (
	"context"
	"log"
	"math/rand"
	"time"

	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/protocol"
)

// Viewer supplies the local grid window around a position. The maze
// itself stays outside the agent; this is its only sensor.
type Viewer interface {
	View(center grid.Cell, radius int) grid.View
}

// Sender delivers an opaque datagram to a peer address. At most once,
// no ordering or delivery guarantee.
type Sender interface {
	Send(addr string, payload []byte) error
}

type Config struct {
	ID    int
	Name  string
	Start grid.Cell
	Peers []string // peer addresses, self excluded

	StuckLimit int   // consecutive pathing failures before a forced random target (default 5)
	TopK       int   // jiggle candidate count (default 3)
	ViewRadius int   // grid view radius per scan (default 1)
	Seed       int64 // rng seed; 0 picks a time-based seed
}

// Inbound is a received datagram plus its source address.
type Inbound struct {
	Payload []byte
	From    string
}

// TickRequest asks the agent to run one tick of its state machine.
// The resulting status is sent on Resp, if set.
type TickRequest struct {
	Resp chan Status
}

// Status is the observational output of one tick. It feeds the
// coordinator, telemetry, and any attached viewer; nothing reads it
// back into the agent.
type Status struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Pos       protocol.CellRef  `json:"pos"`
	Target    *protocol.CellRef `json:"target,omitempty"`
	MapSize   int               `json:"map_size"`
	Frontiers int               `json:"frontiers"`
	Stuck     int               `json:"stuck"`
}

// Agent is one member of the swarm. All of its state is owned by a
// single goroutine: the Run loop serializes tick execution and inbound
// message application, so the map, frontier set, and claim table never
// see concurrent writers.
type Agent struct {
	cfg  Config
	log  *log.Logger
	view Viewer
	send Sender
	rng  *rand.Rand

	pos    grid.Cell
	target *grid.Cell
	stuck  int

	localMap  *LocalMap
	frontiers *FrontierSet
	claims    *ClaimTable

	inbox chan Inbound
	tickq chan TickRequest
}

func New(cfg Config, view Viewer, send Sender, logger *log.Logger) *Agent {
	if cfg.StuckLimit <= 0 {
		cfg.StuckLimit = 5
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.ViewRadius <= 0 {
		cfg.ViewRadius = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	a := &Agent{
		cfg:       cfg,
		log:       logger,
		view:      view,
		send:      send,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		pos:       cfg.Start,
		localMap:  NewLocalMap(),
		frontiers: NewFrontierSet(),
		claims:    NewClaimTable(),
		inbox:     make(chan Inbound, 256),
		tickq:     make(chan TickRequest, 1),
	}
	// The start cell is mapped from birth, with no neighbors yet.
	a.localMap.Record(cfg.Start)
	return a
}

func (a *Agent) ID() int      { return a.cfg.ID }
func (a *Agent) Name() string { return a.cfg.Name }

// Inbox accepts raw peer datagrams.
func (a *Agent) Inbox() chan<- Inbound { return a.inbox }

// Ticks accepts tick requests from the driver.
func (a *Agent) Ticks() chan<- TickRequest { return a.tickq }

// Run multiplexes tick requests and inbound datagrams onto the single
// goroutine that owns the agent's state.
func (a *Agent) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-a.tickq:
			a.step()
			if req.Resp != nil {
				req.Resp <- a.snapshot()
			}
		case in := <-a.inbox:
			a.handleMessage(in)
		}
	}
}

func (a *Agent) snapshot() Status {
	st := Status{
		ID:        a.cfg.ID,
		Name:      a.cfg.Name,
		Pos:       protocol.Ref(a.pos),
		MapSize:   a.localMap.Len(),
		Frontiers: a.frontiers.Len(),
		Stuck:     a.stuck,
	}
	if a.target != nil {
		ref := protocol.Ref(*a.target)
		st.Target = &ref
	}
	return st
}
