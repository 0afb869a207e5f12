package sim

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/observerproto"
	"mazeswarm.ai/internal/protocol"
	"mazeswarm.ai/internal/sim/tuning"
	"mazeswarm.ai/internal/swarm"
)

// TickLogger receives one entry per completed round. Implemented by
// the persistence layer; may be stacked.
type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type TickLogEntry struct {
	Tick        uint64         `json:"tick"`
	Agents      []swarm.Status `json:"agents"`
	Digest      string         `json:"digest"`
	GoalReached bool           `json:"goal_reached,omitempty"`
}

type Result struct {
	Ticks       uint64
	GoalReached bool
	ReachedBy   string
	MaxMapSize  int
	Final       []swarm.Status
}

// ObserverJoinRequest attaches a viewer session; tick frames are
// fanned out on Out until the session leaves.
type ObserverJoinRequest struct {
	SessionID string
	Out       chan []byte
}

type Config struct {
	Grid   *grid.Grid
	Tuning tuning.Tuning
}

// Coordinator drives the swarm: one tick request per agent per round,
// on a fixed cadence, until an agent stands on the goal cell or the
// tick budget runs out. Agents own their state; the coordinator only
// sees the Status each tick returns. Observer sessions and the run
// loop share the coordinator goroutine through channels, the same
// single-writer discipline the agents use.
type Coordinator struct {
	cfg    Config
	agents []*swarm.Agent
	log    *log.Logger

	tick atomic.Uint64

	tickLoggers []TickLogger

	obsJoin  chan ObserverJoinRequest
	obsLeave chan string
	subs     map[string]chan []byte

	result Result
}

func New(cfg Config, agents []*swarm.Agent, logger *log.Logger) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		agents:   agents,
		log:      logger,
		obsJoin:  make(chan ObserverJoinRequest, 16),
		obsLeave: make(chan string, 16),
		subs:     map[string]chan []byte{},
	}
}

func (c *Coordinator) AddTickLogger(l TickLogger) {
	if l != nil {
		c.tickLoggers = append(c.tickLoggers, l)
	}
}

func (c *Coordinator) ObserverJoin() chan<- ObserverJoinRequest { return c.obsJoin }
func (c *Coordinator) ObserverLeave() chan<- string             { return c.obsLeave }

func (c *Coordinator) CurrentTick() uint64 { return c.tick.Load() }
func (c *Coordinator) Grid() *grid.Grid    { return c.cfg.Grid }
func (c *Coordinator) Tuning() tuning.Tuning { return c.cfg.Tuning }
func (c *Coordinator) SwarmSize() int      { return len(c.agents) }

func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	hz := c.cfg.Tuning.TickRateHz
	if hz <= 0 {
		hz = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return c.result, ctx.Err()
		case j := <-c.obsJoin:
			c.subs[j.SessionID] = j.Out
		case id := <-c.obsLeave:
			delete(c.subs, id)
		case <-ticker.C:
			done, err := c.round(ctx)
			if err != nil {
				return c.result, err
			}
			if done {
				return c.result, nil
			}
		}
	}
}

// StepOnce runs a single round outside the ticker cadence. Intended
// for tests and deterministic drivers.
func (c *Coordinator) StepOnce(ctx context.Context) (bool, error) {
	return c.round(ctx)
}

func (c *Coordinator) round(ctx context.Context) (bool, error) {
	nowTick := c.tick.Load()
	goal := protocol.Ref(c.cfg.Grid.Goal)

	statuses := make([]swarm.Status, 0, len(c.agents))
	reachedBy := ""
	for _, a := range c.agents {
		resp := make(chan swarm.Status, 1)
		select {
		case a.Ticks() <- swarm.TickRequest{Resp: resp}:
		case <-ctx.Done():
			return false, ctx.Err()
		}
		select {
		case st := <-resp:
			statuses = append(statuses, st)
			if st.MapSize > c.result.MaxMapSize {
				c.result.MaxMapSize = st.MapSize
			}
			if st.Pos == goal && reachedBy == "" {
				reachedBy = st.Name
			}
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	entry := TickLogEntry{
		Tick:        nowTick,
		Agents:      statuses,
		Digest:      statusDigest(statuses),
		GoalReached: reachedBy != "",
	}
	for _, l := range c.tickLoggers {
		if err := l.WriteTick(entry); err != nil {
			c.log.Printf("tick log: %v", err)
		}
	}
	c.publishTick(entry)

	c.tick.Add(1)
	c.result.Ticks = nowTick + 1
	c.result.Final = statuses

	if reachedBy != "" {
		c.result.GoalReached = true
		c.result.ReachedBy = reachedBy
		c.log.Printf("goal %v reached by %s at tick %d", c.cfg.Grid.Goal, reachedBy, nowTick)
		return true, nil
	}
	if c.cfg.Tuning.MaxTicks > 0 && c.result.Ticks >= uint64(c.cfg.Tuning.MaxTicks) {
		c.log.Printf("tick budget exhausted after %d ticks", c.result.Ticks)
		return true, nil
	}
	return false, nil
}

func (c *Coordinator) publishTick(entry TickLogEntry) {
	if len(c.subs) == 0 {
		return
	}
	frame := observerproto.TickMsg{
		Type:            "TICK",
		ProtocolVersion: observerproto.Version,
		Tick:            entry.Tick,
		Agents:          entry.Agents,
		Digest:          entry.Digest,
		GoalReached:     entry.GoalReached,
	}
	b, err := json.Marshal(frame)
	if err != nil {
		return
	}
	for _, out := range c.subs {
		sendLatest(out, b)
	}
}

// statusDigest fingerprints a round for replay verification. Statuses
// arrive in fixed agent order, so the digest is deterministic.
func statusDigest(statuses []swarm.Status) string {
	b, err := json.Marshal(statuses)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// sendLatest prefers fresh frames: if the subscriber is backed up,
// drop one stale frame and retry once.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
