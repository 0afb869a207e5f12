package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/persistence/indexdb"
	plog "mazeswarm.ai/internal/persistence/log"
	"mazeswarm.ai/internal/sim"
	"mazeswarm.ai/internal/sim/tuning"
	"mazeswarm.ai/internal/swarm"
	"mazeswarm.ai/internal/transport/observer"
	"mazeswarm.ai/internal/transport/udp"
)

func main() {
	var (
		mazePath   = flag.String("maze", "configs/maze.yaml", "maze definition (yaml)")
		tuningPath = flag.String("tuning", "configs/tuning.yaml", "tuning overrides (yaml)")
		agents     = flag.Int("agents", 0, "swarm size; 0 sizes the swarm from the maze")
		httpAddr   = flag.String("http", "127.0.0.1:8090", "observer http listen address")
		dataDir    = flag.String("data", "data", "run output directory (jsonl logs, sqlite index)")
		noPersist  = flag.Bool("no-persist", false, "disable tick logging and the run index")
		seed       = flag.Int64("seed", 0, "base rng seed; 0 uses wall-clock time")
	)
	flag.Parse()

	mainLog := log.New(os.Stdout, "[swarm] ", log.LstdFlags|log.Lmicroseconds)

	g, err := grid.Load(*mazePath)
	if err != nil {
		mainLog.Fatalf("load maze: %v", err)
	}
	tn, err := tuning.Load(*tuningPath)
	if err != nil {
		mainLog.Fatalf("load tuning: %v", err)
	}

	n := *agents
	if n <= 0 {
		n = sim.OptimalAgentCount(g, tn.Spawn)
	}
	mainLog.Printf("maze %dx%d walls=%d start=%v goal=%v swarm=%d",
		g.Rows(), g.Cols(), g.WallCount(), g.Start, g.Goal, n)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One UDP socket per agent. Sockets bind first so every agent can be
	// handed the full peer list before any of them starts ticking.
	endpoints := make([]*udp.Endpoint, n)
	addrs := make([]string, n)
	udpLog := log.New(os.Stdout, "[udp] ", log.LstdFlags|log.Lmicroseconds)
	for i := 0; i < n; i++ {
		ep, err := udp.Listen("127.0.0.1:0", udpLog)
		if err != nil {
			mainLog.Fatalf("udp listen: %v", err)
		}
		defer ep.Close()
		endpoints[i] = ep
		addrs[i] = ep.Addr()
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	swarmAgents := make([]*swarm.Agent, n)
	for i := 0; i < n; i++ {
		id := i + 1
		peers := make([]string, 0, n-1)
		for j, addr := range addrs {
			if j != i {
				peers = append(peers, addr)
			}
		}
		a := swarm.New(swarm.Config{
			ID:         id,
			Name:       fmt.Sprintf("agent-%d", id),
			Start:      g.Start,
			Peers:      peers,
			StuckLimit: tn.StuckLimit,
			TopK:       tn.JiggleTopK,
			ViewRadius: tn.ViewRadius,
			Seed:       baseSeed + int64(id),
		}, g, endpoints[i], log.New(os.Stdout, fmt.Sprintf("[agent-%d] ", id), log.LstdFlags|log.Lmicroseconds))
		swarmAgents[i] = a

		go func(a *swarm.Agent) { _ = a.Run(ctx) }(a)
		go func(ep *udp.Endpoint, a *swarm.Agent) {
			_ = ep.Run(ctx, func(payload []byte, from string) {
				select {
				case a.Inbox() <- swarm.Inbound{Payload: payload, From: from}:
				default:
					// Inbox full: the datagram is lost, as the protocol allows.
				}
			})
		}(endpoints[i], a)
	}

	coord := sim.New(sim.Config{Grid: g, Tuning: tn}, swarmAgents,
		log.New(os.Stdout, "[coord] ", log.LstdFlags|log.Lmicroseconds))

	var (
		idx     *indexdb.SQLiteIndex
		runID   string
		tickLog *plog.TickLogger
	)
	if !*noPersist {
		runDir := filepath.Join(*dataDir, time.Now().UTC().Format("run-20060102-150405"))
		tickLog = plog.NewTickLogger(runDir)
		defer tickLog.Close()
		coord.AddTickLogger(tickLog)

		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "runs.db"))
		if err != nil {
			mainLog.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		runID, err = idx.StartRun(indexdb.RunMeta{
			MazeRows:  g.Rows(),
			MazeCols:  g.Cols(),
			WallCount: g.WallCount(),
			SwarmSize: n,
			MaxTicks:  tn.MaxTicks,
		})
		if err != nil {
			mainLog.Fatalf("start run: %v", err)
		}
		coord.AddTickLogger(idx.TickLogger(runID))
		mainLog.Printf("run %s logging to %s", runID, runDir)
	}

	obs := observer.NewServer(coord, log.New(os.Stdout, "[observer] ", log.LstdFlags|log.Lmicroseconds))
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/observer/bootstrap", obs.BootstrapHandler())
	mux.HandleFunc("/v1/observer/ws", obs.WSHandler())
	httpSrv := &http.Server{Addr: *httpAddr, Handler: mux}
	go func() {
		mainLog.Printf("observer listening on http://%s", *httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.Printf("http: %v", err)
		}
	}()

	res, err := coord.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		mainLog.Printf("run: %v", err)
	}

	if idx != nil {
		if err := idx.FinishRun(runID, res); err != nil {
			mainLog.Printf("finish run: %v", err)
		}
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)

	if res.GoalReached {
		mainLog.Printf("goal reached by %s after %d ticks (max map size %d)",
			res.ReachedBy, res.Ticks, res.MaxMapSize)
	} else {
		mainLog.Printf("goal not reached in %d ticks (max map size %d)", res.Ticks, res.MaxMapSize)
	}
}
