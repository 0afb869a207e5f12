package indexdb

import (
	"path/filepath"
	"testing"

	"mazeswarm.ai/internal/protocol"
	"mazeswarm.ai/internal/sim"
	"mazeswarm.ai/internal/swarm"
)

func TestRunLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	runID, err := idx.StartRun(RunMeta{
		MazeRows:  12,
		MazeCols:  10,
		WallCount: 41,
		SwarmSize: 3,
		MaxTicks:  1000,
	})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if runID == "" {
		t.Fatalf("empty run id")
	}

	tl := idx.TickLogger(runID)
	for i := uint64(0); i < 5; i++ {
		err := tl.WriteTick(sim.TickLogEntry{
			Tick:   i,
			Agents: []swarm.Status{{ID: 1, Name: "agent-1", Pos: protocol.CellRef{int(i), 0}, MapSize: int(i) + 1}},
			Digest: "d",
		})
		if err != nil {
			t.Fatalf("write tick %d: %v", i, err)
		}
	}

	if err := idx.FinishRun(runID, sim.Result{
		Ticks:       5,
		GoalReached: true,
		ReachedBy:   "agent-1",
		MaxMapSize:  5,
	}); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	// Close drains the async writer before the db shuts down.
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	row, err := idx2.Run(runID)
	if err != nil {
		t.Fatalf("query run: %v", err)
	}
	if !row.GoalReached || row.ReachedBy != "agent-1" || row.Ticks != 5 || row.MaxMapSize != 5 {
		t.Fatalf("run row %+v", row)
	}
	if row.SwarmSize != 3 {
		t.Fatalf("swarm size %d, want 3", row.SwarmSize)
	}

	n, err := idx2.TickCount(runID)
	if err != nil {
		t.Fatalf("tick count: %v", err)
	}
	if n != 5 {
		t.Fatalf("tick count %d, want 5", n)
	}
}

func TestWriteTickAfterCloseIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	runID, err := idx.StartRun(RunMeta{MazeRows: 1, MazeCols: 1, SwarmSize: 1, MaxTicks: 1})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	tl := idx.TickLogger(runID)
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := tl.WriteTick(sim.TickLogEntry{Tick: 0}); err != nil {
		t.Fatalf("write after close should drop silently, got %v", err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
