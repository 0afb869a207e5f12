package indexdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mazeswarm.ai/internal/sim"
)

// SQLiteIndex is a secondary read-model of exploration runs: run
// metadata plus per-tick swarm statuses. Tick writes go through a
// single writer goroutine so the simulation never blocks on the
// database; JSONL telemetry remains the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type req struct {
	runID string
	tick  sim.TickLogEntry
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			maze_rows INTEGER NOT NULL,
			maze_cols INTEGER NOT NULL,
			wall_count INTEGER NOT NULL,
			swarm_size INTEGER NOT NULL,
			max_ticks INTEGER NOT NULL,
			ticks INTEGER,
			goal_reached INTEGER,
			reached_by TEXT,
			max_map_size INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS run_ticks (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			digest TEXT NOT NULL,
			goal_reached INTEGER NOT NULL,
			agents_json TEXT NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_run_ticks_run ON run_ticks(run_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

type RunMeta struct {
	MazeRows  int
	MazeCols  int
	WallCount int
	SwarmSize int
	MaxTicks  int
}

// StartRun registers a new run and returns its id.
func (s *SQLiteIndex) StartRun(meta RunMeta) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, started_at, maze_rows, maze_cols, wall_count, swarm_size, max_ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano),
		meta.MazeRows, meta.MazeCols, meta.WallCount, meta.SwarmSize, meta.MaxTicks,
	)
	if err != nil {
		return "", err
	}
	return runID, nil
}

// FinishRun records the outcome. Safe to call after tick writes are
// still draining; rows land in separate tables.
func (s *SQLiteIndex) FinishRun(runID string, res sim.Result) error {
	goal := 0
	if res.GoalReached {
		goal = 1
	}
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, ticks = ?, goal_reached = ?, reached_by = ?, max_map_size = ?
		 WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		res.Ticks, goal, res.ReachedBy, res.MaxMapSize, runID,
	)
	return err
}

// TickLogger adapts the index to sim.TickLogger for a specific run.
func (s *SQLiteIndex) TickLogger(runID string) *RunTickLogger {
	return &RunTickLogger{idx: s, runID: runID}
}

type RunTickLogger struct {
	idx   *SQLiteIndex
	runID string
}

func (l *RunTickLogger) WriteTick(entry sim.TickLogEntry) error {
	s := l.idx
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{runID: l.runID, tick: entry}:
	default:
		// Drop if the indexer falls behind; JSONL logs remain the source of truth.
	}
	return nil
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		agents, err := json.Marshal(r.tick.Agents)
		if err != nil {
			continue
		}
		goal := 0
		if r.tick.GoalReached {
			goal = 1
		}
		_, _ = s.db.Exec(
			`INSERT OR REPLACE INTO run_ticks (run_id, tick, digest, goal_reached, agents_json)
			 VALUES (?, ?, ?, ?, ?)`,
			r.runID, r.tick.Tick, r.tick.Digest, goal, string(agents),
		)
	}
}

// RunRow is the queryable view of a finished run.
type RunRow struct {
	RunID       string
	SwarmSize   int
	Ticks       int
	GoalReached bool
	ReachedBy   string
	MaxMapSize  int
}

func (s *SQLiteIndex) Run(runID string) (RunRow, error) {
	var row RunRow
	var goal sql.NullInt64
	var ticks sql.NullInt64
	var reachedBy sql.NullString
	var maxMap sql.NullInt64
	err := s.db.QueryRow(
		`SELECT run_id, swarm_size, ticks, goal_reached, reached_by, max_map_size FROM runs WHERE run_id = ?`,
		runID,
	).Scan(&row.RunID, &row.SwarmSize, &ticks, &goal, &reachedBy, &maxMap)
	if err != nil {
		return RunRow{}, err
	}
	row.Ticks = int(ticks.Int64)
	row.GoalReached = goal.Int64 == 1
	row.ReachedBy = reachedBy.String
	row.MaxMapSize = int(maxMap.Int64)
	return row, nil
}

func (s *SQLiteIndex) TickCount(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM run_ticks WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
