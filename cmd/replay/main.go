package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"mazeswarm.ai/internal/sim"
)

// replay reads the compressed tick log of a run and prints each round,
// re-verifying the per-tick digest along the way.
func main() {
	var (
		runDir = flag.String("run", "", "run directory containing events/ (required)")
		from   = flag.Uint64("from", 0, "first tick to print")
		to     = flag.Uint64("to", 0, "last tick to print; 0 means end of log")
		quiet  = flag.Bool("quiet", false, "verify digests only, print a summary line")
	)
	flag.Parse()

	lg := log.New(os.Stdout, "[replay] ", log.LstdFlags)
	if *runDir == "" {
		lg.Fatalf("missing -run")
	}

	files, err := listEventFiles(filepath.Join(*runDir, "events"))
	if err != nil {
		lg.Fatalf("list events: %v", err)
	}
	if len(files) == 0 {
		lg.Fatalf("no event files under %s", *runDir)
	}

	var (
		ticks    int
		badSums  int
		lastTick uint64
		goalTick uint64
		goalSeen bool
	)
	for _, path := range files {
		err := scanFile(path, func(entry sim.TickLogEntry) {
			if entry.Tick < *from || (*to > 0 && entry.Tick > *to) {
				return
			}
			ticks++
			lastTick = entry.Tick
			if !verifyDigest(entry) {
				badSums++
				lg.Printf("tick %d: digest mismatch", entry.Tick)
			}
			if entry.GoalReached && !goalSeen {
				goalTick = entry.Tick
				goalSeen = true
			}
			if !*quiet {
				printTick(entry)
			}
		})
		if err != nil {
			lg.Fatalf("%s: %v", path, err)
		}
	}

	lg.Printf("replayed %d ticks (last tick %d), %d digest mismatches", ticks, lastTick, badSums)
	if goalSeen {
		lg.Printf("goal reached at tick %d", goalTick)
	}
	if badSums > 0 {
		os.Exit(1)
	}
}

func printTick(entry sim.TickLogEntry) {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %4d |", entry.Tick)
	for _, st := range entry.Agents {
		tgt := "-"
		if st.Target != nil {
			tgt = fmt.Sprintf("(%d,%d)", st.Target[0], st.Target[1])
		}
		fmt.Fprintf(&b, " %s@(%d,%d)->%s map=%d", st.Name, st.Pos[0], st.Pos[1], tgt, st.MapSize)
	}
	if entry.GoalReached {
		b.WriteString(" GOAL")
	}
	fmt.Println(b.String())
}

func verifyDigest(entry sim.TickLogEntry) bool {
	b, err := json.Marshal(entry.Agents)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]) == entry.Digest
}

func scanFile(path string, fn func(sim.TickLogEntry)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry sim.TickLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("bad log line: %w", err)
		}
		fn(entry)
	}
	return sc.Err()
}

func listEventFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "events-") || !strings.HasSuffix(name, ".jsonl.zst") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	// Hourly file names sort chronologically.
	sort.Strings(files)
	return files, nil
}
