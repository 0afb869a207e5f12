package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/sim"
	"mazeswarm.ai/internal/sim/tuning"
)

// analyze prints sizing and branching statistics for a maze without
// running a swarm against it.
func main() {
	var (
		mazePath   = flag.String("maze", "configs/maze.yaml", "maze definition (yaml)")
		tuningPath = flag.String("tuning", "", "tuning overrides (yaml); defaults apply when empty")
	)
	flag.Parse()

	lg := log.New(os.Stderr, "[analyze] ", log.LstdFlags)

	g, err := grid.Load(*mazePath)
	if err != nil {
		lg.Fatalf("load maze: %v", err)
	}

	tn := tuning.Defaults()
	if *tuningPath != "" {
		tn, err = tuning.Load(*tuningPath)
		if err != nil {
			lg.Fatalf("load tuning: %v", err)
		}
	}

	total := g.Rows() * g.Cols()
	walls := g.WallCount()
	density := float64(walls) / float64(total)

	swarmSize := sim.OptimalAgentCount(g, tn.Spawn)
	branchTotal, branchMax := sim.RequiredAgentsToGoal(g, g.Start, g.Goal)

	fmt.Printf("maze:            %dx%d (%d cells)\n", g.Rows(), g.Cols(), total)
	fmt.Printf("walls:           %d (density %.2f)\n", walls, density)
	fmt.Printf("start -> goal:   %v -> %v\n", g.Start, g.Goal)
	fmt.Printf("swarm size:      %d\n", swarmSize)
	fmt.Printf("branches to goal: %d total, %d simultaneous\n", branchTotal, branchMax)
}
