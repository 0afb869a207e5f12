package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mazeswarm.ai/internal/protocol"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`
	MaxTicks   int `yaml:"max_ticks"`
	ViewRadius int `yaml:"view_radius"`

	StuckLimit int `yaml:"stuck_limit"`
	JiggleTopK int `yaml:"jiggle_top_k"`

	Spawn Spawn `yaml:"spawn"`
}

type Spawn struct {
	CellsPerAgent    int     `yaml:"cells_per_agent"`
	MinCellsPerAgent int     `yaml:"min_cells_per_agent"`
	WallBoost        float64 `yaml:"wall_boost"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      10,
		MaxTicks:        1000,
		ViewRadius:      1,
		StuckLimit:      5,
		JiggleTopK:      3,
		Spawn: Spawn{
			CellsPerAgent:    50,
			MinCellsPerAgent: 10,
			WallBoost:        0.5,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects tuning pinned to a datagram protocol version this
// build does not speak. Agents configured from such a file would have
// every broadcast dropped by their peers.
func (t Tuning) Validate() error {
	if t.ProtocolVersion != protocol.Version {
		return fmt.Errorf("tuning protocol_version %q, this build speaks %q", t.ProtocolVersion, protocol.Version)
	}
	return nil
}
