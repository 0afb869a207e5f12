package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.ProtocolVersion != "1.0" {
		t.Fatalf("protocol version %q", d.ProtocolVersion)
	}
	if d.TickRateHz != 10 || d.MaxTicks != 1000 || d.ViewRadius != 1 {
		t.Fatalf("run defaults: %+v", d)
	}
	if d.StuckLimit != 5 || d.JiggleTopK != 3 {
		t.Fatalf("agent defaults: %+v", d)
	}
	if d.Spawn.CellsPerAgent != 50 || d.Spawn.MinCellsPerAgent != 10 || d.Spawn.WallBoost != 0.5 {
		t.Fatalf("spawn defaults: %+v", d.Spawn)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	data := "max_ticks: 250\nspawn:\n  wall_boost: 1.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MaxTicks != 250 {
		t.Fatalf("max_ticks %d, want 250", got.MaxTicks)
	}
	if got.Spawn.WallBoost != 1.5 {
		t.Fatalf("wall_boost %v, want 1.5", got.Spawn.WallBoost)
	}
	// Untouched fields keep their defaults.
	if got.TickRateHz != 10 || got.StuckLimit != 5 {
		t.Fatalf("defaults clobbered: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadRejectsProtocolMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("protocol_version: \"2.0\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("accepted a tuning file for a foreign protocol version")
	}
}

func TestValidate(t *testing.T) {
	d := Defaults()
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	d.ProtocolVersion = "0.9"
	if err := d.Validate(); err == nil {
		t.Fatalf("expected error for version mismatch")
	}
}
