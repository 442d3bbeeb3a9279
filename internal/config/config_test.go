package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perms = %o, want 0600", perm)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.OutputDir = "/var/lib/weekpack/exports"
	cfg.Grid.Start = "07:00"
	cfg.MaxLanes = 3
	cfg.ICS = []ICSConfig{{URL: "https://example.com/cal.ics", ID: "work", Source: "google"}}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.OutputDir != cfg.OutputDir || loaded.Grid.Start != "07:00" || loaded.MaxLanes != 3 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.ICS) != 1 || loaded.ICS[0].Source != "google" {
		t.Errorf("ICS sources = %+v", loaded.ICS)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()
	if cfg.Grid.Start != "06:00" || cfg.Grid.End != "23:30" || cfg.Grid.SlotMinutes != 30 {
		t.Errorf("grid defaults missing: %+v", cfg.Grid)
	}
	if cfg.OutputDir == "" || cfg.Listen == "" {
		t.Errorf("defaults missing: %+v", cfg)
	}
}

func TestTimeGrid(t *testing.T) {
	cfg := DefaultConfig()
	g, err := cfg.TimeGrid()
	if err != nil {
		t.Fatalf("TimeGrid: %v", err)
	}
	if g.SlotCount() != 36 {
		t.Errorf("SlotCount = %d, want 36", g.SlotCount())
	}

	cfg.Grid.Start = "not a clock"
	if _, err := cfg.TimeGrid(); err == nil {
		t.Error("expected error for bad clock value")
	}
}
