package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWorldShape(t *testing.T) {
	cfg := Default()
	if len(cfg.World.Bodies) != 7 {
		t.Fatalf("default world has %d bodies, want 7", len(cfg.World.Bodies))
	}
	total := 0
	for _, b := range cfg.World.Bodies {
		total += b.Spaces
	}
	if total != 170 {
		t.Fatalf("default world has %d spaces, want 170", total)
	}
	if cfg.Balance.LocalMoveCost != 1 || cfg.Balance.InterBodyCost != 5 || cfg.Balance.SpacePortCost != 2 {
		t.Fatalf("default movement costs wrong: %+v", cfg.Balance)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eos.yaml")
	partial := []byte("server:\n  port: 9090\nworld:\n  seed: 7\n")
	if err := os.WriteFile(path, partial, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.World.Seed != 7 {
		t.Fatalf("seed = %d, want 7", cfg.World.Seed)
	}
	if len(cfg.World.Bodies) != 7 {
		t.Fatalf("omitted bodies must default, got %d", len(cfg.World.Bodies))
	}
	if cfg.Balance.StartingFuel != 10 {
		t.Fatalf("omitted balance must default, got %d", cfg.Balance.StartingFuel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
