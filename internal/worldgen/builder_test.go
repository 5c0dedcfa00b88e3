package worldgen

import (
	"io"
	"log/slog"
	"testing"

	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/entropy"
	"github.com/talgya/eos-server/internal/hexgrid"
	"github.com/talgya/eos-server/internal/world"
)

func buildWorld(t *testing.T, seed int64) *world.GameState {
	t.Helper()
	cfg := config.Default()
	cfg.World.Seed = seed
	b := NewBuilder(cfg, entropy.New(seed), slog.New(slog.NewTextHandler(io.Discard, nil)))
	st, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return st
}

func TestBuildMatchesConfiguration(t *testing.T) {
	st := buildWorld(t, 42)
	cfg := config.Default()

	if len(st.Systems) != 1 {
		t.Fatalf("expected 1 system, got %d", len(st.Systems))
	}
	var sys *world.System
	for _, s := range st.Systems {
		sys = s
	}
	if len(sys.Bodies) != len(cfg.World.Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(cfg.World.Bodies), len(sys.Bodies))
	}
	total := 0
	for i, b := range sys.Bodies {
		if b.Name != cfg.World.Bodies[i].Name {
			t.Errorf("body %d named %q, want %q", i, b.Name, cfg.World.Bodies[i].Name)
		}
		if len(b.Spaces) != cfg.World.Bodies[i].Spaces {
			t.Errorf("body %q has %d spaces, want %d", b.Name, len(b.Spaces), cfg.World.Bodies[i].Spaces)
		}
		total += len(b.Spaces)
	}
	if len(st.Spaces) != total {
		t.Fatalf("registry holds %d spaces, bodies hold %d", len(st.Spaces), total)
	}
}

func TestBodiesNeverOverlap(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234} {
		st := buildWorld(t, seed)
		seen := make(map[hexgrid.Coord]string)
		for _, sp := range st.Spaces {
			c := sp.Coord()
			if other, ok := seen[c]; ok && other != sp.BodyID {
				t.Fatalf("seed %d: bodies %s and %s share cell %v", seed, other, sp.BodyID, c)
			}
			seen[c] = sp.BodyID
		}
	}
}

func TestSpaceCoordinatesAreConsistent(t *testing.T) {
	st := buildWorld(t, 42)
	for _, sp := range st.Spaces {
		b := st.Bodies[sp.BodyID]
		if b == nil {
			t.Fatalf("space %s references unknown body %s", sp.ID, sp.BodyID)
		}
		if sp.Q != b.Q+sp.RelQ || sp.R != b.R+sp.RelR {
			t.Fatalf("space %s abs (%d,%d) != origin (%d,%d) + rel (%d,%d)",
				sp.ID, sp.Q, sp.R, b.Q, b.R, sp.RelQ, sp.RelR)
		}
	}
}

func TestResourceCatalog(t *testing.T) {
	st := buildWorld(t, 42)
	if len(st.Resources) != len(resourceNames)+1 {
		t.Fatalf("expected %d resources, got %d", len(resourceNames)+1, len(st.Resources))
	}
	if st.Resources[world.FuelID] == nil {
		t.Fatalf("fuel missing from catalog")
	}
	if r := st.FindResourceByName("Iron"); r == nil || r.ID != "res_1" {
		t.Fatalf("Iron should be res_1, got %v", r)
	}
}

func TestEverySpaceHasSeededResources(t *testing.T) {
	st := buildWorld(t, 42)
	cfg := config.Default()
	for _, sp := range st.Spaces {
		distinct := len(sp.Inventory)
		if distinct < cfg.World.ResourceMin || distinct > cfg.World.ResourceMax {
			t.Fatalf("space %s has %d distinct resources, want %d..%d",
				sp.ID, distinct, cfg.World.ResourceMin, cfg.World.ResourceMax)
		}
		for id, qty := range sp.Inventory {
			if qty < cfg.World.ResourceMin || qty > cfg.World.ResourceMax {
				t.Fatalf("space %s resource %s qty %d out of range", sp.ID, id, qty)
			}
		}
	}
}

func TestPortsAnchorEveryBody(t *testing.T) {
	st := buildWorld(t, 42)
	ports := st.SpacePorts()
	if len(ports) != len(st.Bodies) {
		t.Fatalf("expected %d ports, got %d", len(st.Bodies), len(ports))
	}
	for _, p := range ports {
		if !p.Operational {
			t.Errorf("port %s not operational", p.ID)
		}
		anchor := st.Spaces[p.LocationSpaceID]
		if anchor == nil {
			t.Fatalf("port %s anchored on unknown space", p.ID)
		}
		if !st.SystemWideAccessibleSpaces[anchor.ID] {
			t.Errorf("port anchor %s not system-wide accessible", anchor.ID)
		}
		body := st.Bodies[anchor.BodyID]
		if body.Spaces[0].ID != anchor.ID {
			t.Errorf("port %s not on first space of %s", p.ID, body.Name)
		}
	}
}

func TestInitialPlayerSetup(t *testing.T) {
	st := buildWorld(t, 42)
	p := st.Players["player_1"]
	if p == nil {
		t.Fatal("player_1 missing")
	}
	u := st.Units["u1"]
	if u == nil {
		t.Fatal("unit u1 missing")
	}
	if !p.Owns("u1") {
		t.Fatal("player_1 does not own u1")
	}
	cfg := config.Default()
	if got := u.Inventory.Get(world.FuelID); got != cfg.Balance.StartingFuel {
		t.Fatalf("starting fuel = %d, want %d", got, cfg.Balance.StartingFuel)
	}
	for name, want := range startingInventory {
		r := st.FindResourceByName(name)
		if r == nil {
			t.Fatalf("starting resource %q not in catalog", name)
		}
		if got := u.Inventory.Get(r.ID); got != want {
			t.Errorf("starting %s = %d, want %d", name, got, want)
		}
	}
	if !u.Explored[u.LocationSpaceID] {
		t.Fatal("starting space must be explored")
	}
	sp := st.Spaces[u.LocationSpaceID]
	if sp == nil || len(sp.Units) != 1 || sp.Units[0] != "u1" {
		t.Fatalf("unit not present on its starting space")
	}
}

func TestSameSeedSameWorld(t *testing.T) {
	a := buildWorld(t, 99)
	b := buildWorld(t, 99)
	for id, sa := range a.Spaces {
		sb := b.Spaces[id]
		if sb == nil {
			t.Fatalf("space %s missing in second build", id)
		}
		if sa.Q != sb.Q || sa.R != sb.R {
			t.Fatalf("space %s at (%d,%d) vs (%d,%d)", id, sa.Q, sa.R, sb.Q, sb.R)
		}
		for res, qty := range sa.Inventory {
			if sb.Inventory.Get(res) != qty {
				t.Fatalf("space %s resource %s differs between builds", id, res)
			}
		}
	}
}

func TestPlacementFailureIsFatal(t *testing.T) {
	cfg := config.Default()
	cfg.World.Seed = 1
	cfg.World.PlacementAttempts = 1
	// With a single anchor slot the second body lands inside the first
	// body's reserved disk and generation must abort.
	cfg.World.Bodies = []config.BodyDefinition{
		{Name: "Planet 1", Spaces: 50},
		{Name: "Planet 2", Spaces: 50},
	}
	b := NewBuilder(cfg, entropy.New(1), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := b.Build(); err == nil {
		t.Fatal("expected placement failure with one attempt per body")
	}
}

func TestZeroSpaceBodyAbortsGeneration(t *testing.T) {
	cfg := config.Default()
	cfg.World.Bodies = append(cfg.World.Bodies, config.BodyDefinition{Name: "Empty", Spaces: 0})
	b := NewBuilder(cfg, entropy.New(1), slog.New(slog.NewTextHandler(io.Discard, nil)))
	st, err := b.Build()
	if err == nil {
		t.Fatalf("generation succeeded with a zero-space body: %d spaces", len(st.Spaces))
	}
}

func TestEmptyBodyListAbortsGeneration(t *testing.T) {
	cfg := config.Default()
	cfg.World.Bodies = nil
	b := NewBuilder(cfg, entropy.New(1), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := b.Build(); err == nil {
		t.Fatal("generation succeeded with no bodies configured")
	}
}

func TestPlacementConvergesForManyBodies(t *testing.T) {
	cfg := config.Default()
	cfg.World.Bodies = nil
	cfg.World.PlacementAttempts = 200
	for i := 0; i < 12; i++ {
		cfg.World.Bodies = append(cfg.World.Bodies,
			config.BodyDefinition{Name: "Rock", Spaces: 10})
	}
	for _, seed := range []int64{1, 7, 42} {
		cfg.World.Seed = seed
		b := NewBuilder(cfg, entropy.New(seed), slog.New(slog.NewTextHandler(io.Discard, nil)))
		st, err := b.Build()
		if err != nil {
			t.Fatalf("seed %d: placement failed: %v", seed, err)
		}
		if len(st.Spaces) != 120 {
			t.Fatalf("seed %d: %d spaces placed, want 120", seed, len(st.Spaces))
		}
	}
}
