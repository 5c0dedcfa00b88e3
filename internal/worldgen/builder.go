// Package worldgen procedurally assembles the starting game state: the
// resource catalog, the system with its bodies and spaces, seeded space
// inventories, port anchors, and the initial player.
package worldgen

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/entropy"
	"github.com/talgya/eos-server/internal/hexgrid"
	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// resourceNames is the fixed catalog. IDs are assigned positionally as
// res_1..res_N; names are only used at the presentation boundary.
var resourceNames = []string{
	"Iron", "Crystal", "Gas", "Ice", "Silver", "Algae", "Silicon", "Copper",
	"Sand", "Carbon", "Nickel", "Stone", "Obsidian", "Quartz", "Dust",
	"Water", "Oil", "Fish", "Plasma", "Fungus", "Xenonite", "Ore",
	"SpaceDust",
}

// startingInventory is the initial grubstake of the first player, keyed by
// resource name. Enough to build one of each basic structure, plus fuel.
var startingInventory = map[string]int{
	"Silver":    2,
	"Algae":     2,
	"Silicon":   1,
	"Fungus":    4,
	"Ore":       4,
	"SpaceDust": 3,
	"Crystal":   1,
}

// Builder generates a game state from configuration. All randomness flows
// through the injected entropy source, so equal seeds produce equal worlds.
type Builder struct {
	cfg       *config.Config
	rng       *entropy.Source
	abundance opensimplex.Noise
	log       *slog.Logger
}

// NewBuilder creates a builder. The noise layer biasing resource abundance
// shares the world seed so it is reproducible alongside the PRNG.
func NewBuilder(cfg *config.Config, rng *entropy.Source, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:       cfg,
		rng:       rng,
		abundance: opensimplex.NewNormalized(cfg.World.Seed),
		log:       logger,
	}
}

// Build assembles the complete starting state. Generation aborts, leaving
// no partial world, when the body list is malformed or body placement cannot
// find room within the configured attempt budget.
func (b *Builder) Build() (*world.GameState, error) {
	if len(b.cfg.World.Bodies) == 0 {
		return nil, fmt.Errorf("world has no bodies configured")
	}
	for _, def := range b.cfg.World.Bodies {
		if def.Spaces <= 0 {
			return nil, fmt.Errorf("body %q has no spaces", def.Name)
		}
	}

	st := world.NewGameState()
	b.buildResourceCatalog(st)

	sys := &world.System{
		ID:   uuid.NewString(),
		Name: b.cfg.World.SystemName,
	}
	if err := b.placeBodies(sys); err != nil {
		return nil, err
	}
	st.AddSystem(sys)

	b.placePorts(st, sys)
	b.seedResources(st, sys)
	b.placeInitialPlayer(st, sys)

	b.log.Info("world generated",
		"system", sys.Name,
		"bodies", len(sys.Bodies),
		"spaces", len(st.Spaces),
		"resources", len(st.Resources))
	return st, nil
}

// buildResourceCatalog registers the positional catalog plus the
// distinguished fuel resource.
func (b *Builder) buildResourceCatalog(st *world.GameState) {
	for i, name := range resourceNames {
		st.AddResource(&world.Resource{
			ID:   fmt.Sprintf("res_%d", i+1),
			Name: name,
		})
	}
	st.AddResource(&world.Resource{ID: world.FuelID, Name: "Fuel"})
}

// placeBodies anchors each configured body on an outward spiral of slots
// scaled by the body's footprint, reserving a disk of its estimated radius
// plus spacing so no two bodies' spaces can ever overlap. Each candidate
// anchor gets a small jitter so the layout is organic rather than a perfect
// lattice.
func (b *Builder) placeBodies(sys *world.System) error {
	occupied := make(map[hexgrid.Coord]bool)

	for i, def := range b.cfg.World.Bodies {
		radius := hexgrid.EstimateBodyRadius(def.Spaces)
		step := radius + b.cfg.World.BodySpacing
		slots := hexgrid.FirstN(b.cfg.World.PlacementAttempts)
		placed := false

		for attempt, slot := range slots {
			candidate := slot.Scale(step)
			if i > 0 || attempt > 0 {
				candidate = candidate.Add(hexgrid.Coord{
					Q: b.rng.Jitter(),
					R: b.rng.Jitter(),
				})
			}
			if !b.diskFree(occupied, candidate, radius) {
				continue
			}
			for _, c := range hexgrid.Spiral(candidate, step) {
				occupied[c] = true
			}
			body := &world.Body{
				ID:       fmt.Sprintf("body_%d", i+1),
				SystemID: sys.ID,
				Name:     def.Name,
				Q:        candidate.Q,
				R:        candidate.R,
			}
			b.buildSpaces(body, def)
			sys.Bodies = append(sys.Bodies, body)
			b.log.Debug("placed body",
				"body", def.Name, "q", candidate.Q, "r", candidate.R,
				"radius", radius, "attempts", attempt+1)
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("no room for body %q after %d placement attempts",
				def.Name, b.cfg.World.PlacementAttempts)
		}
	}
	return nil
}

func (b *Builder) diskFree(occupied map[hexgrid.Coord]bool, center hexgrid.Coord, radius int) bool {
	for _, c := range hexgrid.Spiral(center, radius) {
		if occupied[c] {
			return false
		}
	}
	return true
}

// buildSpaces fills a body with its configured number of spaces in spiral
// expansion order.
func (b *Builder) buildSpaces(body *world.Body, def config.BodyDefinition) {
	for n := 1; n <= def.Spaces; n++ {
		q, r := body.NextSpaceCoords()
		name := fmt.Sprintf("%s - Space %d", def.Name, n)
		body.AddSpace(world.NewSpace(body.ID, name, q, r))
	}
}

// placePorts builds a space port on the first space of every body and marks
// that space reachable system-wide.
func (b *Builder) placePorts(st *world.GameState, sys *world.System) {
	for i, body := range sys.Bodies {
		anchor := body.Spaces[0]
		st.SystemWideAccessibleSpaces[anchor.ID] = true
		port := world.NewStructure(world.StructureSpacePort,
			fmt.Sprintf("port_%d", i+1), anchor.ID)
		st.AddStructure(port)
	}
}

// seedResources scatters 1..N distinct resources on every space, with
// quantities biased by a smooth abundance field so neighboring spaces tend
// to be similarly rich.
func (b *Builder) seedResources(st *world.GameState, sys *world.System) {
	minQ, maxQ := b.cfg.World.ResourceMin, b.cfg.World.ResourceMax
	for _, body := range sys.Bodies {
		for _, sp := range body.Spaces {
			count := b.rng.Between(minQ, maxQ)
			deltas := make(inventory.Map, count)
			for _, idx := range b.rng.Sample(len(resourceNames), count) {
				a := b.abundance.Eval2(float64(sp.Q)*0.15, float64(sp.R)*0.15)
				qty := minQ + int(a*float64(maxQ-minQ+1))
				if qty > maxQ {
					qty = maxQ
				}
				deltas[fmt.Sprintf("res_%d", idx+1)] = qty
			}
			inventory.Apply(sp.Inventory, deltas)
		}
	}
}

// placeInitialPlayer creates player_1 with the explorer unit on the first
// space of the first body, holding the starting grubstake.
func (b *Builder) placeInitialPlayer(st *world.GameState, sys *world.System) {
	player := world.NewPlayer("player_1", "Player One")
	st.AddPlayer(player)

	u := world.NewPlayerUnit("u1")
	u.LocationSpaceID = sys.Bodies[0].Spaces[0].ID
	grubstake := make(inventory.Map, len(startingInventory)+1)
	for name, qty := range startingInventory {
		if r := st.FindResourceByName(name); r != nil {
			grubstake[r.ID] = qty
		}
	}
	grubstake[world.FuelID] = b.cfg.Balance.StartingFuel
	inventory.Apply(u.Inventory, grubstake)
	u.MarkExplored(u.LocationSpaceID)

	st.AddUnit(u)
	player.AddEntity(u.ID)
}
