package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/eos-server/internal/hexgrid"
	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// structureRequirements prices each buildable kind, keyed by resource
// display name. Space ports ship with the world and cannot be built.
var structureRequirements = map[world.StructureKind]map[string]int{
	world.StructureCollector:  {"Silver": 2, "Ore": 1},
	world.StructureFactory:    {"Algae": 2, "SpaceDust": 3},
	world.StructureSettlement: {"Fungus": 4},
	world.StructureFuelPump:   {"Ore": 2, "Crystal": 1},
	world.StructureScanner:    {"Ore": 1, "Silicon": 1},
}

// scannerRevealRadius is how far a freshly built scanner maps the
// surrounding spaces for its builder.
const scannerRevealRadius = 2

// BuildingService validates and executes structure construction.
type BuildingService struct {
	st    *world.GameState
	build *BuildAbility
	log   *slog.Logger
}

// NewBuildingService creates the building service.
func NewBuildingService(st *world.GameState, logger *slog.Logger) *BuildingService {
	return &BuildingService{st: st, build: &BuildAbility{}, log: logger}
}

// Requirements returns the resource price of a structure type, keyed by
// display name. Unknown or unbuildable types are an input error.
func (s *BuildingService) Requirements(structureType string) (map[string]int, error) {
	_, reqs, err := s.buildable(structureType)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(reqs))
	for name, qty := range reqs {
		out[name] = qty
	}
	return out, nil
}

// CanAfford reports whether the unit covers the full requirement set, with
// a breakdown of what is missing, keyed by display name.
func (s *BuildingService) CanAfford(unitID, structureType string) (bool, map[string]int, error) {
	u := s.st.FindUnit(unitID)
	if u == nil {
		return false, nil, fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
	}
	_, reqs, err := s.buildable(structureType)
	if err != nil {
		return false, nil, err
	}
	missing := make(map[string]int)
	for name, qty := range reqs {
		res := s.st.FindResourceByName(name)
		if res == nil {
			missing[name] = qty
			continue
		}
		if have := u.Inventory.Get(res.ID); have < qty {
			missing[name] = qty - have
		}
	}
	return len(missing) == 0, missing, nil
}

// BuildRequest asks to construct a structure on the unit's current space.
type BuildRequest struct {
	PlayerID      string
	UnitID        string
	StructureType string
}

// Build checks the slot and the full requirement set, debits the batch
// atomically, and registers the new structure under the player. A scanner
// additionally reveals nearby spaces to its builder.
func (s *BuildingService) Build(req BuildRequest) (*world.Structure, error) {
	u, err := authorizedUnit(s.st, req.PlayerID, req.UnitID)
	if err != nil {
		return nil, err
	}
	if !u.HasAbility(AbilityBuild) {
		return nil, fmt.Errorf("%w: %s cannot build", ErrInvalidInput, u.Name)
	}
	kind, reqs, err := s.buildable(req.StructureType)
	if err != nil {
		return nil, err
	}
	sp := s.st.Spaces[u.LocationSpaceID]
	if sp == nil {
		return nil, fmt.Errorf("%w: unit %s is nowhere", ErrInvalidLocation, u.ID)
	}
	if !sp.HasBuildingSlot() {
		return nil, fmt.Errorf("%w: %s already holds %d structure(s)",
			ErrSlotFull, sp.Name, len(sp.Structures))
	}

	cost := make(inventory.Map, len(reqs))
	for name, qty := range reqs {
		res := s.st.FindResourceByName(name)
		if res == nil {
			return nil, fmt.Errorf("%w: requirement %q not in catalog", ErrInvalidInput, name)
		}
		cost[res.ID] = qty
	}

	id := fmt.Sprintf("%s_%s", strings.ToLower(string(kind)), shortID())
	structure := world.NewStructure(kind, id, sp.ID)
	if err := s.build.Perform(s.st, u, BuildParams{Structure: structure, Cost: cost}); err != nil {
		return nil, err
	}
	if p := s.st.Players[req.PlayerID]; p != nil {
		p.AddEntity(structure.ID)
	}
	if kind == world.StructureScanner {
		s.reveal(u, sp)
	}
	s.log.Info("structure built",
		"structure", structure.ID, "kind", string(kind), "space", sp.ID, "unit", u.ID)
	return structure, nil
}

// reveal marks every same-body space within the scanner radius as explored
// by the builder.
func (s *BuildingService) reveal(u *world.Unit, from *world.Space) {
	body := s.st.BodyOf(from)
	if body == nil {
		return
	}
	for _, sp := range body.Spaces {
		if hexgrid.Distance(from.RelCoord(), sp.RelCoord()) <= scannerRevealRadius {
			u.MarkExplored(sp.ID)
		}
	}
}

// buildable resolves a structure type string to a kind with a requirement
// set. Matching is case-insensitive on the kind name.
func (s *BuildingService) buildable(structureType string) (world.StructureKind, map[string]int, error) {
	for kind, reqs := range structureRequirements {
		if strings.EqualFold(string(kind), structureType) {
			return kind, reqs, nil
		}
	}
	return "", nil, fmt.Errorf("%w: unknown structure type %q", ErrInvalidInput, structureType)
}

// shortID returns an eight-character unique suffix for entity IDs.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
