package game

import (
	"fmt"
	"log/slog"

	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// Mining drone build parameters.
const (
	droneLifespan      = 30
	droneCargoCapacity = 10
)

// droneCost prices one mining drone, keyed by resource display name. Fuel
// is charged by ID since it is not part of the positional catalog.
var droneCost = map[string]int{"Iron": 10}

const droneFuelCost = 5

// UnitFactoryService builds autonomous units at factories.
type UnitFactoryService struct {
	st  *world.GameState
	bal config.BalanceConfig
	log *slog.Logger
}

// NewUnitFactoryService creates the factory service.
func NewUnitFactoryService(st *world.GameState, bal config.BalanceConfig, logger *slog.Logger) *UnitFactoryService {
	return &UnitFactoryService{st: st, bal: bal, log: logger}
}

// Status reports a factory's readiness: cooldown, supported types, and the
// drone price.
func (s *UnitFactoryService) Status(factoryID string) (map[string]any, error) {
	f, err := s.factory(factoryID)
	if err != nil {
		return nil, err
	}
	cost := map[string]int{}
	for name, qty := range droneCost {
		cost[name] = qty
	}
	cost["Fuel"] = droneFuelCost
	return map[string]any{
		"id":                   f.ID,
		"build_cooldown":       f.BuildCooldown,
		"can_build_this_turn":  f.BuildCooldown == 0,
		"supported_unit_types": append([]string{}, f.SupportedUnitTypes...),
		"unit_cost":            cost,
	}, nil
}

// BuildUnitRequest asks a factory to construct an autonomous unit for the
// unit standing next to it. TargetResource is the display name the new
// drone will mine; it defaults to Iron.
type BuildUnitRequest struct {
	PlayerID       string
	UnitID         string
	FactoryID      string
	UnitType       string
	TargetResource string
}

// BuildUnit validates cooldown, colocation, and price, debits the payer,
// and spawns a mining drone homed on the factory. The factory then enters
// its cooldown.
func (s *UnitFactoryService) BuildUnit(req BuildUnitRequest) (*world.Unit, error) {
	payer, err := authorizedUnit(s.st, req.PlayerID, req.UnitID)
	if err != nil {
		return nil, err
	}
	f, err := s.factory(req.FactoryID)
	if err != nil {
		return nil, err
	}
	if payer.LocationSpaceID != f.LocationSpaceID {
		return nil, fmt.Errorf("%w: %s is not at the factory", ErrInvalidLocation, payer.Name)
	}
	unitType := req.UnitType
	if unitType == "" {
		unitType = string(world.UnitMiningDrone)
	}
	if !f.CanBuildUnit(unitType) {
		if f.BuildCooldown > 0 {
			return nil, fmt.Errorf("%w: factory cooling down for %d more tick(s)",
				ErrInvalidInput, f.BuildCooldown)
		}
		return nil, fmt.Errorf("%w: factory cannot build %q", ErrInvalidInput, unitType)
	}

	targetName := req.TargetResource
	if targetName == "" {
		targetName = "Iron"
	}
	target := s.st.FindResourceByName(targetName)
	if target == nil {
		return nil, fmt.Errorf("%w: resource %q", ErrNotFound, targetName)
	}

	debit := inventory.Map{world.FuelID: -droneFuelCost}
	if !affordable(payer.Inventory, world.FuelID, droneFuelCost) {
		return nil, fmt.Errorf("%w: need %d Fuel, have %d",
			ErrInsufficientResource, droneFuelCost, payer.Inventory.Get(world.FuelID))
	}
	for name, qty := range droneCost {
		res := s.st.FindResourceByName(name)
		if res == nil {
			return nil, fmt.Errorf("%w: requirement %q not in catalog", ErrInvalidInput, name)
		}
		if !affordable(payer.Inventory, res.ID, qty) {
			return nil, fmt.Errorf("%w: need %d %s, have %d",
				ErrInsufficientResource, qty, name, payer.Inventory.Get(res.ID))
		}
		debit[res.ID] = -qty
	}
	inventory.Apply(payer.Inventory, debit)

	drone := world.NewMiningDrone(
		"mining_drone_"+shortID(),
		f.LocationSpaceID,
		target.ID,
		f.ID,
		droneLifespan,
		droneCargoCapacity,
	)
	s.st.AddUnit(drone)
	if p := s.st.Players[req.PlayerID]; p != nil {
		p.AddEntity(drone.ID)
	}
	f.BuildCooldown = s.bal.FactoryCooldown

	s.log.Info("unit built",
		"unit", drone.ID, "factory", f.ID, "target_resource", target.Name)
	return drone, nil
}

func (s *UnitFactoryService) factory(id string) (*world.Structure, error) {
	f := s.st.Structures[id]
	if f == nil {
		return nil, fmt.Errorf("%w: structure %s", ErrNotFound, id)
	}
	if f.Kind != world.StructureFactory {
		return nil, fmt.Errorf("%w: %s is not a factory", ErrInvalidInput, f.Name)
	}
	return f, nil
}
