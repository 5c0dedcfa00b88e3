package game

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/hexgrid"
	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// MoveType classifies how a unit travels between two spaces.
type MoveType string

const (
	MoveLocal     MoveType = "local"      // hex steps on the same body
	MoveInterBody MoveType = "inter_body" // generic jump between bodies
	MoveSpacePort MoveType = "space_port" // port-to-port discounted jump
)

// Quote is a priced route between two spaces.
type Quote struct {
	Cost int
	Type MoveType
}

// MovementCalculator is the single pricing authority for movement. Both the
// preview path and the charge path call Quote, so a displayed cost is always
// the charged cost.
type MovementCalculator struct {
	st  *world.GameState
	bal config.BalanceConfig
}

// NewMovementCalculator creates the pricing authority.
func NewMovementCalculator(st *world.GameState, bal config.BalanceConfig) *MovementCalculator {
	return &MovementCalculator{st: st, bal: bal}
}

// Quote prices travel from one space to another. Same-body travel costs the
// hex distance, capped at the maximum range. Between bodies, a pair of
// operational mutually connecting ports gives the discounted port fare;
// anything else pays the generic inter-body cost.
func (mc *MovementCalculator) Quote(from, to *world.Space) (Quote, error) {
	if from == nil || to == nil {
		return Quote{}, fmt.Errorf("%w: missing endpoint", ErrInvalidLocation)
	}
	if from.ID == to.ID {
		return Quote{}, fmt.Errorf("%w: already at %s", ErrInvalidLocation, to.Name)
	}
	if from.BodyID == to.BodyID {
		d := hexgrid.Distance(from.Coord(), to.Coord())
		if d > mc.bal.MaxSameBodyDistance {
			return Quote{}, fmt.Errorf("%w: target too far (%d > %d)",
				ErrInvalidLocation, d, mc.bal.MaxSameBodyDistance)
		}
		return Quote{Cost: d * mc.bal.LocalMoveCost, Type: MoveLocal}, nil
	}
	if mc.portsConnect(from, to) {
		return Quote{Cost: mc.bal.SpacePortCost, Type: MoveSpacePort}, nil
	}
	return Quote{Cost: mc.bal.InterBodyCost, Type: MoveInterBody}, nil
}

// portsConnect reports whether both spaces host operational ports that can
// route to each other.
func (mc *MovementCalculator) portsConnect(from, to *world.Space) bool {
	for _, a := range from.Structures {
		if a.Kind != world.StructureSpacePort {
			continue
		}
		for _, b := range to.Structures {
			if a.CanConnectTo(b) && b.CanConnectTo(a) {
				return true
			}
		}
	}
	return false
}

// Destination is one priced entry of a movement preview.
type Destination struct {
	SpaceID   string   `json:"space_id"`
	Name      string   `json:"name"`
	Cost      int      `json:"cost"`
	Type      MoveType `json:"movement_type"`
	CanAfford bool     `json:"can_afford"`
}

// MovementService validates and executes unit movement.
type MovementService struct {
	st   *world.GameState
	calc *MovementCalculator
	move *MoveAbility
	log  *slog.Logger
}

// NewMovementService creates the movement service.
func NewMovementService(st *world.GameState, calc *MovementCalculator, logger *slog.Logger) *MovementService {
	return &MovementService{st: st, calc: calc, move: &MoveAbility{}, log: logger}
}

// MoveRequest names a movement target either by direction index (0-5) or by
// target space ID. Exactly one must be set; Direction is nil when unused.
type MoveRequest struct {
	PlayerID      string
	UnitID        string
	Direction     *int
	TargetSpaceID string
}

// MoveUnit resolves the target, prices the route, charges fuel, and
// relocates the unit. Direction moves also set the unit's facing.
func (s *MovementService) MoveUnit(req MoveRequest) (*world.Space, Quote, error) {
	u, err := s.authorizedUnit(req.PlayerID, req.UnitID)
	if err != nil {
		return nil, Quote{}, err
	}
	if !u.HasAbility(AbilityMove) {
		return nil, Quote{}, fmt.Errorf("%w: %s cannot move", ErrInvalidInput, u.Name)
	}
	from := s.st.Spaces[u.LocationSpaceID]

	var target *world.Space
	switch {
	case req.Direction != nil:
		if *req.Direction < 0 || *req.Direction > 5 {
			return nil, Quote{}, fmt.Errorf("%w: direction %d out of range", ErrInvalidInput, *req.Direction)
		}
		target = s.st.TargetSpaceFromDirection(u, *req.Direction)
		if target == nil {
			return nil, Quote{}, fmt.Errorf("%w: no space in that direction", ErrInvalidLocation)
		}
	case req.TargetSpaceID != "":
		target = s.st.Spaces[req.TargetSpaceID]
		if target == nil {
			return nil, Quote{}, fmt.Errorf("%w: space %s", ErrNotFound, req.TargetSpaceID)
		}
	default:
		return nil, Quote{}, fmt.Errorf("%w: direction or target space required", ErrInvalidInput)
	}

	q, err := s.calc.Quote(from, target)
	if err != nil {
		return nil, Quote{}, err
	}
	if err := s.move.Perform(s.st, u, MoveParams{Target: target, FuelCost: q.Cost}); err != nil {
		return nil, Quote{}, err
	}
	if req.Direction != nil {
		u.Facing = *req.Direction
	}
	s.log.Info("unit moved",
		"unit", u.ID, "to", target.ID, "cost", q.Cost, "type", string(q.Type))
	return target, q, nil
}

// Cost prices a route without executing it.
func (s *MovementService) Cost(unitID, targetSpaceID string) (Quote, error) {
	u := s.st.FindUnit(unitID)
	if u == nil {
		return Quote{}, fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
	}
	target := s.st.Spaces[targetSpaceID]
	if target == nil {
		return Quote{}, fmt.Errorf("%w: space %s", ErrNotFound, targetSpaceID)
	}
	return s.calc.Quote(s.st.Spaces[u.LocationSpaceID], target)
}

// Destinations previews every space the unit could target, priced, with an
// affordability flag against the unit's current fuel.
func (s *MovementService) Destinations(unitID string) ([]Destination, error) {
	u := s.st.FindUnit(unitID)
	if u == nil {
		return nil, fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
	}
	from := s.st.Spaces[u.LocationSpaceID]
	fuel := u.Inventory.Get(world.FuelID)

	var out []Destination
	for _, sp := range s.st.AccessibleSpaces(u) {
		q, err := s.calc.Quote(from, sp)
		if err != nil {
			continue // out of range targets are simply not listed
		}
		out = append(out, Destination{
			SpaceID:   sp.ID,
			Name:      sp.Name,
			Cost:      q.Cost,
			Type:      q.Type,
			CanAfford: fuel >= q.Cost,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].SpaceID < out[j].SpaceID
	})
	return out, nil
}

// authorizedUnit resolves a unit and checks the caller owns it.
func (s *MovementService) authorizedUnit(playerID, unitID string) (*world.Unit, error) {
	return authorizedUnit(s.st, playerID, unitID)
}

// authorizedUnit is the shared ownership gate for player-triggered actions.
func authorizedUnit(st *world.GameState, playerID, unitID string) (*world.Unit, error) {
	u := st.FindUnit(unitID)
	if u == nil {
		return nil, fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
	}
	p := st.Players[playerID]
	if p == nil {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if !p.Owns(u.ID) {
		return nil, fmt.Errorf("%w: %s does not control %s", ErrPermissionDenied, playerID, u.ID)
	}
	return u, nil
}

// affordable checks a single-resource debit before applying it.
func affordable(m inventory.Map, resourceID string, amount int) bool {
	return m.Get(resourceID) >= amount
}
