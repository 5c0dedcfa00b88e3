package game

import (
	"fmt"
	"log/slog"

	"github.com/talgya/eos-server/internal/world"
)

// SpacePortService answers queries about the port network. Actual travel is
// executed by the movement service; the calculator already discounts
// port-to-port routes.
type SpacePortService struct {
	st   *world.GameState
	calc *MovementCalculator
	log  *slog.Logger
}

// NewSpacePortService creates the port service.
func NewSpacePortService(st *world.GameState, calc *MovementCalculator, logger *slog.Logger) *SpacePortService {
	return &SpacePortService{st: st, calc: calc, log: logger}
}

// Ports lists every space port with its anchor space and body.
func (s *SpacePortService) Ports() []map[string]any {
	ports := s.st.SpacePorts()
	out := make([]map[string]any, 0, len(ports))
	for _, p := range ports {
		entry := map[string]any{
			"id":             p.ID,
			"name":           p.Name,
			"space_id":       p.LocationSpaceID,
			"is_operational": p.Operational,
		}
		if sp := s.st.Spaces[p.LocationSpaceID]; sp != nil {
			entry["space_name"] = sp.Name
			if b := s.st.Bodies[sp.BodyID]; b != nil {
				entry["body_id"] = b.ID
				entry["body_name"] = b.Name
			}
		}
		out = append(out, entry)
	}
	return out
}

// Destinations lists the port anchors a unit could travel to from its
// current space, priced. Only listed when the unit's body connection
// qualifies for the port fare, otherwise the generic quote is shown.
func (s *SpacePortService) Destinations(unitID string) ([]Destination, error) {
	u := s.st.FindUnit(unitID)
	if u == nil {
		return nil, fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
	}
	from := s.st.Spaces[u.LocationSpaceID]
	if from == nil {
		return nil, fmt.Errorf("%w: unit %s is nowhere", ErrInvalidLocation, u.ID)
	}
	fuel := u.Inventory.Get(world.FuelID)

	var out []Destination
	for _, p := range s.st.SpacePorts() {
		anchor := s.st.Spaces[p.LocationSpaceID]
		if anchor == nil || anchor.ID == from.ID || anchor.BodyID == from.BodyID {
			continue
		}
		q, err := s.calc.Quote(from, anchor)
		if err != nil {
			continue
		}
		out = append(out, Destination{
			SpaceID:   anchor.ID,
			Name:      anchor.Name,
			Cost:      q.Cost,
			Type:      q.Type,
			CanAfford: fuel >= q.Cost,
		})
	}
	return out, nil
}
