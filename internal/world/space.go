package world

import (
	"fmt"

	"github.com/talgya/eos-server/internal/hexgrid"
	"github.com/talgya/eos-server/internal/inventory"
)

// Default per-space capacity limits.
const (
	DefaultMaxBuildings = 1
	DefaultMaxUnits     = 2
)

// Space is one hex cell on a body. It holds a resource inventory, the
// structures built on it, and the units currently present.
type Space struct {
	ID     string
	BodyID string
	Name   string

	// Relative coordinates within the body's spiral.
	RelQ int
	RelR int

	// Absolute coordinates: always body origin + relative offset.
	Q int
	R int

	Inventory inventory.Map

	// Structures and Units are registry-managed attachments. They are
	// rebuilt from the structure and unit tables on load, never
	// serialized inline.
	Structures []*Structure `json:"-"`
	Units      []string     `json:"-"`

	MaxBuildings int
	MaxUnits     int
}

// SpaceID derives the deterministic space ID from body and relative coords.
func SpaceID(bodyID string, relQ, relR int) string {
	return fmt.Sprintf("body:%s:%d:%d", bodyID, relQ, relR)
}

// NewSpace creates a space at the given relative coordinates of a body.
func NewSpace(bodyID, name string, relQ, relR int) *Space {
	return &Space{
		ID:           SpaceID(bodyID, relQ, relR),
		BodyID:       bodyID,
		Name:         name,
		RelQ:         relQ,
		RelR:         relR,
		Inventory:    make(inventory.Map),
		MaxBuildings: DefaultMaxBuildings,
		MaxUnits:     DefaultMaxUnits,
	}
}

// SetOrigin recomputes absolute coordinates from the owning body's origin.
func (s *Space) SetOrigin(bodyQ, bodyR int) {
	s.Q = bodyQ + s.RelQ
	s.R = bodyR + s.RelR
}

// Coord returns the absolute hex coordinate of the space.
func (s *Space) Coord() hexgrid.Coord {
	return hexgrid.Coord{Q: s.Q, R: s.R}
}

// RelCoord returns the body-relative hex coordinate of the space.
func (s *Space) RelCoord() hexgrid.Coord {
	return hexgrid.Coord{Q: s.RelQ, R: s.RelR}
}

// HasBuildingSlot reports whether another structure fits on this space.
func (s *Space) HasBuildingSlot() bool {
	return len(s.Structures) < s.MaxBuildings
}

// removeUnit drops a unit ID from the presence list.
func (s *Space) removeUnit(unitID string) {
	for i, id := range s.Units {
		if id == unitID {
			s.Units = append(s.Units[:i], s.Units[i+1:]...)
			return
		}
	}
}

// Snapshot returns the serialized view of the space.
func (s *Space) Snapshot(st *GameState) map[string]any {
	structures := make([]map[string]any, 0, len(s.Structures))
	for _, b := range s.Structures {
		structures = append(structures, b.Snapshot(st))
	}
	return map[string]any{
		"id":              s.ID,
		"body_id":         s.BodyID,
		"name":            s.Name,
		"body_rel_q":      s.RelQ,
		"body_rel_r":      s.RelR,
		"q":               s.Q,
		"r":               s.R,
		"inventory":       map[string]int(s.Inventory),
		"named_inventory": inventory.Named(s.Inventory, st),
		"structures":      structures,
		"units":           append([]string{}, s.Units...),
		"max_buildings":   s.MaxBuildings,
		"max_units":       s.MaxUnits,
	}
}
