package world

import (
	"fmt"

	"github.com/talgya/eos-server/internal/inventory"
)

// StructureKind discriminates the closed set of structure variants.
type StructureKind string

const (
	StructureCollector  StructureKind = "Collector"
	StructureFactory    StructureKind = "Factory"
	StructureSettlement StructureKind = "Settlement"
	StructureFuelPump   StructureKind = "FuelPump"
	StructureScanner    StructureKind = "Scanner"
	StructureSpacePort  StructureKind = "SpacePort"
)

// StructureKinds lists every buildable kind.
var StructureKinds = []StructureKind{
	StructureCollector,
	StructureFactory,
	StructureSettlement,
	StructureFuelPump,
	StructureScanner,
	StructureSpacePort,
}

// displayNames maps kinds to player-facing names where they differ.
var displayNames = map[StructureKind]string{
	StructureFuelPump:  "Fuel Pump",
	StructureSpacePort: "Space Port",
}

// Structure is a fixed installation on a space. Kind selects the variant;
// kind-specific payload fields are meaningful only for their kind.
type Structure struct {
	ID              string
	Name            string
	Kind            StructureKind
	LocationSpaceID string
	Inventory       inventory.Map
	Explored        map[string]bool

	// Factory payload.
	BuildCooldown      int
	SupportedUnitTypes []string

	// Space Port payload.
	Operational bool
}

// NewStructure creates a structure of the given kind at a space.
func NewStructure(kind StructureKind, id, locationSpaceID string) *Structure {
	name := string(kind)
	if dn, ok := displayNames[kind]; ok {
		name = dn
	}
	s := &Structure{
		ID:              id,
		Name:            name,
		Kind:            kind,
		LocationSpaceID: locationSpaceID,
		Inventory:       make(inventory.Map),
		Explored:        make(map[string]bool),
	}
	switch kind {
	case StructureFactory:
		s.SupportedUnitTypes = []string{string(UnitMiningDrone)}
	case StructureSpacePort:
		s.Operational = true
	}
	return s
}

// IsCollectionPoint reports whether the structure accepts resource deposits
// from units. Collectors, factories, settlements, and space ports do.
func (s *Structure) IsCollectionPoint() bool {
	switch s.Kind {
	case StructureCollector, StructureFactory, StructureSettlement, StructureSpacePort:
		return true
	}
	return false
}

// CanAcceptDeposit validates a prospective deposit without applying it.
func (s *Structure) CanAcceptDeposit(resourceID string, amount int) error {
	if !s.IsCollectionPoint() {
		return fmt.Errorf("%s does not accept deposits", s.Name)
	}
	if amount <= 0 {
		return fmt.Errorf("invalid deposit amount %d", amount)
	}
	return nil
}

// AcceptDeposit credits the structure's inventory through the ledger.
func (s *Structure) AcceptDeposit(resourceID string, amount int) error {
	if err := s.CanAcceptDeposit(resourceID, amount); err != nil {
		return err
	}
	inventory.Apply(s.Inventory, inventory.Map{resourceID: amount})
	return nil
}

// CanConnectTo reports whether two space ports can route travel between
// each other: both must be ports and operational.
func (s *Structure) CanConnectTo(other *Structure) bool {
	return s.Kind == StructureSpacePort && other != nil &&
		other.Kind == StructureSpacePort &&
		s.Operational && other.Operational
}

// CanBuildUnit reports whether a factory is ready to construct the given
// unit type this tick.
func (s *Structure) CanBuildUnit(unitType string) bool {
	if s.Kind != StructureFactory || s.BuildCooldown > 0 {
		return false
	}
	for _, t := range s.SupportedUnitTypes {
		if t == unitType {
			return true
		}
	}
	return false
}

// Snapshot returns the serialized view of the structure, with kind-specific
// fields.
func (s *Structure) Snapshot(st *GameState) map[string]any {
	out := map[string]any{
		"id":                  s.ID,
		"name":                s.Name,
		"structure_type":      string(s.Kind),
		"location_space_id":   s.LocationSpaceID,
		"inventory":           map[string]int(s.Inventory),
		"named_inventory":     inventory.Named(s.Inventory, st),
		"is_collection_point": s.IsCollectionPoint(),
	}
	switch s.Kind {
	case StructureFactory:
		out["build_cooldown"] = s.BuildCooldown
		out["can_build_this_turn"] = s.BuildCooldown == 0
		out["supported_unit_types"] = append([]string{}, s.SupportedUnitTypes...)
	case StructureSpacePort:
		out["is_operational"] = s.Operational
	}
	return out
}
