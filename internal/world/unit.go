package world

import "github.com/talgya/eos-server/internal/inventory"

// UnitKind discriminates the closed set of unit variants.
type UnitKind string

const (
	UnitPlayer      UnitKind = "player"
	UnitMiningDrone UnitKind = "mining_drone"
)

// DroneState is the autonomous-unit state machine vocabulary.
type DroneState string

const (
	DroneIdle      DroneState = "idle"
	DroneSearch    DroneState = "search"
	DroneCollect   DroneState = "collect"
	DroneDeposit   DroneState = "deposit"
	DroneReturning DroneState = "returning"
	DroneExpired   DroneState = "expired"
)

// DroneScratch is the per-state scratch space of an autonomous unit.
type DroneScratch struct {
	TargetSpaceID string `json:"target_location"`
	TurnsInState  int    `json:"turns_in_state"`
}

// Unit is a mobile actor. Kind selects the variant: player units carry the
// full ability set and passive fuel regen, mining drones carry the
// autonomous payload (lifespan, state machine, cargo settings).
type Unit struct {
	ID              string
	Name            string
	Kind            UnitKind
	LocationSpaceID string
	Inventory       inventory.Map
	Health          int
	Damage          int
	Abilities       []string
	Explored        map[string]bool
	Facing          int // last movement direction index (0-5)

	// Autonomous payload, meaningful when Autonomous() is true.
	Lifespan            int
	State               DroneState
	Scratch             DroneScratch
	CargoCapacity       int
	TargetResource      string
	HomeCollectionPoint string // structure ID
}

// NewPlayerUnit creates the player-controlled explorer unit.
func NewPlayerUnit(id string) *Unit {
	return &Unit{
		ID:        id,
		Name:      "Explorer",
		Kind:      UnitPlayer,
		Inventory: make(inventory.Map),
		Health:    100,
		Abilities: []string{"move", "collect", "build"},
		Explored:  make(map[string]bool),
	}
}

// NewMiningDrone creates an autonomous mining drone in the search state.
func NewMiningDrone(id, locationSpaceID, targetResource, homeCollectionPoint string, lifespan, cargoCapacity int) *Unit {
	return &Unit{
		ID:                  id,
		Name:                "Mining Drone",
		Kind:                UnitMiningDrone,
		LocationSpaceID:     locationSpaceID,
		Inventory:           inventory.Map{FuelID: 10},
		Health:              50,
		Abilities:           []string{"move", "collect"},
		Explored:            make(map[string]bool),
		Lifespan:            lifespan,
		State:               DroneSearch,
		CargoCapacity:       cargoCapacity,
		TargetResource:      targetResource,
		HomeCollectionPoint: homeCollectionPoint,
	}
}

// Autonomous reports whether the unit runs on the AI state machine.
func (u *Unit) Autonomous() bool {
	return u.Kind != UnitPlayer
}

// Cargo returns the non-fuel load the unit is carrying.
func (u *Unit) Cargo() int {
	return u.Inventory.Total(FuelID)
}

// HasAbility reports whether the unit supports the named ability.
func (u *Unit) HasAbility(name string) bool {
	for _, a := range u.Abilities {
		if a == name {
			return true
		}
	}
	return false
}

// MarkExplored appends a space to the unit's visibility log. The log only
// grows; spaces are never unexplored.
func (u *Unit) MarkExplored(spaceID string) {
	if u.Explored == nil {
		u.Explored = make(map[string]bool)
	}
	u.Explored[spaceID] = true
}

// ChangeState transitions the autonomous state machine and resets the
// scratch space for the new state.
func (u *Unit) ChangeState(state DroneState, targetSpaceID string) {
	u.State = state
	u.Scratch = DroneScratch{TargetSpaceID: targetSpaceID}
}

// Snapshot returns the serialized view of the unit, with kind-specific
// fields for autonomous variants.
func (u *Unit) Snapshot(st *GameState) map[string]any {
	explored := make([]string, 0, len(u.Explored))
	for id := range u.Explored {
		explored = append(explored, id)
	}
	out := map[string]any{
		"id":                u.ID,
		"name":              u.Name,
		"unit_type":         string(u.Kind),
		"location_space_id": u.LocationSpaceID,
		"inventory":         map[string]int(u.Inventory),
		"named_inventory":   inventory.Named(u.Inventory, st),
		"health":            u.Health,
		"damage":            u.Damage,
		"abilities":         append([]string{}, u.Abilities...),
		"explored_spaces":   explored,
		"facing":            u.Facing,
	}
	if u.Autonomous() {
		out["lifespan"] = u.Lifespan
		out["state"] = string(u.State)
		out["state_data"] = map[string]any{
			"target_location": u.Scratch.TargetSpaceID,
			"turns_in_state":  u.Scratch.TurnsInState,
		}
		out["cargo"] = u.Cargo()
		out["cargo_capacity"] = u.CargoCapacity
		out["target_resource"] = u.TargetResource
		out["home_collection_point"] = u.HomeCollectionPoint
	}
	return out
}
