package world

import (
	"sort"
	"strings"

	"github.com/talgya/eos-server/internal/hexgrid"
)

// GameState is the single authoritative registry for every entity in the
// simulation. All lookups, mutations, and serialization go through it; no
// other component keeps an owning reference to an entity.
type GameState struct {
	Tick int

	Systems    map[string]*System
	Bodies     map[string]*Body
	Spaces     map[string]*Space
	Units      map[string]*Unit
	Structures map[string]*Structure
	Resources  map[string]*Resource
	Players    map[string]*Player

	// AutonomousUnits tracks which units the AI pass drives each tick.
	AutonomousUnits map[string]bool

	// SystemWideAccessibleSpaces are reachable from any body, such as port
	// anchor spaces.
	SystemWideAccessibleSpaces map[string]bool
}

// NewGameState creates an empty registry.
func NewGameState() *GameState {
	return &GameState{
		Systems:                    make(map[string]*System),
		Bodies:                     make(map[string]*Body),
		Spaces:                     make(map[string]*Space),
		Units:                      make(map[string]*Unit),
		Structures:                 make(map[string]*Structure),
		Resources:                  make(map[string]*Resource),
		Players:                    make(map[string]*Player),
		AutonomousUnits:            make(map[string]bool),
		SystemWideAccessibleSpaces: make(map[string]bool),
	}
}

// AddSystem registers a system and all bodies and spaces it contains.
func (st *GameState) AddSystem(sys *System) {
	st.Systems[sys.ID] = sys
	for _, b := range sys.Bodies {
		st.AddBody(b)
	}
}

// AddBody registers a body and its spaces.
func (st *GameState) AddBody(b *Body) {
	st.Bodies[b.ID] = b
	for _, s := range b.Spaces {
		st.Spaces[s.ID] = s
	}
}

// AddSpace registers a single space.
func (st *GameState) AddSpace(s *Space) {
	st.Spaces[s.ID] = s
}

// AddResource registers a resource definition.
func (st *GameState) AddResource(r *Resource) {
	st.Resources[r.ID] = r
}

// AddPlayer registers a player.
func (st *GameState) AddPlayer(p *Player) {
	st.Players[p.ID] = p
}

// AddUnit registers a unit and records its presence on its location space.
// Autonomous units are also enrolled in the AI roster.
func (st *GameState) AddUnit(u *Unit) {
	st.Units[u.ID] = u
	if sp := st.Spaces[u.LocationSpaceID]; sp != nil {
		sp.Units = append(sp.Units, u.ID)
	}
	if u.Autonomous() {
		st.AutonomousUnits[u.ID] = true
	}
}

// RemoveUnit deregisters a unit everywhere: registry, space presence, and
// the AI roster. Owned back-references on players are left in place.
func (st *GameState) RemoveUnit(unitID string) {
	u, ok := st.Units[unitID]
	if !ok {
		return
	}
	if sp := st.Spaces[u.LocationSpaceID]; sp != nil {
		sp.removeUnit(unitID)
	}
	delete(st.AutonomousUnits, unitID)
	delete(st.Units, unitID)
}

// AddStructure registers a structure and attaches it to its location space.
func (st *GameState) AddStructure(s *Structure) {
	st.Structures[s.ID] = s
	if sp := st.Spaces[s.LocationSpaceID]; sp != nil {
		sp.Structures = append(sp.Structures, s)
	}
}

// MoveUnitTo relocates a unit, updating the presence lists of both spaces.
func (st *GameState) MoveUnitTo(u *Unit, spaceID string) {
	if sp := st.Spaces[u.LocationSpaceID]; sp != nil {
		sp.removeUnit(u.ID)
	}
	u.LocationSpaceID = spaceID
	if sp := st.Spaces[spaceID]; sp != nil {
		sp.Units = append(sp.Units, u.ID)
	}
	u.MarkExplored(spaceID)
}

// BodyOf returns the body a space belongs to, or nil.
func (st *GameState) BodyOf(s *Space) *Body {
	if s == nil {
		return nil
	}
	return st.Bodies[s.BodyID]
}

// FindUnit resolves a unit by ID first, then by case-insensitive name. Name
// lookup scans in sorted ID order so ties resolve deterministically.
func (st *GameState) FindUnit(idOrName string) *Unit {
	if u, ok := st.Units[idOrName]; ok {
		return u
	}
	ids := make([]string, 0, len(st.Units))
	for id := range st.Units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.EqualFold(st.Units[id].Name, idOrName) {
			return st.Units[id]
		}
	}
	return nil
}

// FindResourceByName resolves a resource by display name, or by ID as a
// fallback. Returns nil when unknown.
func (st *GameState) FindResourceByName(name string) *Resource {
	for _, r := range st.Resources {
		if r.Name == name {
			return r
		}
	}
	return st.Resources[name]
}

// ResourceName maps a resource ID to its display name. Satisfies the
// inventory name resolver.
func (st *GameState) ResourceName(id string) (string, bool) {
	if r, ok := st.Resources[id]; ok {
		return r.Name, true
	}
	return "", false
}

// OwnerOf returns the player owning an entity ID, or nil.
func (st *GameState) OwnerOf(entityID string) *Player {
	for _, p := range st.Players {
		if p.Owns(entityID) {
			return p
		}
	}
	return nil
}

// TargetSpaceFromDirection resolves the space one hex away from the unit in
// the given direction index, on the unit's current body. Returns nil when
// the unit is off-grid or the neighbor cell has no space.
func (st *GameState) TargetSpaceFromDirection(u *Unit, direction int) *Space {
	if direction < 0 || direction >= len(hexgrid.Directions) {
		return nil
	}
	cur := st.Spaces[u.LocationSpaceID]
	if cur == nil {
		return nil
	}
	body := st.BodyOf(cur)
	if body == nil {
		return nil
	}
	d := hexgrid.Directions[direction]
	return body.SpaceAt(cur.RelQ+d.Q, cur.RelR+d.R)
}

// AccessibleSpaces returns every space the unit could in principle target:
// all spaces on its current body plus system-wide accessible anchors on
// other bodies.
func (st *GameState) AccessibleSpaces(u *Unit) []*Space {
	cur := st.Spaces[u.LocationSpaceID]
	if cur == nil {
		return nil
	}
	var out []*Space
	if body := st.BodyOf(cur); body != nil {
		for _, s := range body.Spaces {
			if s.ID != cur.ID {
				out = append(out, s)
			}
		}
	}
	ids := make([]string, 0, len(st.SystemWideAccessibleSpaces))
	for id := range st.SystemWideAccessibleSpaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s := st.Spaces[id]
		if s == nil || s.ID == cur.ID || s.BodyID == cur.BodyID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CollectionStructures returns every structure that accepts deposits, in
// sorted ID order.
func (st *GameState) CollectionStructures() []*Structure {
	ids := make([]string, 0, len(st.Structures))
	for id, s := range st.Structures {
		if s.IsCollectionPoint() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*Structure, 0, len(ids))
	for _, id := range ids {
		out = append(out, st.Structures[id])
	}
	return out
}

// NearestCollectionStructure finds the closest deposit-accepting structure
// on the same body as the given space, by hex distance. Ties break on
// structure ID order.
func (st *GameState) NearestCollectionStructure(from *Space) *Structure {
	if from == nil {
		return nil
	}
	var best *Structure
	bestDist := -1
	for _, s := range st.CollectionStructures() {
		sp := st.Spaces[s.LocationSpaceID]
		if sp == nil || sp.BodyID != from.BodyID {
			continue
		}
		d := hexgrid.Distance(from.Coord(), sp.Coord())
		if bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// NearestSpaceWithResource finds the closest space on the same body carrying
// a positive amount of the resource. Ties break on space ID order.
func (st *GameState) NearestSpaceWithResource(from *Space, resourceID string) *Space {
	if from == nil {
		return nil
	}
	body := st.BodyOf(from)
	if body == nil {
		return nil
	}
	var best *Space
	bestDist := -1
	for _, s := range body.Spaces {
		if s.Inventory.Get(resourceID) <= 0 {
			continue
		}
		d := hexgrid.Distance(from.Coord(), s.Coord())
		if bestDist < 0 || d < bestDist || (d == bestDist && s.ID < best.ID) {
			best, bestDist = s, d
		}
	}
	return best
}

// SpacePorts returns every operational space port, in sorted ID order.
func (st *GameState) SpacePorts() []*Structure {
	ids := make([]string, 0, len(st.Structures))
	for id, s := range st.Structures {
		if s.Kind == StructureSpacePort {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*Structure, 0, len(ids))
	for _, id := range ids {
		out = append(out, st.Structures[id])
	}
	return out
}

// Snapshot returns the full serialized view of the game state.
func (st *GameState) Snapshot() map[string]any {
	systems := make([]map[string]any, 0, len(st.Systems))
	for _, id := range sortedKeys(st.Systems) {
		systems = append(systems, st.Systems[id].Snapshot(st))
	}
	units := make([]map[string]any, 0, len(st.Units))
	for _, id := range sortedKeys(st.Units) {
		units = append(units, st.Units[id].Snapshot(st))
	}
	players := make([]map[string]any, 0, len(st.Players))
	for _, id := range sortedKeys(st.Players) {
		players = append(players, st.Players[id].Snapshot())
	}
	resources := make([]map[string]any, 0, len(st.Resources))
	for _, id := range sortedKeys(st.Resources) {
		resources = append(resources, st.Resources[id].Snapshot())
	}
	return map[string]any{
		"tick":      st.Tick,
		"systems":   systems,
		"units":     units,
		"players":   players,
		"resources": resources,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
