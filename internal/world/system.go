package world

// GravityWell is decorative system metadata kept for future mechanics.
type GravityWell struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
}

// System is the top-level container of bodies. It carries coordinates of its
// own for a multi-system future.
type System struct {
	ID           string
	Name         string
	Q            int
	R            int
	Bodies       []*Body
	GravityWells []GravityWell
}

// Snapshot returns the serialized view of the system.
func (sys *System) Snapshot(st *GameState) map[string]any {
	bodies := make([]map[string]any, 0, len(sys.Bodies))
	for _, b := range sys.Bodies {
		bodies = append(bodies, b.Snapshot(st))
	}
	wells := make([]map[string]any, 0, len(sys.GravityWells))
	for _, w := range sys.GravityWells {
		wells = append(wells, map[string]any{"name": w.Name, "strength": w.Strength})
	}
	return map[string]any{
		"id":            sys.ID,
		"name":          sys.Name,
		"q":             sys.Q,
		"r":             sys.R,
		"gravity_wells": wells,
		"bodies":        bodies,
	}
}
