// Package world defines the entity model of the Eos simulation — resources,
// spaces, bodies, systems, units, structures, players — and the GameState
// registry that owns every instance.
package world

// FuelID is the distinguished resource that powers movement and regen.
const FuelID = "fuel"

// Resource is an immutable catalog entry. Never mutated after creation;
// looked up by ID, or by name with a linear scan.
type Resource struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// Snapshot returns the serialized view of the resource.
func (r *Resource) Snapshot() map[string]any {
	return map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"properties": r.Properties,
	}
}
