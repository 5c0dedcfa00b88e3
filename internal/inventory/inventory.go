// Package inventory provides the delta-based quantity-map ledger shared by
// every entity that holds resources. Apply is the only mutation path for
// inventories anywhere in the simulation.
package inventory

// Map holds resource quantities keyed by resource ID. Quantities are always
// positive; zeroed entries are removed rather than stored.
type Map map[string]int

// Apply adds each signed delta to the target map. Entries that drop to zero
// or below are deleted entirely, so a stored quantity is never <= 0.
func Apply(target Map, deltas Map) {
	for id, delta := range deltas {
		target[id] += delta
		if target[id] <= 0 {
			delete(target, id)
		}
	}
}

// Get returns the stored quantity for id, or zero.
func (m Map) Get(id string) int {
	return m[id]
}

// Total sums all quantities, skipping the listed resource IDs. Drone cargo
// is Total excluding fuel.
func (m Map) Total(exclude ...string) int {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	total := 0
	for id, qty := range m {
		if !skip[id] {
			total += qty
		}
	}
	return total
}

// Clone returns an independent copy of the map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for id, qty := range m {
		out[id] = qty
	}
	return out
}

// NameResolver maps a resource ID to a display name. Unknown IDs resolve to
// ok=false and are skipped by Named.
type NameResolver interface {
	ResourceName(id string) (string, bool)
}

// Named returns a display view of the map with resource IDs replaced by
// names. Used only at the presentation boundary; all internal bookkeeping
// stays keyed by ID.
func Named(m Map, r NameResolver) map[string]int {
	out := make(map[string]int, len(m))
	for id, qty := range m {
		if name, ok := r.ResourceName(id); ok {
			out[name] = qty
		}
	}
	return out
}
