// Package sim drives the turn clock: one AdvanceTime call runs the
// autonomous AI pass, reaps expired units, and applies per-tick effects to
// every unit, structure, and system, in a fixed order.
package sim

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/entropy"
	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// StateChange records one autonomous-unit transition during a pass.
type StateChange struct {
	UnitID string `json:"unit_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// AIStats summarizes one autonomous pass: how many units acted, which ones
// expired, and every state transition that happened.
type AIStats struct {
	Processed    int           `json:"processed"`
	Expired      []string      `json:"expired"`
	StateChanges []StateChange `json:"state_changes"`
	Errors       int           `json:"errors"`
	Total        int           `json:"total"`
}

// TickResult reports what one tick touched, including the serialized view
// of every surviving unit, structure, and system.
type TickResult struct {
	Tick       int     `json:"tick"`
	Units      int     `json:"units_processed"`
	Structures int     `json:"structures_processed"`
	Systems    int     `json:"systems_processed"`
	Errors     int     `json:"errors"`
	AI         AIStats `json:"ai"`

	UnitViews      []map[string]any `json:"units"`
	StructureViews []map[string]any `json:"structures"`
	SystemViews    []map[string]any `json:"systems"`
}

// Engine advances the simulation one tick at a time. It is not safe for
// concurrent use; the API boundary serializes calls.
type Engine struct {
	st    *world.GameState
	bal   config.BalanceConfig
	brain *droneBrain
	log   *slog.Logger
}

// NewEngine creates the tick engine.
func NewEngine(st *world.GameState, bal config.BalanceConfig, rng *entropy.Source, logger *slog.Logger) *Engine {
	return &Engine{
		st:    st,
		bal:   bal,
		brain: &droneBrain{st: st, rng: rng},
		log:   logger,
	}
}

// Tick returns the current turn number.
func (e *Engine) Tick() int {
	return e.st.Tick
}

// AdvanceTime runs one full tick. Entity failures are isolated: an error or
// panic in one entity is counted and logged, and the tick still completes
// for everything else.
func (e *Engine) AdvanceTime() TickResult {
	e.st.Tick++
	res := TickResult{Tick: e.st.Tick}

	res.AI = e.runAutonomous()
	e.reapExpired(&res.AI)

	for _, id := range sortedKeys(e.st.Units) {
		u := e.st.Units[id]
		if err := e.guard(func() { e.advanceUnit(u) }); err != nil {
			res.Errors++
			e.log.Error("unit tick failed", "unit", id, "err", err)
			continue
		}
		res.Units++
	}
	for _, id := range sortedKeys(e.st.Structures) {
		s := e.st.Structures[id]
		if err := e.guard(func() { e.advanceStructure(s) }); err != nil {
			res.Errors++
			e.log.Error("structure tick failed", "structure", id, "err", err)
			continue
		}
		res.Structures++
	}
	// Spaces and bodies carry no per-tick behavior today; systems are
	// counted so the result reflects the full sweep.
	res.Systems = len(e.st.Systems)

	res.UnitViews = make([]map[string]any, 0, len(e.st.Units))
	for _, id := range sortedKeys(e.st.Units) {
		res.UnitViews = append(res.UnitViews, e.st.Units[id].Snapshot(e.st))
	}
	res.StructureViews = make([]map[string]any, 0, len(e.st.Structures))
	for _, id := range sortedKeys(e.st.Structures) {
		res.StructureViews = append(res.StructureViews, e.st.Structures[id].Snapshot(e.st))
	}
	res.SystemViews = make([]map[string]any, 0, len(e.st.Systems))
	for _, id := range sortedKeys(e.st.Systems) {
		res.SystemViews = append(res.SystemViews, e.st.Systems[id].Snapshot(e.st))
	}

	e.log.Info("tick complete",
		"tick", res.Tick,
		"units", res.Units,
		"structures", res.Structures,
		"ai_processed", res.AI.Processed,
		"ai_expired", len(res.AI.Expired),
		"errors", res.Errors+res.AI.Errors)
	return res
}

// runAutonomous steps every drone on the roster, recording each transition.
func (e *Engine) runAutonomous() AIStats {
	stats := AIStats{Total: len(e.st.AutonomousUnits)}
	for _, id := range sortedKeys(e.st.AutonomousUnits) {
		u := e.st.Units[id]
		if u == nil {
			continue
		}
		before := u.State
		var changed bool
		err := e.guard(func() {
			var stepErr error
			changed, stepErr = e.brain.step(u)
			if stepErr != nil {
				panic(stepErr)
			}
		})
		if err != nil {
			stats.Errors++
			e.log.Error("autonomous step failed", "unit", id, "err", err)
			continue
		}
		stats.Processed++
		if changed {
			stats.StateChanges = append(stats.StateChanges, StateChange{
				UnitID: id,
				From:   string(before),
				To:     string(u.State),
			})
		}
	}
	return stats
}

// reapExpired removes units whose state machine finished, after the pass so
// removal never perturbs iteration.
func (e *Engine) reapExpired(stats *AIStats) {
	var expired []string
	for _, id := range sortedKeys(e.st.AutonomousUnits) {
		if u := e.st.Units[id]; u != nil && u.State == world.DroneExpired {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		e.st.RemoveUnit(id)
		stats.Expired = append(stats.Expired, id)
		e.log.Info("unit expired", "unit", id)
	}
}

// advanceUnit applies passive per-tick effects. Player units regenerate one
// fuel; drones already acted in the AI pass.
func (e *Engine) advanceUnit(u *world.Unit) {
	if u.Kind == world.UnitPlayer {
		inventory.Apply(u.Inventory, inventory.Map{world.FuelID: 1})
	}
}

// advanceStructure applies per-tick structure effects: fuel pumps feed
// their space, factories cool down.
func (e *Engine) advanceStructure(s *world.Structure) {
	switch s.Kind {
	case world.StructureFuelPump:
		if sp := e.st.Spaces[s.LocationSpaceID]; sp != nil {
			inventory.Apply(sp.Inventory, inventory.Map{world.FuelID: e.bal.FuelPumpRate})
		}
	case world.StructureFactory:
		if s.BuildCooldown > 0 {
			s.BuildCooldown--
		}
	}
}

// guard runs fn, converting a panic into an error.
func (e *Engine) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
