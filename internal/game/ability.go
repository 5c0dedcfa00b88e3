package game

import (
	"fmt"

	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// Ability names a unit capability. Units list the abilities they support;
// services gate on HasAbility before performing.
const (
	AbilityMove    = "move"
	AbilityCollect = "collect"
	AbilityBuild   = "build"
)

// Ability is one primitive action a unit can perform. Implementations hold
// the mutation rules; services wrap them with lookup, authorization, and
// pricing. Params is ability-specific and type-asserted by Perform.
type Ability interface {
	Name() string
	Perform(st *world.GameState, actor *world.Unit, params any) error
}

// MoveParams drives MoveAbility: a resolved target space and an externally
// priced fuel cost. The ability never prices routes itself.
type MoveParams struct {
	Target   *world.Space
	FuelCost int
}

// MoveAbility charges fuel and relocates the actor. The destination is
// appended to the actor's explored set by the registry move.
type MoveAbility struct{}

func (MoveAbility) Name() string { return AbilityMove }

func (MoveAbility) Perform(st *world.GameState, actor *world.Unit, params any) error {
	p, ok := params.(MoveParams)
	if !ok || p.Target == nil {
		return fmt.Errorf("%w: malformed move parameters", ErrInvalidInput)
	}
	if !affordable(actor.Inventory, world.FuelID, p.FuelCost) {
		return fmt.Errorf("%w: need %d fuel, have %d",
			ErrInsufficientResource, p.FuelCost, actor.Inventory.Get(world.FuelID))
	}
	inventory.Apply(actor.Inventory, inventory.Map{world.FuelID: -p.FuelCost})
	st.MoveUnitTo(actor, p.Target.ID)
	return nil
}

// CollectParams drives CollectAbility: a source ledger to debit and the
// requested amount. Source is the inventory of a space or of a collection
// structure at the actor's location. A non-positive Amount takes everything
// available.
type CollectParams struct {
	Source     inventory.Map
	ResourceID string
	Amount     int
}

// CollectAbility transfers min(requested, available) of a resource from the
// source ledger to the actor, defaulting to all of it when no cap is given.
// Collecting from an empty source is an error.
type CollectAbility struct{}

func (CollectAbility) Name() string { return AbilityCollect }

func (CollectAbility) Perform(st *world.GameState, actor *world.Unit, params any) error {
	p, ok := params.(CollectParams)
	if !ok || p.Source == nil {
		return fmt.Errorf("%w: malformed collect parameters", ErrInvalidInput)
	}
	available := p.Source.Get(p.ResourceID)
	if available == 0 {
		name := p.ResourceID
		if r, ok := st.ResourceName(p.ResourceID); ok {
			name = r
		}
		return fmt.Errorf("%w: no %s here", ErrInsufficientResource, name)
	}
	take := p.Amount
	if take <= 0 || take > available {
		take = available
	}
	inventory.Apply(p.Source, inventory.Map{p.ResourceID: -take})
	inventory.Apply(actor.Inventory, inventory.Map{p.ResourceID: take})
	return nil
}

// BuildParams drives BuildAbility: a fully validated structure to place and
// the priced requirements to debit. Validation (slot, requirements naming
// the shortfall) happens in the building service before Perform.
type BuildParams struct {
	Structure *world.Structure
	Cost      inventory.Map
}

// BuildAbility debits the full requirement batch atomically and registers
// the structure. Callers guarantee affordability; the debit here can never
// be partial because it is a single ledger application.
type BuildAbility struct{}

func (BuildAbility) Name() string { return AbilityBuild }

func (BuildAbility) Perform(st *world.GameState, actor *world.Unit, params any) error {
	p, ok := params.(BuildParams)
	if !ok || p.Structure == nil {
		return fmt.Errorf("%w: malformed build parameters", ErrInvalidInput)
	}
	debit := make(inventory.Map, len(p.Cost))
	for id, qty := range p.Cost {
		if !affordable(actor.Inventory, id, qty) {
			name := id
			if r, ok := st.ResourceName(id); ok {
				name = r
			}
			return fmt.Errorf("%w: need %d %s, have %d",
				ErrInsufficientResource, qty, name, actor.Inventory.Get(id))
		}
		debit[id] = -qty
	}
	inventory.Apply(actor.Inventory, debit)
	st.AddStructure(p.Structure)
	return nil
}
