package sim

import (
	"fmt"

	"github.com/talgya/eos-server/internal/entropy"
	"github.com/talgya/eos-server/internal/hexgrid"
	"github.com/talgya/eos-server/internal/inventory"
	"github.com/talgya/eos-server/internal/world"
)

// droneBrain drives the mining drone state machine. One step per tick:
// count down the lifespan, then act according to the current state. All
// movement is single greedy hex steps costing one fuel.
type droneBrain struct {
	st  *world.GameState
	rng *entropy.Source
}

// step advances one drone by one tick and reports whether its state
// changed. Expired drones are left in place for the engine to reap.
func (b *droneBrain) step(u *world.Unit) (changed bool, err error) {
	if u.State == world.DroneExpired {
		return false, nil
	}
	u.Lifespan--
	if u.Lifespan <= 0 {
		u.ChangeState(world.DroneExpired, "")
		return true, nil
	}
	u.Scratch.TurnsInState++

	before := u.State
	switch u.State {
	case world.DroneSearch, world.DroneIdle:
		err = b.search(u)
	case world.DroneCollect:
		err = b.collect(u)
	case world.DroneReturning:
		err = b.returning(u)
	case world.DroneDeposit:
		err = b.deposit(u)
	default:
		err = fmt.Errorf("drone %s in unknown state %q", u.ID, u.State)
	}
	return u.State != before, err
}

// search looks for the target resource: collect here if present, walk
// toward the nearest known deposit, or wander when the body has none.
func (b *droneBrain) search(u *world.Unit) error {
	here := b.st.Spaces[u.LocationSpaceID]
	if here == nil {
		return fmt.Errorf("drone %s is nowhere", u.ID)
	}
	if here.Inventory.Get(u.TargetResource) > 0 {
		u.ChangeState(world.DroneCollect, here.ID)
		return nil
	}
	if target := b.st.NearestSpaceWithResource(here, u.TargetResource); target != nil {
		u.Scratch.TargetSpaceID = target.ID
		b.stepToward(u, here, target)
		return nil
	}
	b.wander(u, here)
	return nil
}

// collect gathers one unit of the target resource per tick. A full hold
// switches to deposit; an exhausted space resumes the search.
func (b *droneBrain) collect(u *world.Unit) error {
	here := b.st.Spaces[u.LocationSpaceID]
	if here == nil {
		return fmt.Errorf("drone %s is nowhere", u.ID)
	}
	if u.Cargo() >= u.CargoCapacity {
		u.ChangeState(world.DroneDeposit, "")
		return nil
	}
	if here.Inventory.Get(u.TargetResource) <= 0 {
		u.ChangeState(world.DroneSearch, "")
		return nil
	}
	inventory.Apply(here.Inventory, inventory.Map{u.TargetResource: -1})
	inventory.Apply(u.Inventory, inventory.Map{u.TargetResource: 1})
	return nil
}

// deposit hauls the cargo to the nearest collection structure on the body,
// unloading on arrival. With nowhere on the body to unload, the drone heads
// for its home collection point instead.
func (b *droneBrain) deposit(u *world.Unit) error {
	here := b.st.Spaces[u.LocationSpaceID]
	if here == nil {
		return fmt.Errorf("drone %s is nowhere", u.ID)
	}
	near := b.st.NearestCollectionStructure(here)
	if near == nil {
		u.ChangeState(world.DroneReturning, "")
		return nil
	}
	if near.LocationSpaceID == here.ID {
		if err := b.unload(u, near); err != nil {
			return err
		}
		u.ChangeState(world.DroneSearch, "")
		return nil
	}
	u.Scratch.TargetSpaceID = near.LocationSpaceID
	b.stepToward(u, here, b.st.Spaces[near.LocationSpaceID])
	return nil
}

// returning walks the drone back to its home collection point. Without a
// home, or once there, it resumes the search, cargo and all.
func (b *droneBrain) returning(u *world.Unit) error {
	here := b.st.Spaces[u.LocationSpaceID]
	if here == nil {
		return fmt.Errorf("drone %s is nowhere", u.ID)
	}
	home := b.st.Structures[u.HomeCollectionPoint]
	if home == nil || !home.IsCollectionPoint() || here.ID == home.LocationSpaceID {
		u.ChangeState(world.DroneSearch, "")
		return nil
	}
	u.Scratch.TargetSpaceID = home.LocationSpaceID
	b.stepToward(u, here, b.st.Spaces[home.LocationSpaceID])
	return nil
}

// unload transfers every non-fuel resource in the hold into the structure.
func (b *droneBrain) unload(u *world.Unit, into *world.Structure) error {
	for id, qty := range u.Inventory.Clone() {
		if id == world.FuelID {
			continue
		}
		if err := into.AcceptDeposit(id, qty); err != nil {
			return err
		}
		inventory.Apply(u.Inventory, inventory.Map{id: -qty})
	}
	return nil
}

// stepToward takes one greedy hex step: the drone moves only onto a
// neighboring space that strictly reduces the distance to the target, and
// only when it can pay one fuel.
func (b *droneBrain) stepToward(u *world.Unit, here, target *world.Space) {
	if target == nil || u.Inventory.Get(world.FuelID) < 1 {
		return
	}
	body := b.st.BodyOf(here)
	if body == nil || target.BodyID != body.ID {
		return
	}
	cur := hexgrid.Distance(here.RelCoord(), target.RelCoord())
	for _, d := range hexgrid.Directions {
		next := body.SpaceAt(here.RelQ+d.Q, here.RelR+d.R)
		if next == nil {
			continue
		}
		if hexgrid.Distance(next.RelCoord(), target.RelCoord()) < cur {
			b.move(u, next)
			return
		}
	}
}

// wander drifts one random step so a stuck drone still covers ground.
func (b *droneBrain) wander(u *world.Unit, here *world.Space) {
	if u.Inventory.Get(world.FuelID) < 1 {
		return
	}
	body := b.st.BodyOf(here)
	if body == nil {
		return
	}
	var options []*world.Space
	for _, d := range hexgrid.Directions {
		if next := body.SpaceAt(here.RelQ+d.Q, here.RelR+d.R); next != nil {
			options = append(options, next)
		}
	}
	if len(options) == 0 {
		return
	}
	b.move(u, options[b.rng.Intn(len(options))])
}

func (b *droneBrain) move(u *world.Unit, to *world.Space) {
	inventory.Apply(u.Inventory, inventory.Map{world.FuelID: -1})
	b.st.MoveUnitTo(u, to.ID)
}
