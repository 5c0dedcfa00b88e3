package world

import (
	"testing"

	"github.com/talgya/eos-server/internal/inventory"
)

// buildTestState assembles a two-body system by hand: bodyA with three
// spaces in spiral order, bodyB with one port-anchored space.
func buildTestState() *GameState {
	st := NewGameState()
	st.AddResource(&Resource{ID: "res_1", Name: "Iron"})
	st.AddResource(&Resource{ID: FuelID, Name: "Fuel"})

	bodyA := &Body{ID: "a", SystemID: "sys", Name: "Planet 1", Q: 0, R: 0}
	for i := 0; i < 3; i++ {
		q, r := bodyA.NextSpaceCoords()
		bodyA.AddSpace(NewSpace(bodyA.ID, "Planet 1 - Space "+string(rune('1'+i)), q, r))
	}
	bodyB := &Body{ID: "b", SystemID: "sys", Name: "Moon 1", Q: 10, R: -4}
	q, r := bodyB.NextSpaceCoords()
	bodyB.AddSpace(NewSpace(bodyB.ID, "Moon 1 - Space 1", q, r))

	sys := &System{ID: "sys", Name: "Eos", Bodies: []*Body{bodyA, bodyB}}
	st.AddSystem(sys)
	st.SystemWideAccessibleSpaces[bodyA.Spaces[0].ID] = true
	st.SystemWideAccessibleSpaces[bodyB.Spaces[0].ID] = true
	return st
}

func TestSpaceIDFormat(t *testing.T) {
	if got := SpaceID("a", 1, -1); got != "body:a:1:-1" {
		t.Fatalf("SpaceID = %q", got)
	}
}

func TestSpacesInheritBodyOrigin(t *testing.T) {
	st := buildTestState()
	b := st.Bodies["b"]
	s := b.Spaces[0]
	if s.Q != b.Q+s.RelQ || s.R != b.R+s.RelR {
		t.Fatalf("space abs (%d,%d) != body origin (%d,%d) + rel (%d,%d)",
			s.Q, s.R, b.Q, b.R, s.RelQ, s.RelR)
	}
}

func TestNextSpaceCoordsFollowsSpiral(t *testing.T) {
	b := &Body{ID: "x"}
	var got []([2]int)
	for i := 0; i < 8; i++ {
		q, r := b.NextSpaceCoords()
		got = append(got, [2]int{q, r})
		b.AddSpace(NewSpace(b.ID, "", q, r))
	}
	if got[0] != [2]int{0, 0} {
		t.Fatalf("first space must be the center, got %v", got[0])
	}
	seen := make(map[[2]int]bool)
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate coordinate %v", c)
		}
		seen[c] = true
	}
	// Slots 1..6 form ring 1, slot 7 opens ring 2.
	for i := 1; i <= 6; i++ {
		if d := hexDist(got[i]); d != 1 {
			t.Errorf("slot %d at ring %d, want 1", i, d)
		}
	}
	if d := hexDist(got[7]); d != 2 {
		t.Errorf("slot 7 at ring %d, want 2", d)
	}
}

func hexDist(c [2]int) int {
	q, r := c[0], c[1]
	s := -q - r
	max := q
	if max < 0 {
		max = -max
	}
	for _, v := range []int{r, s} {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

func TestAddAndMoveUnit(t *testing.T) {
	st := buildTestState()
	a := st.Bodies["a"]
	u := NewPlayerUnit("u1")
	u.LocationSpaceID = a.Spaces[0].ID
	st.AddUnit(u)

	if len(a.Spaces[0].Units) != 1 || a.Spaces[0].Units[0] != "u1" {
		t.Fatalf("unit not present on origin space: %v", a.Spaces[0].Units)
	}
	st.MoveUnitTo(u, a.Spaces[1].ID)
	if len(a.Spaces[0].Units) != 0 {
		t.Fatalf("unit still listed on old space: %v", a.Spaces[0].Units)
	}
	if len(a.Spaces[1].Units) != 1 {
		t.Fatalf("unit missing on new space: %v", a.Spaces[1].Units)
	}
	if u.LocationSpaceID != a.Spaces[1].ID {
		t.Fatalf("unit location not updated: %s", u.LocationSpaceID)
	}
	if !u.Explored[a.Spaces[1].ID] {
		t.Fatalf("movement must mark the destination explored")
	}
}

func TestRemoveUnitClearsEverywhere(t *testing.T) {
	st := buildTestState()
	a := st.Bodies["a"]
	d := NewMiningDrone("d1", a.Spaces[0].ID, "res_1", "struct_1", 30, 10)
	st.AddUnit(d)
	if !st.AutonomousUnits["d1"] {
		t.Fatalf("drone not enrolled in the autonomous roster")
	}
	st.RemoveUnit("d1")
	if _, ok := st.Units["d1"]; ok {
		t.Fatalf("unit still registered after removal")
	}
	if st.AutonomousUnits["d1"] {
		t.Fatalf("unit still in autonomous roster after removal")
	}
	if len(a.Spaces[0].Units) != 0 {
		t.Fatalf("unit still present on space after removal")
	}
}

func TestTargetSpaceFromDirection(t *testing.T) {
	st := buildTestState()
	a := st.Bodies["a"]
	u := NewPlayerUnit("u1")
	u.LocationSpaceID = a.Spaces[0].ID
	st.AddUnit(u)

	// Spaces[1] is the first ring-1 slot, two hops southwest of center in
	// the spiral start; resolve its direction index from the offset.
	target := a.Spaces[1]
	var dir = -1
	for i, d := range [][2]int{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1}} {
		if target.RelQ == d[0] && target.RelR == d[1] {
			dir = i
		}
	}
	if dir < 0 {
		t.Fatalf("first ring slot (%d,%d) is not adjacent to center", target.RelQ, target.RelR)
	}
	got := st.TargetSpaceFromDirection(u, dir)
	if got == nil || got.ID != target.ID {
		t.Fatalf("TargetSpaceFromDirection(%d) = %v, want %s", dir, got, target.ID)
	}
	if st.TargetSpaceFromDirection(u, 6) != nil {
		t.Fatalf("out-of-range direction must resolve to nil")
	}
}

func TestAccessibleSpacesIncludesPortAnchors(t *testing.T) {
	st := buildTestState()
	a, b := st.Bodies["a"], st.Bodies["b"]
	u := NewPlayerUnit("u1")
	u.LocationSpaceID = a.Spaces[0].ID
	st.AddUnit(u)

	spaces := st.AccessibleSpaces(u)
	found := make(map[string]bool)
	for _, s := range spaces {
		if s.ID == u.LocationSpaceID {
			t.Fatalf("current space must not be listed as accessible")
		}
		found[s.ID] = true
	}
	for _, s := range a.Spaces[1:] {
		if !found[s.ID] {
			t.Errorf("same-body space %s missing", s.ID)
		}
	}
	if !found[b.Spaces[0].ID] {
		t.Errorf("system-wide anchor %s missing", b.Spaces[0].ID)
	}
}

func TestCollectionPointKinds(t *testing.T) {
	want := map[StructureKind]bool{
		StructureCollector:  true,
		StructureFactory:    true,
		StructureSettlement: true,
		StructureSpacePort:  true,
		StructureFuelPump:   false,
		StructureScanner:    false,
	}
	for kind, expect := range want {
		s := NewStructure(kind, "s", "sp")
		if s.IsCollectionPoint() != expect {
			t.Errorf("%s IsCollectionPoint = %v, want %v", kind, !expect, expect)
		}
	}
}

func TestStructureDisplayNames(t *testing.T) {
	if s := NewStructure(StructureFuelPump, "s", "sp"); s.Name != "Fuel Pump" {
		t.Errorf("fuel pump name = %q", s.Name)
	}
	if s := NewStructure(StructureSpacePort, "s", "sp"); s.Name != "Space Port" {
		t.Errorf("space port name = %q", s.Name)
	}
	if s := NewStructure(StructureCollector, "s", "sp"); s.Name != "Collector" {
		t.Errorf("collector name = %q", s.Name)
	}
}

func TestAcceptDeposit(t *testing.T) {
	c := NewStructure(StructureCollector, "s", "sp")
	if err := c.AcceptDeposit("res_1", 3); err != nil {
		t.Fatalf("deposit to collector failed: %v", err)
	}
	if c.Inventory.Get("res_1") != 3 {
		t.Fatalf("deposit not credited: %v", c.Inventory)
	}
	pump := NewStructure(StructureFuelPump, "p", "sp")
	if err := pump.AcceptDeposit("res_1", 3); err == nil {
		t.Fatalf("fuel pump must reject deposits")
	}
}

func TestSpacePortConnectivity(t *testing.T) {
	p1 := NewStructure(StructureSpacePort, "p1", "sp1")
	p2 := NewStructure(StructureSpacePort, "p2", "sp2")
	if !p1.CanConnectTo(p2) {
		t.Fatalf("operational ports must connect")
	}
	p2.Operational = false
	if p1.CanConnectTo(p2) {
		t.Fatalf("non-operational port must not connect")
	}
	if p1.CanConnectTo(NewStructure(StructureCollector, "c", "sp3")) {
		t.Fatalf("ports only connect to ports")
	}
}

func TestFactoryCanBuildUnit(t *testing.T) {
	f := NewStructure(StructureFactory, "f", "sp")
	if !f.CanBuildUnit("mining_drone") {
		t.Fatalf("fresh factory must be ready to build a mining drone")
	}
	f.BuildCooldown = 2
	if f.CanBuildUnit("mining_drone") {
		t.Fatalf("cooling factory must not build")
	}
	f.BuildCooldown = 0
	if f.CanBuildUnit("battle_cruiser") {
		t.Fatalf("unsupported unit type must be rejected")
	}
}

func TestNearestSpaceWithResource(t *testing.T) {
	st := buildTestState()
	a := st.Bodies["a"]
	inventory.Apply(a.Spaces[2].Inventory, inventory.Map{"res_1": 2})
	got := st.NearestSpaceWithResource(a.Spaces[0], "res_1")
	if got == nil || got.ID != a.Spaces[2].ID {
		t.Fatalf("NearestSpaceWithResource = %v, want %s", got, a.Spaces[2].ID)
	}
	if st.NearestSpaceWithResource(a.Spaces[0], "res_99") != nil {
		t.Fatalf("absent resource must resolve to nil")
	}
}

func TestNearestCollectionStructureSameBodyOnly(t *testing.T) {
	st := buildTestState()
	a, b := st.Bodies["a"], st.Bodies["b"]
	far := NewStructure(StructureCollector, "c_far", b.Spaces[0].ID)
	st.AddStructure(far)
	if got := st.NearestCollectionStructure(a.Spaces[0]); got != nil {
		t.Fatalf("collection search must not cross bodies, got %v", got)
	}
	near := NewStructure(StructureSettlement, "c_near", a.Spaces[1].ID)
	st.AddStructure(near)
	if got := st.NearestCollectionStructure(a.Spaces[0]); got == nil || got.ID != "c_near" {
		t.Fatalf("expected c_near, got %v", got)
	}
}

func TestFindUnitByIDThenName(t *testing.T) {
	st := buildTestState()
	a := st.Bodies["a"]
	u := NewPlayerUnit("u1")
	u.LocationSpaceID = a.Spaces[0].ID
	st.AddUnit(u)
	if st.FindUnit("u1") != u {
		t.Fatalf("lookup by ID failed")
	}
	if st.FindUnit("Explorer") != u {
		t.Fatalf("lookup by name failed")
	}
	if st.FindUnit("ghost") != nil {
		t.Fatalf("unknown unit must resolve to nil")
	}
}

func TestOwnership(t *testing.T) {
	st := buildTestState()
	p := NewPlayer("player_1", "Player One")
	p.AddEntity("u1")
	st.AddPlayer(p)
	if !p.Owns("u1") || p.Owns("u2") {
		t.Fatalf("ownership check wrong")
	}
	if st.OwnerOf("u1") != p {
		t.Fatalf("OwnerOf failed")
	}
	if st.OwnerOf("u2") != nil {
		t.Fatalf("unowned entity must have nil owner")
	}
}

func TestDroneCargoExcludesFuel(t *testing.T) {
	d := NewMiningDrone("d1", "sp", "res_1", "c1", 30, 10)
	inventory.Apply(d.Inventory, inventory.Map{"res_1": 4})
	if d.Cargo() != 4 {
		t.Fatalf("Cargo() = %d, want 4 (fuel excluded)", d.Cargo())
	}
}

func TestSnapshotUsesNamedInventory(t *testing.T) {
	st := buildTestState()
	a := st.Bodies["a"]
	inventory.Apply(a.Spaces[0].Inventory, inventory.Map{"res_1": 2})
	snap := a.Spaces[0].Snapshot(st)
	named, ok := snap["named_inventory"].(map[string]int)
	if !ok || named["Iron"] != 2 {
		t.Fatalf("named_inventory wrong: %v", snap["named_inventory"])
	}
}
