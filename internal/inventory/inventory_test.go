package inventory

import "testing"

func TestApplyAddsAndRemoves(t *testing.T) {
	m := Map{"res_1": 5}
	Apply(m, Map{"res_1": 3, "res_2": 2})
	if m.Get("res_1") != 8 || m.Get("res_2") != 2 {
		t.Fatalf("unexpected quantities after credit: %v", m)
	}
	Apply(m, Map{"res_1": -8})
	if _, ok := m["res_1"]; ok {
		t.Fatalf("zeroed entry should be deleted, got %v", m)
	}
}

func TestApplyNeverStoresNonPositive(t *testing.T) {
	m := Map{"res_1": 2}
	Apply(m, Map{"res_1": -10, "res_2": -1})
	for id, qty := range m {
		if qty <= 0 {
			t.Fatalf("stored non-positive quantity %s=%d", id, qty)
		}
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestTotalExcludes(t *testing.T) {
	m := Map{"res_1": 4, "res_2": 3, "fuel": 10}
	if got := m.Total(); got != 17 {
		t.Fatalf("Total() = %d, want 17", got)
	}
	if got := m.Total("fuel"); got != 7 {
		t.Fatalf("Total(fuel) = %d, want 7", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := Map{"res_1": 4}
	c := m.Clone()
	Apply(c, Map{"res_1": -4})
	if m.Get("res_1") != 4 {
		t.Fatalf("clone mutation leaked into source: %v", m)
	}
}

type fakeResolver map[string]string

func (f fakeResolver) ResourceName(id string) (string, bool) {
	name, ok := f[id]
	return name, ok
}

func TestNamedSkipsUnknown(t *testing.T) {
	m := Map{"res_1": 4, "mystery": 1}
	named := Named(m, fakeResolver{"res_1": "Iron"})
	if named["Iron"] != 4 {
		t.Fatalf("expected Iron=4, got %v", named)
	}
	if len(named) != 1 {
		t.Fatalf("unknown IDs should be skipped, got %v", named)
	}
}
