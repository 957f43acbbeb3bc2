package permissions

import (
	"testing"

	"github.com/recoverpay/gateway/internal/models"
)

func TestParseDropsUnknownModulesAndActions(t *testing.T) {
	set := Parse([]models.Permission{
		{Module: "Customer", Actions: []string{"read", "fly"}},
		{Module: "Reports", Actions: []string{"read"}},
		{Module: "customer", Actions: []string{"update"}},
	})

	if len(set) != 1 {
		t.Fatalf("expected 1 module, got %d", len(set))
	}
	if !set.Can(ModuleCustomer, ActionRead) {
		t.Fatal("expected Customer read to be granted")
	}
	if set.Can(ModuleCustomer, ActionUpdate) {
		t.Fatal("unknown-cased module entry must not grant update")
	}
}

func TestParseMergesRepeatedModules(t *testing.T) {
	set := Parse([]models.Permission{
		{Module: "User", Actions: []string{"read"}},
		{Module: "User", Actions: []string{"create", "update"}},
	})

	if !set.Can(ModuleUser, ActionRead, ActionCreate, ActionUpdate) {
		t.Fatal("merged entries should grant all three actions")
	}
	if set.Can(ModuleUser, ActionDelete) {
		t.Fatal("delete was never granted")
	}
}

func TestCanRequiresEveryAction(t *testing.T) {
	set := Parse([]models.Permission{
		{Module: "Coupon", Actions: []string{"read"}},
	})

	if !set.Can(ModuleCoupon, ActionRead) {
		t.Fatal("granted action denied")
	}
	if set.Can(ModuleCoupon, ActionRead, ActionUpdate) {
		t.Fatal("one missing action must deny the whole requirement")
	}
	if set.Can(ModuleUser, ActionRead) {
		t.Fatal("ungranted module must deny")
	}
}

func TestCanFailsClosed(t *testing.T) {
	var nilSet Set
	if nilSet.Can(ModuleCustomer, ActionRead) {
		t.Fatal("nil set must deny")
	}

	empty := Parse(nil)
	if empty.Can(ModuleCustomer, ActionRead) {
		t.Fatal("empty set must deny")
	}

	full := Parse([]models.Permission{
		{Module: "Customer", Actions: []string{"create", "read", "update", "delete"}},
	})
	if full.Can(ModuleCustomer) {
		t.Fatal("empty requirement must deny even with full grants")
	}
}

func TestParseRoundTripNames(t *testing.T) {
	for _, name := range []string{"User", "Customer", "Coupon"} {
		module, ok := ParseModule(name)
		if !ok {
			t.Fatalf("ParseModule(%q) failed", name)
		}
		if module.String() != name {
			t.Fatalf("module %q round-tripped to %q", name, module.String())
		}
	}
	for _, name := range []string{"create", "read", "update", "delete"} {
		action, ok := ParseAction(name)
		if !ok {
			t.Fatalf("ParseAction(%q) failed", name)
		}
		if action.String() != name {
			t.Fatalf("action %q round-tripped to %q", name, action.String())
		}
	}
}
