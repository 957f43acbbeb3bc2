// Package permissions models admin capabilities as a closed module enum
// crossed with an action bitset. Upstream permission entries are free-form
// {module, actions[]} strings; parsing validates them against the known
// vocabulary and drops anything unrecognized, so every check stays
// fail-closed.
package permissions

import "github.com/recoverpay/gateway/internal/models"

// Module identifies a capability area of the admin back office.
type Module uint8

// Known modules. ModuleUnknown never grants anything.
const (
	ModuleUnknown Module = iota
	ModuleUser
	ModuleCustomer
	ModuleCoupon
)

// moduleNames maps modules to their upstream spelling. Matching is exact;
// there is no hierarchy between modules.
var moduleNames = map[Module]string{
	ModuleUser:     "User",
	ModuleCustomer: "Customer",
	ModuleCoupon:   "Coupon",
}

// String returns the upstream spelling of the module.
func (m Module) String() string {
	if name, ok := moduleNames[m]; ok {
		return name
	}
	return "Unknown"
}

// ParseModule resolves an upstream module string to its enum value.
func ParseModule(name string) (Module, bool) {
	for module, moduleName := range moduleNames {
		if moduleName == name {
			return module, true
		}
	}
	return ModuleUnknown, false
}

// Action is a bitset of CRUD capabilities within a module.
type Action uint8

// Individual action bits.
const (
	ActionCreate Action = 1 << iota
	ActionRead
	ActionUpdate
	ActionDelete
)

// actionNames maps single action bits to their upstream spelling.
var actionNames = map[Action]string{
	ActionCreate: "create",
	ActionRead:   "read",
	ActionUpdate: "update",
	ActionDelete: "delete",
}

// String returns the upstream spelling for a single action bit.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction resolves an upstream action string to its bit.
func ParseAction(name string) (Action, bool) {
	for action, actionName := range actionNames {
		if actionName == name {
			return action, true
		}
	}
	return 0, false
}

// Set holds the granted action bits per module. A nil Set grants nothing.
type Set map[Module]Action

// Parse converts upstream permission entries into a Set. Entries with an
// unknown module are dropped; unknown actions within a known module are
// ignored. Repeated module entries merge.
func Parse(entries []models.Permission) Set {
	set := make(Set, len(entries))
	for _, entry := range entries {
		module, okModule := ParseModule(entry.Module)
		if !okModule {
			continue
		}
		var granted Action
		for _, actionName := range entry.Actions {
			if action, okAction := ParseAction(actionName); okAction {
				granted |= action
			}
		}
		set[module] |= granted
	}
	return set
}

// Can reports whether every required action is granted for the module.
// AND semantics: a single missing action denies. An empty requirement or a
// nil/empty set denies.
func (s Set) Can(module Module, required ...Action) bool {
	if len(s) == 0 || len(required) == 0 {
		return false
	}
	var mask Action
	for _, action := range required {
		mask |= action
	}
	if mask == 0 {
		return false
	}
	return s[module]&mask == mask
}
