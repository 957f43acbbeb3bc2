// Package permissions declares which module/action capability each admin
// route requires. The map is keyed by method and registered route path, so
// an admin route absent from the map can never be reached.
package permissions

import (
	"net/http"

	perm "github.com/recoverpay/gateway/internal/permissions"
)

// Requirement is the capability an admin needs for one route. Every listed
// action must be granted.
type Requirement struct {
	Module  perm.Module
	Actions []perm.Action
}

// Key builds the definition map key for a method and route path.
func Key(method, path string) string {
	return method + " " + path
}

// DefinitionMap returns the route capability requirements.
func DefinitionMap() map[string]Requirement {
	return map[string]Requirement{
		Key(http.MethodGet, "/api/admin/customers/list"):                {Module: perm.ModuleCustomer, Actions: []perm.Action{perm.ActionRead}},
		Key(http.MethodGet, "/api/admin/customers/export"):              {Module: perm.ModuleCustomer, Actions: []perm.Action{perm.ActionRead}},
		Key(http.MethodGet, "/api/admin/customers/:phoneNumber"):        {Module: perm.ModuleCustomer, Actions: []perm.Action{perm.ActionRead}},
		Key(http.MethodPut, "/api/admin/customers/update-payment-type"): {Module: perm.ModuleCustomer, Actions: []perm.Action{perm.ActionUpdate}},
		Key(http.MethodPost, "/api/admin/customers/uploadCustomers"):    {Module: perm.ModuleCustomer, Actions: []perm.Action{perm.ActionCreate}},
		Key(http.MethodGet, "/api/admin/users/list"):                    {Module: perm.ModuleUser, Actions: []perm.Action{perm.ActionRead}},
		Key(http.MethodPost, "/api/admin/users/create"):                 {Module: perm.ModuleUser, Actions: []perm.Action{perm.ActionCreate}},
		Key(http.MethodPut, "/api/admin/users/update/:id"):              {Module: perm.ModuleUser, Actions: []perm.Action{perm.ActionUpdate}},
		Key(http.MethodGet, "/api/admin/dashboard"):                     {Module: perm.ModuleCustomer, Actions: []perm.Action{perm.ActionRead}},
		Key(http.MethodGet, "/api/admin/audit/list"):                    {Module: perm.ModuleUser, Actions: []perm.Action{perm.ActionRead}},
	}
}
