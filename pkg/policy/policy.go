// Package policy decides which task operations a role may perform.
//
// Every function here is pure and total. Roles outside the known set are
// denied everything.
package policy

import "github.com/harrisonrobin/taskgate/pkg/model"

// Scope is how much of the task collection a role may see.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeAll
)

// Action names a gated operation.
type Action int

const (
	ActionView Action = iota
	ActionCreate
	ActionEditFields
	ActionChangeStatus
	ActionDelete
	ActionListEmployees
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view tasks"
	case ActionCreate:
		return "create tasks"
	case ActionEditFields:
		return "edit tasks"
	case ActionChangeStatus:
		return "change task status"
	case ActionDelete:
		return "delete tasks"
	case ActionListEmployees:
		return "list employees"
	default:
		return "unknown action"
	}
}

// ViewScope returns the visibility scope for role.
func ViewScope(role model.Role) Scope {
	switch role {
	case model.RoleAdministrator, model.RoleManager:
		return ScopeAll
	case model.RoleEmployee:
		return ScopeOwn
	default:
		return ScopeNone
	}
}

func CanView(role model.Role) bool {
	return ViewScope(role) != ScopeNone
}

func CanCreate(role model.Role) bool {
	return role == model.RoleAdministrator || role == model.RoleManager
}

func CanEditFields(role model.Role) bool {
	return role == model.RoleAdministrator || role == model.RoleManager
}

// CanChangeStatus reports whether role may re-status tasks it can see.
// Employees only ever see their own tasks, so for them this covers own
// tasks only.
func CanChangeStatus(role model.Role) bool {
	switch role {
	case model.RoleAdministrator, model.RoleManager, model.RoleEmployee:
		return true
	default:
		return false
	}
}

func CanDelete(role model.Role) bool {
	return role == model.RoleAdministrator
}

func CanListEmployees(role model.Role) bool {
	return role == model.RoleAdministrator || role == model.RoleManager
}

// Allows dispatches action to the matching predicate.
func Allows(role model.Role, action Action) bool {
	switch action {
	case ActionView:
		return CanView(role)
	case ActionCreate:
		return CanCreate(role)
	case ActionEditFields:
		return CanEditFields(role)
	case ActionChangeStatus:
		return CanChangeStatus(role)
	case ActionDelete:
		return CanDelete(role)
	case ActionListEmployees:
		return CanListEmployees(role)
	default:
		return false
	}
}
