// Package policy holds every authorization rule of the users API in one
// table. Handlers call Evaluate exactly once per request.
package policy

import (
	"fmt"

	"github.com/99minutos/users-api/internal/core/domain"
)

// Action is an operation on a user record.
type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Field names a writable attribute that carries its own rule.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldRole  Field = "role"
)

// Rule grants access when the identity has one of Roles, or when AllowSelf
// is set and the identity targets its own record. An empty Roles slice with
// AllowSelf unset admits any authenticated identity.
type Rule struct {
	Roles     []domain.Role
	AllowSelf bool
	Reason    string
}

type key struct {
	action Action
	field  Field
}

// rules is keyed by (action, field). The empty field is the route-level rule;
// field entries apply on top of it when the request touches that field.
var rules = map[key]Rule{
	{ActionList, ""}: {
		Roles:  []domain.Role{domain.RoleAdmin},
		Reason: "Insufficient permissions",
	},
	{ActionGet, ""}: {},
	{ActionUpdate, ""}: {
		Roles:     []domain.Role{domain.RoleAdmin},
		AllowSelf: true,
		Reason:    "You can only update your own profile",
	},
	{ActionUpdate, FieldRole}: {
		Roles:  []domain.Role{domain.RoleAdmin},
		Reason: "Only admins can change user roles",
	},
	{ActionDelete, ""}: {
		Roles:     []domain.Role{domain.RoleAdmin},
		AllowSelf: true,
		Reason:    "You can only delete your own account",
	},
}

// Denial explains a refused request. It matches domain.ErrForbidden.
type Denial struct {
	Action Action
	Field  Field
	Reason string
}

func (d *Denial) Error() string {
	if d.Field != "" {
		return fmt.Sprintf("%s %s denied: %s", d.Action, d.Field, d.Reason)
	}
	return fmt.Sprintf("%s denied: %s", d.Action, d.Reason)
}

func (d *Denial) Is(target error) bool {
	return target == domain.ErrForbidden
}

// Evaluate checks identity against the route rule for action and then
// against the rule of every touched field. targetID is the record the
// request addresses, or 0 for collection routes.
func Evaluate(action Action, identity domain.Identity, targetID int64, fields ...Field) error {
	rule, ok := rules[key{action, ""}]
	if !ok {
		return &Denial{Action: action, Reason: "Unknown action"}
	}
	if !rule.allows(identity, targetID) {
		return &Denial{Action: action, Reason: rule.Reason}
	}

	for _, f := range fields {
		fr, ok := rules[key{action, f}]
		if !ok {
			continue
		}
		if !fr.allows(identity, targetID) {
			return &Denial{Action: action, Field: f, Reason: fr.Reason}
		}
	}
	return nil
}

func (r Rule) allows(identity domain.Identity, targetID int64) bool {
	if len(r.Roles) == 0 && !r.AllowSelf {
		return true
	}
	if r.AllowSelf && targetID > 0 && identity.UserID == targetID {
		return true
	}
	for _, role := range r.Roles {
		if identity.Role == role {
			return true
		}
	}
	return false
}
