// Package policy decides whether a principal may perform a mutation.
// Decisions are pure: no storage or transport concerns leak in, so the
// full rule table is unit-testable in isolation.
package policy

import (
	"github.com/utafrali/marketplace/internal/domain"
)

// Action identifies a gated mutation.
type Action string

const (
	ActionCreateProduct  Action = "create_product"
	ActionUpdateProduct  Action = "update_product"
	ActionDeleteProduct  Action = "delete_product"
	ActionCreateReview   Action = "create_review"
	ActionDeleteReview   Action = "delete_review"
	ActionCreateCategory Action = "create_category"
	ActionUpdateCategory Action = "update_category"
	ActionDeleteCategory Action = "delete_category"
)

// Principal is the authenticated caller as resolved from its credential.
// The role claim is trusted as given.
type Principal struct {
	ID   string
	Role string
}

// Target carries the ownership attributes of the entity being mutated.
// It is nil for actions that are not ownership-gated.
type Target struct {
	OwnerID string
}

// Decision is the outcome of a policy check. Reason is set only on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// rule describes one row of the decision table: the role required for the
// action and whether the principal must also own the target.
type rule struct {
	role       string
	needsOwner bool
}

var rules = map[Action]rule{
	ActionCreateProduct:  {role: domain.RoleSeller},
	ActionUpdateProduct:  {role: domain.RoleSeller, needsOwner: true},
	ActionDeleteProduct:  {role: domain.RoleSeller, needsOwner: true},
	ActionCreateReview:   {role: domain.RoleBuyer},
	ActionDeleteReview:   {role: domain.RoleAdmin},
	ActionCreateCategory: {role: domain.RoleAdmin},
	ActionUpdateCategory: {role: domain.RoleAdmin},
	ActionDeleteCategory: {role: domain.RoleAdmin},
}

// Decide evaluates the rule table for the given action. Role is checked
// before ownership, so a wrong-role caller is denied with the role reason
// even when it happens to own the target. An unknown action is denied.
func Decide(action Action, p Principal, target *Target) Decision {
	r, ok := rules[action]
	if !ok {
		return deny("unknown action " + string(action))
	}

	if p.Role != r.role {
		return deny("requires " + r.role + " role")
	}

	if r.needsOwner {
		if target == nil || target.OwnerID != p.ID {
			return deny("not owner")
		}
	}

	return allow
}
