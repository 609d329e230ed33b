// Package policy is the single access-policy evaluator. Every transactional
// operation consults these pure functions instead of carrying its own inline
// role checks.
package policy

import (
	"basetrack/internal/apperr"
	"basetrack/internal/model"
)

// Actor is the authenticated principal extracted from the bearer token.
// BaseID is the actor's home base id as a string, empty for admins without a
// base binding.
type Actor struct {
	ID       string
	Username string
	Role     string
	BaseID   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// ResolveTargetBase decides which base a read operation is scoped to.
// Admins pass their requested base id through verbatim (empty means "no
// base" for list endpoints); everyone else is pinned to their own base
// regardless of what the client supplied.
func ResolveTargetBase(a Actor, requestedBaseID string) string {
	if a.IsAdmin() {
		return requestedBaseID
	}
	return a.BaseID
}

// AuthorizeBaseAccess reports whether the actor may touch a resource scoped
// to resourceBaseID. Admins always may; others only within their own base.
func AuthorizeBaseAccess(a Actor, resourceBaseID string) error {
	if a.IsAdmin() {
		return nil
	}
	if a.BaseID != "" && a.BaseID == resourceBaseID {
		return nil
	}
	return apperr.New(apperr.CodeForbiddenScope, "access denied to this base")
}

// CanManageAssets gates asset creation and quantity edits.
func CanManageAssets(a Actor) error {
	return requireRole(a, model.RoleAdmin, model.RoleBaseCommander)
}

// CanRecordPurchase gates purchase creation.
func CanRecordPurchase(a Actor) error {
	return requireRole(a, model.RoleAdmin, model.RoleBaseCommander, model.RoleLogisticsOfficer)
}

// CanInitiateTransfer gates transfer initiation. A base commander may only
// initiate from their own base.
func CanInitiateTransfer(a Actor, fromBaseID string) error {
	if err := requireRole(a, model.RoleAdmin, model.RoleBaseCommander, model.RoleLogisticsOfficer); err != nil {
		return err
	}
	if a.Role == model.RoleBaseCommander && fromBaseID != a.BaseID {
		return apperr.New(apperr.CodeForbiddenScope, "cannot initiate transfer from other bases")
	}
	return nil
}

// CanApproveTransfer gates transfer status transitions. Only an admin or the
// receiving base's commander decides a transfer's fate.
func CanApproveTransfer(a Actor, toBaseID string) error {
	if err := requireRole(a, model.RoleAdmin, model.RoleBaseCommander); err != nil {
		return err
	}
	if !a.IsAdmin() && a.BaseID != toBaseID {
		return apperr.New(apperr.CodeForbiddenScope, "only receiving base commander can approve transfers")
	}
	return nil
}

// CanAssign gates assignment creation and status updates.
func CanAssign(a Actor) error {
	return requireRole(a, model.RoleAdmin, model.RoleBaseCommander)
}

// CanRecordExpenditure gates expenditure creation.
func CanRecordExpenditure(a Actor) error {
	return requireRole(a, model.RoleAdmin, model.RoleBaseCommander)
}

func requireRole(a Actor, allowed ...string) error {
	for _, role := range allowed {
		if a.Role == role {
			return nil
		}
	}
	return apperr.New(apperr.CodeForbiddenRole, "insufficient permissions for this action")
}
