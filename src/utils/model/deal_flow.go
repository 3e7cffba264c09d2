package model

import (
	"errors"
	"fmt"
)

var (
	// ErrActionNotAllowed is returned when the actor's role lacks the
	// action in the deal's current status
	ErrActionNotAllowed = errors.New("action not allowed in current status")

	// ErrPrecondition is returned when the action is listed for the
	// (status, role) pair but its precondition fails
	ErrPrecondition = errors.New("action precondition failed")
)

// edge is one legal transition of the deal lifecycle.
// The table is keyed by (status, action): the same action label may mean
// a different transition in a different status, so resolution always
// starts from the current status, never from the label alone.
type edge struct {
	Status DealStatus
	Action DealAction
	Roles  []Role
	Next   DealStatus
}

var dealFlow = []edge{
	{DealCreated, ActionAccept, []Role{RoleOwner}, DealAccepted},
	{DealCreated, ActionReject, []Role{RoleOwner}, DealRejected},

	{DealAccepted, ActionSubmitDraft, []Role{RoleOwner}, DealDrafted},

	{DealDrafted, ActionApprove, []Role{RoleAdvertiser}, DealAwaitingPayment},
	{DealDrafted, ActionRequestRevision, []Role{RoleAdvertiser}, DealAccepted},

	{DealAwaitingPayment, ActionPay, []Role{RoleAdvertiser}, DealLocked},

	// A pre-paid deal is accepted and published in one move. Same label
	// as (created, accept), different edge.
	{DealLocked, ActionAccept, []Role{RoleOwner}, DealScheduled},
	{DealLocked, ActionDispute, []Role{RoleOwner, RoleAdvertiser}, DealDisputed},
}

func findEdge(status DealStatus, action DealAction) (edge, bool) {
	status = status.effective()
	for _, e := range dealFlow {
		if e.Status == status && e.Action == action {
			return e, true
		}
	}
	return edge{}, false
}

// Apply resolves the transition for (deal.Status, action) and checks the
// actor's role and the edge's preconditions. It is pure: the deal is
// never mutated, the caller records the returned status once the
// side effect behind the action has actually happened.
func Apply(deal *Deal, action DealAction, role Role) (DealStatus, error) {
	e, ok := findEdge(deal.Status, action)
	if !ok {
		return deal.Status, fmt.Errorf("%w: %s as %s in %s", ErrActionNotAllowed, action, role, deal.Status)
	}

	allowed := false
	for _, r := range e.Roles {
		if r == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return deal.Status, fmt.Errorf("%w: %s as %s in %s", ErrActionNotAllowed, action, role, deal.Status)
	}

	// Approving requires the draft the owner submitted to still be there
	if action == ActionApprove && deal.AdDraft == "" {
		return deal.Status, fmt.Errorf("%w: no draft to approve", ErrPrecondition)
	}

	return e.Next, nil
}

// AvailableActions computes the legal-action set for a (status, role)
// pair. It depends on nothing else, which is what lets callers expose
// controls without consulting hidden state.
func AvailableActions(status DealStatus, role Role) (actions []DealAction) {
	effective := status.effective()
	for _, e := range dealFlow {
		if e.Status != effective {
			continue
		}
		for _, r := range e.Roles {
			if r == role {
				actions = append(actions, e.Action)
				break
			}
		}
	}
	return
}
