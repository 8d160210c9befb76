package approval

import (
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
)

// Subject identifies whose entry is being reviewed and who supervises them.
type Subject struct {
	OwnerID              string
	OwnerSupervisorID    *string
	DivisionSupervisorID *string
}

// CanReview is the single authorization predicate for approvals. Admins may
// review anyone, supervisors may review their direct reports and the members
// of the division they lead. Nobody reviews their own entry.
func CanReview(actor user.Actor, s Subject) bool {
	if actor.ID == "" || actor.ID == s.OwnerID {
		return false
	}
	switch actor.Role {
	case user.RoleAdmin:
		return true
	case user.RoleSupervisor:
		return matches(s.OwnerSupervisorID, actor.ID) || matches(s.DivisionSupervisorID, actor.ID)
	default:
		return false
	}
}

// CanView allows the owner and anyone who may review the entry.
func CanView(actor user.Actor, s Subject) bool {
	return actor.ID != "" && (actor.ID == s.OwnerID || CanReview(actor, s))
}

func matches(id *string, actorID string) bool {
	return id != nil && *id == actorID
}

// Approve applies an approval by actor. Authority is checked before state.
func Approve(actor user.Actor, s Subject, r *Review, at time.Time, feedback *string) error {
	if !CanReview(actor, s) {
		return ErrUnauthorized
	}
	return r.Approve(actor.ID, at, feedback)
}

// Reject applies a rejection by actor. A blank reason fails first, then
// authority, then state.
func Reject(actor user.Actor, s Subject, r *Review, at time.Time, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	if !CanReview(actor, s) {
		return ErrUnauthorized
	}
	return r.Reject(actor.ID, at, reason)
}

// Scope restricts listings to the entries a reviewer may act on.
type Scope struct {
	All        bool
	ReviewerID string
}

func ScopeFor(actor user.Actor) (Scope, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return Scope{All: true, ReviewerID: actor.ID}, nil
	case user.RoleSupervisor:
		return Scope{ReviewerID: actor.ID}, nil
	default:
		return Scope{}, ErrUnauthorized
	}
}

// Includes mirrors CanReview for an already resolved scope.
func (sc Scope) Includes(s Subject) bool {
	if s.OwnerID == sc.ReviewerID {
		return false
	}
	return sc.All || matches(s.OwnerSupervisorID, sc.ReviewerID) || matches(s.DivisionSupervisorID, sc.ReviewerID)
}
