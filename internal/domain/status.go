package domain

import "approval-flow-api/internal/apperror"

// ApprovalStatus represents the lifecycle status of an approval request
type ApprovalStatus string

const (
	StatusPending   ApprovalStatus = "PENDING"
	StatusApproved  ApprovalStatus = "APPROVED"
	StatusRejected  ApprovalStatus = "REJECTED"
	StatusWithdrawn ApprovalStatus = "WITHDRAWN"
)

// IsTerminal reports whether no further transition (other than the idempotent
// self-transition) is permitted from this status
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusWithdrawn
}

// IsValid reports whether s is one of the known statuses
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// ValidateTransition checks whether moving from current to next is a legal
// status transition.
//
// Rules:
//   - identical current/next is always permitted (idempotent no-op, used by
//     in-place field updates that keep the status)
//   - PENDING may move to any terminal status
//   - terminal statuses may not move to a different status
func ValidateTransition(current, next ApprovalStatus) error {
	if current == next {
		return nil
	}
	if current.IsTerminal() {
		return apperror.InvalidTransition("cannot update from final status %s", current)
	}
	if current == StatusPending {
		if next == StatusApproved || next == StatusRejected || next == StatusWithdrawn {
			return nil
		}
	}
	return apperror.InvalidTransition("invalid status transition from %s to %s", current, next)
}
