package domain

import "approval-flow-api/internal/apperror"

// Roles supplied by the identity collaborator in front of this service
const (
	RoleApplicant = "applicant"
	RoleApprover  = "approver"
)

// Caller identifies who is invoking an operation. It is materialized by the
// identity middleware from the inbound request; the service layer trusts it
// as given.
type Caller struct {
	UserID   string
	UserName string
	Role     string
}

// Action is a permission-gated lifecycle operation
type Action string

const (
	ActionUpdate   Action = "UPDATE"
	ActionWithdraw Action = "WITHDRAW"
	ActionApprove  Action = "APPROVE"
	ActionReject   Action = "REJECT"
)

// CheckPermission decides whether the caller may perform action on an approval
// created by creatorID.
//
// Rules:
//   - UPDATE/WITHDRAW: applicant role, and the caller must be the creator
//   - APPROVE/REJECT: approver role, and self-approval is forbidden
func CheckPermission(caller Caller, creatorID string, action Action) error {
	switch action {
	case ActionUpdate, ActionWithdraw:
		if caller.Role != RoleApplicant {
			return apperror.Forbidden("only applicant can update or withdraw, got role %q", caller.Role)
		}
		if caller.UserID != creatorID {
			return apperror.Forbidden("not the creator of this approval")
		}
	case ActionApprove, ActionReject:
		if caller.Role != RoleApprover {
			return apperror.Forbidden("only approver can approve or reject, got role %q", caller.Role)
		}
		if caller.UserID == creatorID {
			return apperror.Forbidden("cannot approve your own request")
		}
	default:
		return apperror.Forbidden("unknown action %s", action)
	}
	return nil
}
