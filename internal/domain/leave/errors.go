package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeCodeExists  = errors.New("leave type code already exists")
	ErrLeaveTypeInactive    = errors.New("leave type is not active")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveNotPending      = errors.New("leave request is not pending")
	ErrNotRequestOwner      = errors.New("only the applicant can cancel this leave request")
	ErrNoEmployeeProfile    = errors.New("no employee record linked to this account")
)
