package attendance

import "errors"

var (
	ErrAlreadyCheckedIn   = errors.New("you are already checked in")
	ErrNoOpenSession      = errors.New("no active check-in found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNoEmployeeProfile  = errors.New("no employee record linked to this account")
)
