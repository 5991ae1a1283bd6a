package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeCodeExists      = errors.New("employee code already exists")
	ErrEmailExists             = errors.New("an employee with this email already exists")
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDesignationNotFound     = errors.New("designation not found")
	ErrManagerNotFound         = errors.New("manager is not an employee of this organization")
	ErrSelfManager             = errors.New("an employee cannot be their own manager")
	ErrEmployeeAlreadyResigned = errors.New("employee has already resigned")
	ErrNoEmployeeProfile       = errors.New("no employee record linked to this account")
)
