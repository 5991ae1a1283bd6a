package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized          = errors.New("no organization context for this request")
	ErrNoAssignments         = errors.New("no employees have salary settings assigned")
	ErrNoComputableRecords   = errors.New("no payroll records could be computed")
	ErrPersistence           = errors.New("payroll persistence failure")
	ErrStructureNotFound     = errors.New("salary structure not found")
	ErrStructureNameExists   = errors.New("salary structure with this name already exists")
	ErrStructureInUse        = errors.New("salary structure is assigned to employees")
	ErrAssignmentNotFound    = errors.New("salary assignment not found")
	ErrRecordNotFound        = errors.New("salary record not found")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeProfileAbsent = errors.New("no employee record linked to this account")
)

// NoComputableRecordsError reports a run where assignments existed but none produced a record.
type NoComputableRecordsError struct {
	Skipped []SkippedEmployee
}

func (e *NoComputableRecordsError) Error() string {
	return fmt.Sprintf("%s: %d employee(s) skipped", ErrNoComputableRecords.Error(), len(e.Skipped))
}

func (e *NoComputableRecordsError) Is(target error) bool {
	return target == ErrNoComputableRecords
}
