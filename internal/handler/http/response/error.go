package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/employee"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/holiday"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var noComputable *payroll.NoComputableRecordsError
	if errors.As(err, &noComputable) {
		UnprocessableEntity(w, "NO_COMPUTABLE_RECORDS", payroll.ErrNoComputableRecords.Error(), map[string]interface{}{
			"skipped_employees": noComputable.Skipped,
		})
		return
	}

	switch {
	// Identity
	case errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrOrganizationRequired), errors.Is(err, payroll.ErrUnauthorized):
		Unauthorized(w, "No organization associated with this account")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Organization
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, organization.ErrEmailExists):
		Conflict(w, "Organization email already in use")
	case errors.Is(err, organization.ErrNothingToUpdate):
		BadRequest(w, "No updatable fields provided", nil)

	// Master data
	case errors.Is(err, department.ErrDepartmentNotFound), errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department with this name already exists")
	case errors.Is(err, department.ErrDepartmentInUse):
		Conflict(w, "Department still has employees")
	case errors.Is(err, department.ErrHeadNotFound):
		BadRequest(w, "Department head is not an employee of this organization", nil)
	case errors.Is(err, designation.ErrDesignationNotFound), errors.Is(err, employee.ErrDesignationNotFound):
		NotFound(w, "Designation not found")
	case errors.Is(err, designation.ErrDesignationNameExists):
		Conflict(w, "Designation with this name already exists")
	case errors.Is(err, designation.ErrDesignationInUse):
		Conflict(w, "Designation is assigned to employees")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "An employee with this email already exists")
	case errors.Is(err, employee.ErrManagerNotFound):
		BadRequest(w, "Manager is not an employee of this organization", nil)
	case errors.Is(err, employee.ErrSelfManager):
		BadRequest(w, "An employee cannot be their own manager", nil)
	case errors.Is(err, employee.ErrEmployeeAlreadyResigned):
		Conflict(w, "Employee has already resigned")
	case errors.Is(err, employee.ErrNoEmployeeProfile),
		errors.Is(err, attendance.ErrNoEmployeeProfile),
		errors.Is(err, leave.ErrNoEmployeeProfile),
		errors.Is(err, payroll.ErrEmployeeProfileAbsent):
		NotFound(w, "No employee record linked to this account")

	// Attendance
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You are already checked in")
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequest(w, "No active check-in found", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Leave
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeCodeExists):
		Conflict(w, "Leave type code already exists")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is not active", nil)
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveNotPending):
		Conflict(w, "Leave request is not pending")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Only the applicant can cancel this leave request")

	// Holidays
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, "A holiday with this name already exists on this date")

	// Payroll
	case errors.Is(err, payroll.ErrNoAssignments):
		UnprocessableEntity(w, "NO_ASSIGNMENTS", "No employees have salary settings assigned", nil)
	case errors.Is(err, payroll.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, payroll.ErrStructureNameExists):
		Conflict(w, "Salary structure with this name already exists")
	case errors.Is(err, payroll.ErrStructureInUse):
		Conflict(w, "Salary structure is assigned to employees")
	case errors.Is(err, payroll.ErrAssignmentNotFound):
		NotFound(w, "Salary assignment not found")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrPersistence):
		slog.Error("payroll persistence failure", slog.Any("error", err))
		InternalServerError(w, "Payroll records could not be saved")

	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
