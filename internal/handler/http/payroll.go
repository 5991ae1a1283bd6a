package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Structures
	CreateStructure(w http.ResponseWriter, r *http.Request)
	GetStructure(w http.ResponseWriter, r *http.Request)
	ListStructures(w http.ResponseWriter, r *http.Request)
	UpdateStructure(w http.ResponseWriter, r *http.Request)
	DeleteStructure(w http.ResponseWriter, r *http.Request)

	// Assignments
	AssignSalary(w http.ResponseWriter, r *http.Request)
	GetAssignment(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	PreviewSalary(w http.ResponseWriter, r *http.Request)

	// Run and finalize
	RunPayroll(w http.ResponseWriter, r *http.Request)
	FinalizePayroll(w http.ResponseWriter, r *http.Request)

	// Records
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	ListMyRecords(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== STRUCTURES ==========

func (h *payrollHandlerImpl) CreateStructure(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary structure created successfully", result)
}

func (h *payrollHandlerImpl) GetStructure(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetStructure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListStructures(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListStructures(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateStructure(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdateStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary structure updated successfully", result)
}

func (h *payrollHandlerImpl) DeleteStructure(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeleteStructure(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary structure deleted successfully", nil)
}

// ========== ASSIGNMENTS ==========

func (h *payrollHandlerImpl) AssignSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.AssignSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.AssignSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary assigned successfully", result)
}

func (h *payrollHandlerImpl) GetAssignment(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetAssignment(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListAssignments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) PreviewSalary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.PreviewSalary(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RUN AND FINALIZE ==========

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll processed successfully", result)
}

func (h *payrollHandlerImpl) FinalizePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.FinalizePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.FinalizePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll finalized successfully", result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := payroll.RecordFilter{
		Month:      q.Int("month"),
		Year:       q.Int("year"),
		EmployeeID: q.String("employee_id"),
		Page:       q.IntOr("page", 1),
		Limit:      q.IntOr("limit", 20),
	}
	if s := q.String("status"); s != nil {
		status := payroll.RecordStatus(*s)
		filter.Status = &status
	}
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	// Normalizes page and limit so the meta matches what the store returned.
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, total, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	period := payroll.Period{
		Month: q.IntOr("month", 0),
		Year:  q.IntOr("year", 0),
	}
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetSummary(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListMyRecords(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	year := q.Int("year")
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListMyRecords(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
