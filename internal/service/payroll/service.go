package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

type PayrollServiceImpl struct {
	tx             database.Transactor
	structureRepo  payroll.StructureRepository
	assignmentRepo payroll.AssignmentRepository
	recordRepo     payroll.RecordRepository
	employees      payroll.EmployeeDirectory
	events         payroll.EventPublisher
	logger         *slog.Logger

	runs runGroup
	now  func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	structureRepo payroll.StructureRepository,
	assignmentRepo payroll.AssignmentRepository,
	recordRepo payroll.RecordRepository,
	employees payroll.EmployeeDirectory,
	events payroll.EventPublisher,
	logger *slog.Logger,
) payroll.PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:             tx,
		structureRepo:  structureRepo,
		assignmentRepo: assignmentRepo,
		recordRepo:     recordRepo,
		employees:      employees,
		events:         events,
		logger:         logger.With(slog.String("component", "payroll")),
		now:            time.Now,
	}
}

// callerFromContext resolves the tenant. A request without an organization is Unauthorized.
func callerFromContext(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil || claims.OrganizationID == "" {
		return jwt.Claims{}, payroll.ErrUnauthorized
	}
	return claims, nil
}

// ========== STRUCTURES ==========

func (s *PayrollServiceImpl) CreateStructure(ctx context.Context, req payroll.CreateStructureRequest) (payroll.StructureResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.StructureResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.StructureResponse{}, err
	}

	created, err := s.structureRepo.Create(ctx, req.Structure(caller.OrganizationID))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.StructureResponse{}, payroll.ErrStructureNameExists
		}
		return payroll.StructureResponse{}, err
	}

	return mapToStructureResponse(created), nil
}

func (s *PayrollServiceImpl) GetStructure(ctx context.Context, id string) (payroll.StructureResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.StructureResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return payroll.StructureResponse{}, payroll.ErrStructureNotFound
	}

	st, err := s.structureRepo.GetByID(ctx, id, caller.OrganizationID)
	if err != nil {
		return payroll.StructureResponse{}, err
	}

	return mapToStructureResponse(st), nil
}

func (s *PayrollServiceImpl) ListStructures(ctx context.Context) ([]payroll.StructureResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	structures, err := s.structureRepo.List(ctx, caller.OrganizationID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.StructureResponse, 0, len(structures))
	for _, st := range structures {
		responses = append(responses, mapToStructureResponse(st))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) UpdateStructure(ctx context.Context, req payroll.UpdateStructureRequest) (payroll.StructureResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.StructureResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.StructureResponse{}, err
	}

	st := req.Structure(caller.OrganizationID)
	st.ID = req.ID

	updated, err := s.structureRepo.Update(ctx, st)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.StructureResponse{}, payroll.ErrStructureNameExists
		}
		return payroll.StructureResponse{}, err
	}

	return mapToStructureResponse(updated), nil
}

// DeleteStructure refuses while any assignment still points at the structure.
func (s *PayrollServiceImpl) DeleteStructure(ctx context.Context, id string) error {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return payroll.ErrStructureNotFound
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.structureRepo.GetByID(ctx, id, caller.OrganizationID); err != nil {
			return err
		}

		count, err := s.structureRepo.CountAssignments(ctx, id, caller.OrganizationID)
		if err != nil {
			return err
		}
		if count > 0 {
			return payroll.ErrStructureInUse
		}

		return s.structureRepo.Delete(ctx, id, caller.OrganizationID)
	})
}

// ========== ASSIGNMENTS ==========

func (s *PayrollServiceImpl) AssignSalary(ctx context.Context, req payroll.AssignSalaryRequest) (payroll.AssignmentResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.AssignmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.AssignmentResponse{}, err
	}

	exists, err := s.employees.ExistsInOrganization(ctx, req.EmployeeID, caller.OrganizationID)
	if err != nil {
		return payroll.AssignmentResponse{}, err
	}
	if !exists {
		return payroll.AssignmentResponse{}, payroll.ErrEmployeeNotFound
	}

	a := payroll.Assignment{
		OrganizationID: caller.OrganizationID,
		EmployeeID:     req.EmployeeID,
		BaseSalary:     req.BaseSalary,
		PaymentMethod:  req.PaymentMethod,
		EffectiveDate:  truncateToDate(s.now()),
	}
	if a.PaymentMethod == "" {
		a.PaymentMethod = payroll.PaymentBankTransfer
	}
	if req.EffectiveDate != nil {
		a.EffectiveDate, _ = validator.IsValidDate(*req.EffectiveDate)
	}

	if req.StructureID != "" {
		st, err := s.structureRepo.GetByID(ctx, req.StructureID, caller.OrganizationID)
		if err != nil {
			return payroll.AssignmentResponse{}, err
		}
		a.StructureID = &st.ID
		a.StructureName = &st.Name
	}

	saved, err := s.assignmentRepo.Upsert(ctx, a)
	if err != nil {
		return payroll.AssignmentResponse{}, err
	}

	return mapToAssignmentResponse(saved), nil
}

func (s *PayrollServiceImpl) GetAssignment(ctx context.Context, employeeID string) (payroll.AssignmentResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.AssignmentResponse{}, err
	}
	if !validator.IsValidUUID(employeeID) {
		return payroll.AssignmentResponse{}, payroll.ErrAssignmentNotFound
	}

	a, err := s.assignmentRepo.GetByEmployee(ctx, employeeID, caller.OrganizationID)
	if err != nil {
		return payroll.AssignmentResponse{}, err
	}

	return mapToAssignmentResponse(a), nil
}

func (s *PayrollServiceImpl) ListAssignments(ctx context.Context) ([]payroll.AssignmentResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListWithStructures(ctx, caller.OrganizationID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, mapToAssignmentResponse(a))
	}
	return responses, nil
}

// PreviewSalary evaluates the employee's current assignment without writing anything.
func (s *PayrollServiceImpl) PreviewSalary(ctx context.Context, employeeID string) (payroll.PreviewResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}
	if !validator.IsValidUUID(employeeID) {
		return payroll.PreviewResponse{}, payroll.ErrAssignmentNotFound
	}

	a, err := s.assignmentRepo.GetByEmployee(ctx, employeeID, caller.OrganizationID)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}
	if a.Structure == nil {
		return payroll.PreviewResponse{}, payroll.ErrStructureNotFound
	}

	eval := payroll.EvaluateStructure(*a.Structure, a.BaseSalary)
	return payroll.PreviewResponse{
		EmployeeID:  a.EmployeeID,
		StructureID: a.Structure.ID,
		BaseSalary:  a.BaseSalary,
		Earnings:    eval.Earnings,
		Deductions:  eval.Deductions,
		GrossSalary: eval.Gross,
		NetSalary:   eval.Net,
	}, nil
}

// ========== RUN ==========

// RunPayroll computes DRAFT records for every usable assignment and upserts them in one transaction.
// Concurrent calls for the same organization and period share a single execution.
// The shared execution outlives any one caller and stops before writing only when
// every caller has gone. Its event is attributed to the caller that started it.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.RunPayrollResponse{}, err
	}
	if err := req.Period.Validate(); err != nil {
		return payroll.RunPayrollResponse{}, err
	}

	key := caller.OrganizationID + ":" + req.Period.String()
	v, shared, err := s.runs.Do(ctx, key, func(ctx context.Context) (interface{}, error) {
		return s.run(ctx, caller, req.Period)
	})
	if err != nil {
		return payroll.RunPayrollResponse{}, err
	}
	if shared {
		s.logger.Debug("payroll run coalesced", slog.String("organization_id", caller.OrganizationID), slog.String("period", req.Period.String()))
	}

	return v.(payroll.RunPayrollResponse), nil
}

func (s *PayrollServiceImpl) run(ctx context.Context, caller jwt.Claims, period payroll.Period) (payroll.RunPayrollResponse, error) {
	assignments, err := s.assignmentRepo.ListWithStructures(ctx, caller.OrganizationID)
	if err != nil {
		return payroll.RunPayrollResponse{}, fmt.Errorf("%w: %v", payroll.ErrPersistence, err)
	}
	if len(assignments) == 0 {
		return payroll.RunPayrollResponse{}, payroll.ErrNoAssignments
	}

	records, skipped := payroll.BuildRun(caller.OrganizationID, period, assignments)
	if len(records) == 0 {
		return payroll.RunPayrollResponse{}, &payroll.NoComputableRecordsError{Skipped: skipped}
	}

	// Nothing has been written yet, so a run every caller abandoned leaves the period untouched.
	if err := ctx.Err(); err != nil {
		return payroll.RunPayrollResponse{}, err
	}

	saved := make([]payroll.SalaryRecord, 0, len(records))
	var finalized []payroll.SkippedEmployee

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, rec := range records {
			out, written, err := s.recordRepo.UpsertDraft(ctx, rec)
			if err != nil {
				return err
			}
			if !written {
				finalized = append(finalized, payroll.SkippedEmployee{
					EmployeeID:   rec.EmployeeID,
					EmployeeCode: rec.EmployeeCode,
					EmployeeName: rec.EmployeeName,
					Reason:       payroll.SkipAlreadyFinalized,
				})
				continue
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return payroll.RunPayrollResponse{}, err
		}
		return payroll.RunPayrollResponse{}, fmt.Errorf("%w: %v", payroll.ErrPersistence, err)
	}
	skipped = append(skipped, finalized...)

	s.logger.Info("payroll run completed",
		slog.String("organization_id", caller.OrganizationID),
		slog.String("period", period.String()),
		slog.Int("records", len(saved)),
		slog.Int("skipped", len(skipped)),
	)

	if s.events != nil {
		event := payroll.RunCompletedEvent{
			EventType:      payroll.EventRunCompleted,
			OrganizationID: caller.OrganizationID,
			Month:          period.Month,
			Year:           period.Year,
			RecordCount:    len(saved),
			SkippedCount:   len(skipped),
			TriggeredBy:    caller.UserID,
			OccurredAt:     s.now().UTC(),
		}
		if err := s.events.PublishRunCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish payroll event", slog.String("event", payroll.EventRunCompleted), slog.Any("error", err))
		}
	}

	return payroll.RunPayrollResponse{
		Month:            period.Month,
		Year:             period.Year,
		ProcessedCount:   len(saved),
		Records:          mapToRecordResponses(saved),
		SkippedEmployees: skipped,
	}, nil
}

// FinalizePayroll approves every DRAFT record of the period and reports how many moved.
func (s *PayrollServiceImpl) FinalizePayroll(ctx context.Context, req payroll.FinalizePayrollRequest) (payroll.FinalizePayrollResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}
	if err := req.Period.Validate(); err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}

	count, err := s.recordRepo.ApproveDrafts(ctx, caller.OrganizationID, req.Period)
	if err != nil {
		return payroll.FinalizePayrollResponse{}, fmt.Errorf("%w: %v", payroll.ErrPersistence, err)
	}

	s.logger.Info("payroll finalized",
		slog.String("organization_id", caller.OrganizationID),
		slog.String("period", req.Period.String()),
		slog.Int64("approved", count),
	)

	if s.events != nil && count > 0 {
		event := payroll.FinalizedEvent{
			EventType:      payroll.EventFinalized,
			OrganizationID: caller.OrganizationID,
			Month:          req.Month,
			Year:           req.Year,
			ApprovedCount:  count,
			TriggeredBy:    caller.UserID,
			OccurredAt:     s.now().UTC(),
		}
		if err := s.events.PublishFinalized(ctx, event); err != nil {
			s.logger.Warn("failed to publish payroll event", slog.String("event", payroll.EventFinalized), slog.Any("error", err))
		}
	}

	return payroll.FinalizePayrollResponse{
		Month:         req.Month,
		Year:          req.Year,
		ApprovedCount: count,
	}, nil
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.SalaryRecordResponse, int64, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	records, total, err := s.recordRepo.List(ctx, caller.OrganizationID, filter)
	if err != nil {
		return nil, 0, err
	}

	return mapToRecordResponses(records), total, nil
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.SalaryRecordResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return payroll.SalaryRecordResponse{}, payroll.ErrRecordNotFound
	}

	rec, err := s.recordRepo.GetByID(ctx, id, caller.OrganizationID)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	return mapToRecordResponse(rec), nil
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, period payroll.Period) (payroll.SummaryResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}
	if err := period.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}

	sum, err := s.recordRepo.Summary(ctx, caller.OrganizationID, period)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	return payroll.SummaryResponse{
		Month:          period.Month,
		Year:           period.Year,
		TotalRecords:   sum.TotalRecords,
		DraftCount:     sum.DraftCount,
		ProcessedCount: sum.ProcessedCount,
		ApprovedCount:  sum.ApprovedCount,
		PaidCount:      sum.PaidCount,
		TotalGross:     sum.TotalGross,
		TotalNet:       sum.TotalNet,
	}, nil
}

// ListMyRecords returns the caller's own payslips.
func (s *PayrollServiceImpl) ListMyRecords(ctx context.Context, year *int) ([]payroll.SalaryRecordResponse, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employeeID := caller.EmployeeID
	if employeeID == "" {
		employeeID, err = s.employees.FindIDByUserID(ctx, caller.UserID, caller.OrganizationID)
		if err != nil {
			return nil, err
		}
	}
	if employeeID == "" {
		return nil, payroll.ErrEmployeeProfileAbsent
	}

	records, err := s.recordRepo.ListByEmployee(ctx, employeeID, caller.OrganizationID, year)
	if err != nil {
		return nil, err
	}

	return mapToRecordResponses(records), nil
}

// ========== MAPPERS ==========

func mapToStructureResponse(st payroll.Structure) payroll.StructureResponse {
	earnings := st.Earnings
	if earnings == nil {
		earnings = []payroll.Component{}
	}
	deductions := st.Deductions
	if deductions == nil {
		deductions = []payroll.Component{}
	}
	return payroll.StructureResponse{
		ID:          st.ID,
		Name:        st.Name,
		Description: st.Description,
		Earnings:    earnings,
		Deductions:  deductions,
		IsActive:    st.IsActive,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}

func mapToAssignmentResponse(a payroll.Assignment) payroll.AssignmentResponse {
	return payroll.AssignmentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeCode:  a.EmployeeCode,
		EmployeeName:  a.EmployeeName,
		StructureID:   a.StructureID,
		StructureName: a.StructureName,
		BaseSalary:    a.BaseSalary,
		PaymentMethod: a.PaymentMethod,
		EffectiveDate: a.EffectiveDate.Format(validator.DateLayout),
	}
}

func mapToRecordResponse(r payroll.SalaryRecord) payroll.SalaryRecordResponse {
	return payroll.SalaryRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeCode: r.EmployeeCode,
		EmployeeName: r.EmployeeName,
		Month:        r.Month,
		Year:         r.Year,
		BasicSalary:  r.BasicSalary,
		Earnings:     r.Earnings,
		Deductions:   r.Deductions,
		GrossSalary:  r.GrossSalary,
		NetSalary:    r.NetSalary,
		Status:       r.Status,
		PaymentDate:  r.PaymentDate,
		UpdatedAt:    r.UpdatedAt,
	}
}

func mapToRecordResponses(records []payroll.SalaryRecord) []payroll.SalaryRecordResponse {
	responses := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapToRecordResponse(r))
	}
	return responses
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
