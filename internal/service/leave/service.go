package leave

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

type LeaveServiceImpl struct {
	tx            database.Transactor
	leaveTypeRepo leave.LeaveTypeRepository
	balanceRepo   leave.BalanceRepository
	requestRepo   leave.RequestRepository
	employees     leave.EmployeeDirectory
	logger        *slog.Logger
	now           func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	employees leave.EmployeeDirectory,
	logger *slog.Logger,
) *LeaveServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaveServiceImpl{
		tx:            tx,
		leaveTypeRepo: leaveTypeRepo,
		balanceRepo:   balanceRepo,
		requestRepo:   requestRepo,
		employees:     employees,
		logger:        logger.With(slog.String("component", "leave")),
		now:           time.Now,
	}
}

func organizationID(ctx context.Context) (string, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return "", user.ErrOrganizationRequired
	}
	return orgID, nil
}

type caller struct {
	claims     jwt.Claims
	employeeID string
}

func (s *LeaveServiceImpl) self(ctx context.Context) (caller, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil || claims.OrganizationID == "" {
		return caller{}, user.ErrOrganizationRequired
	}

	employeeID := claims.EmployeeID
	if employeeID == "" {
		employeeID, err = s.employees.FindIDByUserID(ctx, claims.UserID, claims.OrganizationID)
		if err != nil {
			return caller{}, err
		}
	}
	if employeeID == "" {
		return caller{}, leave.ErrNoEmployeeProfile
	}
	return caller{claims: claims, employeeID: employeeID}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ==================== LEAVE TYPES ====================

func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.leaveTypeRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, mapLeaveType(lt))
	}
	return responses, nil
}

func (s *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	created, err := s.leaveTypeRepo.Create(ctx, req.LeaveType(orgID))
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveTypeResponse{}, err
	}
	return mapLeaveType(created), nil
}

func (s *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNotFound
	}

	current, err := s.leaveTypeRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	req.Apply(&current)

	updated, err := s.leaveTypeRepo.Update(ctx, current)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveTypeResponse{}, err
	}
	return mapLeaveType(updated), nil
}

// ==================== BALANCES ====================

func (s *LeaveServiceImpl) ListMyBalances(ctx context.Context, year *int) ([]leave.BalanceResponse, error) {
	c, err := s.self(ctx)
	if err != nil {
		return nil, err
	}

	y := s.now().Year()
	if year != nil {
		y = *year
	}

	balances, err := s.balanceRepo.ListByEmployee(ctx, c.employeeID, c.claims.OrganizationID, y)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.BalanceResponse{
			LeaveTypeID:   b.LeaveTypeID,
			LeaveTypeName: b.LeaveTypeName,
			LeaveTypeCode: b.LeaveTypeCode,
			Year:          b.Year,
			Allocated:     b.Allocated,
			Used:          b.Used,
			Pending:       b.Pending,
			Available:     b.Available,
		})
	}
	return responses, nil
}

// ==================== REQUESTS ====================

func (s *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.RequestResponse, error) {
	c, err := s.self(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	lt, err := s.leaveTypeRepo.GetByID(ctx, req.LeaveTypeID, c.claims.OrganizationID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !lt.IsActive {
		return leave.RequestResponse{}, leave.ErrLeaveTypeInactive
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	created, err := s.requestRepo.Create(ctx, leave.Request{
		OrganizationID: c.claims.OrganizationID,
		EmployeeID:     c.employeeID,
		LeaveTypeID:    lt.ID,
		StartDate:      start,
		EndDate:        end,
		Days:           leave.CountDays(start, end, req.IsHalfDay),
		IsHalfDay:      req.IsHalfDay,
		Reason:         strings.TrimSpace(req.Reason),
		Status:         leave.StatusPending,
		LeaveTypeName:  lt.Name,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return mapRequest(created), nil
}

func (s *LeaveServiceImpl) ListMyRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	c, err := s.self(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter.EmployeeID = &c.employeeID
	return s.list(ctx, c.claims.OrganizationID, filter)
}

func (s *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, orgID, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, orgID string, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	requests, total, err := s.requestRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequest(r))
	}
	return responses, total, nil
}

func (s *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.RequestResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return leave.RequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	r, err := s.requestRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return mapRequest(r), nil
}

// Approve marks a pending request APPROVED and charges its days to the balance of the start date's year.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string, req leave.ReviewLeaveRequest) (leave.RequestResponse, error) {
	claims, r, err := s.pending(ctx, id, req)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	var approved leave.Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		approved, err = s.requestRepo.TransitionFromPending(ctx, leave.Transition{
			ID:             r.ID,
			OrganizationID: claims.OrganizationID,
			To:             leave.StatusApproved,
			ApproverID:     &claims.UserID,
			ApproverNotes:  req.Notes,
		})
		if err != nil {
			return err
		}

		found, err := s.balanceRepo.Consume(ctx, claims.OrganizationID, r.EmployeeID, r.LeaveTypeID, r.StartDate.Year(), r.Days)
		if err != nil {
			return err
		}
		if !found {
			s.logger.Info("approved leave has no balance to charge",
				slog.String("leave_id", r.ID),
				slog.String("employee_id", r.EmployeeID),
				slog.Int("year", r.StartDate.Year()),
			)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return mapRequest(approved), nil
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, id string, req leave.ReviewLeaveRequest) (leave.RequestResponse, error) {
	claims, r, err := s.pending(ctx, id, req)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	rejected, err := s.requestRepo.TransitionFromPending(ctx, leave.Transition{
		ID:             r.ID,
		OrganizationID: claims.OrganizationID,
		To:             leave.StatusRejected,
		ApproverID:     &claims.UserID,
		ApproverNotes:  req.Notes,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return mapRequest(rejected), nil
}

// pending loads a request for review and checks it is still PENDING.
func (s *LeaveServiceImpl) pending(ctx context.Context, id string, req leave.ReviewLeaveRequest) (jwt.Claims, leave.Request, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil || claims.OrganizationID == "" {
		return jwt.Claims{}, leave.Request{}, user.ErrOrganizationRequired
	}
	if err := req.Validate(); err != nil {
		return jwt.Claims{}, leave.Request{}, err
	}
	if !validator.IsValidUUID(id) {
		return jwt.Claims{}, leave.Request{}, leave.ErrLeaveRequestNotFound
	}

	r, err := s.requestRepo.GetByID(ctx, id, claims.OrganizationID)
	if err != nil {
		return jwt.Claims{}, leave.Request{}, err
	}
	if r.Status != leave.StatusPending {
		return jwt.Claims{}, leave.Request{}, leave.ErrLeaveNotPending
	}
	return claims, r, nil
}

func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.RequestResponse, error) {
	c, err := s.self(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return leave.RequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	r, err := s.requestRepo.GetByID(ctx, id, c.claims.OrganizationID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if r.EmployeeID != c.employeeID {
		return leave.RequestResponse{}, leave.ErrNotRequestOwner
	}
	if r.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrLeaveNotPending
	}

	cancelled, err := s.requestRepo.TransitionFromPending(ctx, leave.Transition{
		ID:             r.ID,
		OrganizationID: c.claims.OrganizationID,
		To:             leave.StatusCancelled,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return mapRequest(cancelled), nil
}

// ==================== MAPPERS ====================

func mapLeaveType(lt leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:              lt.ID,
		Name:            lt.Name,
		Code:            lt.Code,
		Description:     lt.Description,
		DefaultDays:     lt.DefaultDays,
		CarryForward:    lt.CarryForward,
		MaxCarryForward: lt.MaxCarryForward,
		IsPaid:          lt.IsPaid,
		IsActive:        lt.IsActive,
	}
}

func mapRequest(r leave.Request) leave.RequestResponse {
	return leave.RequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		EmployeeCode:  r.EmployeeCode,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format(validator.DateLayout),
		EndDate:       r.EndDate.Format(validator.DateLayout),
		Days:          r.Days,
		IsHalfDay:     r.IsHalfDay,
		Reason:        r.Reason,
		Status:        r.Status,
		ApproverID:    r.ApproverID,
		ApproverNotes: r.ApproverNotes,
		ApprovedAt:    r.ApprovedAt,
		CreatedAt:     r.CreatedAt,
	}
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
