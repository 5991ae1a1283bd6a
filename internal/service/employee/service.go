package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/employee"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

// codeAttempts bounds retries when two creates race for the same employee code.
const codeAttempts = 3

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	leaves       employee.LeaveAllocator
	logger       *slog.Logger
	now          func() time.Time
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	leaves employee.LeaveAllocator,
	logger *slog.Logger,
) *EmployeeServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		leaves:       leaves,
		logger:       logger.With(slog.String("component", "employee")),
		now:          time.Now,
	}
}

func organizationID(ctx context.Context) (string, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return "", user.ErrOrganizationRequired
	}
	return orgID, nil
}

// uniqueViolation returns the violated constraint name, or "" for any other error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	now := s.now()
	if err := req.Validate(now); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkReferences(ctx, orgID, req.DepartmentID, req.DesignationID, req.ManagerID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	entity := req.Employee(orgID)
	entity.Status = employee.StatusActive

	var created employee.Employee
	for attempt := 1; ; attempt++ {
		created, err = s.createOnce(ctx, entity, now.Year())
		constraint, conflict := uniqueViolation(err)
		if !conflict {
			break
		}
		if strings.Contains(constraint, "email") {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
		if attempt == codeAttempts {
			return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
		}
		s.logger.Warn("employee code taken, retrying", slog.String("organization_id", orgID), slog.Int("attempt", attempt))
	}
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	full, err := s.employeeRepo.GetByID(ctx, created.ID, orgID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapToResponse(full), nil
}

// createOnce generates the next code, inserts the employee and seeds leave balances in one transaction.
func (s *EmployeeServiceImpl) createOnce(ctx context.Context, entity employee.Employee, year int) (employee.Employee, error) {
	var created employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		last, err := s.employeeRepo.LatestCode(ctx, entity.OrganizationID)
		if err != nil {
			return err
		}
		entity.EmployeeCode = employee.NextEmployeeCode(last, year)

		created, err = s.employeeRepo.Create(ctx, entity)
		if err != nil {
			return err
		}

		seeded, err := s.leaves.InitializeBalances(ctx, entity.OrganizationID, created.ID, year)
		if err != nil {
			return fmt.Errorf("failed to initialize leave balances: %w", err)
		}
		s.logger.Info("employee created",
			slog.String("organization_id", entity.OrganizationID),
			slog.String("employee_code", created.EmployeeCode),
			slog.Int64("leave_balances", seeded),
		)
		return nil
	})
	return created, err
}

func (s *EmployeeServiceImpl) checkReferences(ctx context.Context, orgID, departmentID, designationID string, managerID *string) error {
	departmentOK, designationOK, err := s.employeeRepo.ReferencesExist(ctx, orgID, departmentID, designationID)
	if err != nil {
		return err
	}
	if !departmentOK {
		return employee.ErrDepartmentNotFound
	}
	if !designationOK {
		return employee.ErrDesignationNotFound
	}
	if managerID != nil && *managerID != "" {
		ok, err := s.employeeRepo.ExistsInOrganization(ctx, *managerID, orgID)
		if err != nil {
			return err
		}
		if !ok {
			return employee.ErrManagerNotFound
		}
	}
	return nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	e, err := s.employeeRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapToResponse(e), nil
}

func (s *EmployeeServiceImpl) GetMyProfile(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil || claims.OrganizationID == "" {
		return employee.EmployeeResponse{}, user.ErrOrganizationRequired
	}

	id := claims.EmployeeID
	if id == "" {
		id, err = s.employeeRepo.FindIDByUserID(ctx, claims.UserID, claims.OrganizationID)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
	}
	if id == "" {
		return employee.EmployeeResponse{}, employee.ErrNoEmployeeProfile
	}

	e, err := s.employeeRepo.GetByID(ctx, id, claims.OrganizationID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapToResponse(e), nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, int64, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	employees, total, err := s.employeeRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, mapToResponse(e))
	}
	return responses, total, nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(s.now()); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.Apply(&current)

	if current.ManagerID != nil && *current.ManagerID == current.ID {
		return employee.EmployeeResponse{}, employee.ErrSelfManager
	}
	if current.ConfirmationDate != nil && current.ConfirmationDate.Before(current.JoiningDate) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field: "confirmation_date", Message: "confirmation_date cannot be before joining_date",
		}}
	}
	if req.DepartmentID != nil || req.DesignationID != nil || req.ManagerID != nil {
		if err := s.checkReferences(ctx, orgID, current.DepartmentID, current.DesignationID, current.ManagerID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	if _, err := s.employeeRepo.Update(ctx, current); err != nil {
		if _, conflict := uniqueViolation(err); conflict {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapToResponse(updated), nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	orgID, err := organizationID(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return employee.ErrEmployeeNotFound
	}

	e, err := s.employeeRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return err
	}
	if e.Status == employee.StatusResigned {
		return employee.ErrEmployeeAlreadyResigned
	}

	now := s.now()
	return s.employeeRepo.Resign(ctx, id, orgID, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func mapToResponse(e employee.Employee) employee.EmployeeResponse {
	contacts := e.EmergencyContacts
	if contacts == nil {
		contacts = []employee.EmergencyContact{}
	}
	return employee.EmployeeResponse{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		UserID:            e.UserID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		FullName:          e.FullName(),
		Email:             e.Email,
		Phone:             e.Phone,
		DateOfBirth:       e.DateOfBirth.Format(dateLayout),
		Gender:            e.Gender,
		BloodGroup:        e.BloodGroup,
		MaritalStatus:     e.MaritalStatus,
		ProfileImageURL:   e.ProfileImageURL,
		DepartmentID:      e.DepartmentID,
		DepartmentName:    e.DepartmentName,
		DesignationID:     e.DesignationID,
		DesignationName:   e.DesignationName,
		ManagerID:         e.ManagerID,
		ManagerName:       e.ManagerName,
		EmploymentType:    e.EmploymentType,
		JoiningDate:       e.JoiningDate.Format(dateLayout),
		ConfirmationDate:  formatDate(e.ConfirmationDate),
		ResignationDate:   formatDate(e.ResignationDate),
		Status:            e.Status,
		CurrentAddress:    e.CurrentAddress,
		PermanentAddress:  e.PermanentAddress,
		EmergencyContacts: contacts,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)
