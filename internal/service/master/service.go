package master

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

type MasterService interface {
	// Department operations
	CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error

	// Designation operations
	CreateDesignation(ctx context.Context, req designation.CreateDesignationRequest) (designation.DesignationResponse, error)
	GetDesignation(ctx context.Context, id string) (designation.DesignationResponse, error)
	ListDesignations(ctx context.Context) ([]designation.DesignationResponse, error)
	UpdateDesignation(ctx context.Context, req designation.UpdateDesignationRequest) (designation.DesignationResponse, error)
	DeleteDesignation(ctx context.Context, id string) error
}

// EmployeeLookup checks department heads against the organization's employees.
type EmployeeLookup interface {
	ExistsInOrganization(ctx context.Context, employeeID string, organizationID string) (bool, error)
}

type masterServiceImpl struct {
	tx              database.Transactor
	departmentRepo  department.DepartmentRepository
	designationRepo designation.DesignationRepository
	employees       EmployeeLookup
}

func NewMasterService(
	tx database.Transactor,
	departmentRepo department.DepartmentRepository,
	designationRepo designation.DesignationRepository,
	employees EmployeeLookup,
) MasterService {
	return &masterServiceImpl{
		tx:              tx,
		departmentRepo:  departmentRepo,
		designationRepo: designationRepo,
		employees:       employees,
	}
}

func organizationID(ctx context.Context) (string, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return "", user.ErrOrganizationRequired
	}
	return orgID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ==================== DEPARTMENT OPERATIONS ====================

func (s *masterServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	entity := department.Department{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		IsActive:       true,
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}
	if req.HeadID != nil && *req.HeadID != "" {
		if err := s.checkHead(ctx, *req.HeadID, orgID); err != nil {
			return department.DepartmentResponse{}, err
		}
		entity.HeadID = req.HeadID
	}

	created, err := s.departmentRepo.Create(ctx, entity)
	if err != nil {
		if isUniqueViolation(err) {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return mapDepartment(created), nil
}

func (s *masterServiceImpl) GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return department.DepartmentResponse{}, department.ErrDepartmentNotFound
	}

	d, err := s.departmentRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	return mapDepartment(d), nil
}

func (s *masterServiceImpl) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return nil, err
	}

	departments, err := s.departmentRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, mapDepartment(d))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	current, err := s.departmentRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	if req.Name != nil {
		current.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if req.HeadID != nil {
		if *req.HeadID == "" {
			current.HeadID = nil
			current.HeadName = nil
		} else {
			if err := s.checkHead(ctx, *req.HeadID, orgID); err != nil {
				return department.DepartmentResponse{}, err
			}
			current.HeadID = req.HeadID
		}
	}

	updated, err := s.departmentRepo.Update(ctx, current)
	if err != nil {
		if isUniqueViolation(err) {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		return department.DepartmentResponse{}, err
	}

	return mapDepartment(updated), nil
}

func (s *masterServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	orgID, err := organizationID(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return department.ErrDepartmentNotFound
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := s.departmentRepo.CountEmployees(ctx, id, orgID)
		if err != nil {
			return err
		}
		if count > 0 {
			return department.ErrDepartmentInUse
		}
		return s.departmentRepo.Delete(ctx, id, orgID)
	})
}

func (s *masterServiceImpl) checkHead(ctx context.Context, employeeID, orgID string) error {
	ok, err := s.employees.ExistsInOrganization(ctx, employeeID, orgID)
	if err != nil {
		return err
	}
	if !ok {
		return department.ErrHeadNotFound
	}
	return nil
}

func mapDepartment(d department.Department) department.DepartmentResponse {
	return department.DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		HeadID:        d.HeadID,
		HeadName:      d.HeadName,
		IsActive:      d.IsActive,
		EmployeeCount: d.EmployeeCount,
	}
}

// ==================== DESIGNATION OPERATIONS ====================

func (s *masterServiceImpl) CreateDesignation(ctx context.Context, req designation.CreateDesignationRequest) (designation.DesignationResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return designation.DesignationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return designation.DesignationResponse{}, err
	}

	entity := designation.Designation{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Level:          req.Level,
		IsActive:       true,
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}

	created, err := s.designationRepo.Create(ctx, entity)
	if err != nil {
		if isUniqueViolation(err) {
			return designation.DesignationResponse{}, designation.ErrDesignationNameExists
		}
		return designation.DesignationResponse{}, fmt.Errorf("failed to create designation: %w", err)
	}

	return mapDesignation(created), nil
}

func (s *masterServiceImpl) GetDesignation(ctx context.Context, id string) (designation.DesignationResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return designation.DesignationResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return designation.DesignationResponse{}, designation.ErrDesignationNotFound
	}

	d, err := s.designationRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return designation.DesignationResponse{}, err
	}

	return mapDesignation(d), nil
}

func (s *masterServiceImpl) ListDesignations(ctx context.Context) ([]designation.DesignationResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return nil, err
	}

	designations, err := s.designationRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	responses := make([]designation.DesignationResponse, 0, len(designations))
	for _, d := range designations {
		responses = append(responses, mapDesignation(d))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateDesignation(ctx context.Context, req designation.UpdateDesignationRequest) (designation.DesignationResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return designation.DesignationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return designation.DesignationResponse{}, err
	}

	current, err := s.designationRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return designation.DesignationResponse{}, err
	}

	if req.Name != nil {
		current.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Level != nil {
		current.Level = *req.Level
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.designationRepo.Update(ctx, current)
	if err != nil {
		if isUniqueViolation(err) {
			return designation.DesignationResponse{}, designation.ErrDesignationNameExists
		}
		return designation.DesignationResponse{}, err
	}

	return mapDesignation(updated), nil
}

func (s *masterServiceImpl) DeleteDesignation(ctx context.Context, id string) error {
	orgID, err := organizationID(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return designation.ErrDesignationNotFound
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := s.designationRepo.CountEmployees(ctx, id, orgID)
		if err != nil {
			return err
		}
		if count > 0 {
			return designation.ErrDesignationInUse
		}
		return s.designationRepo.Delete(ctx, id, orgID)
	})
}

func mapDesignation(d designation.Designation) designation.DesignationResponse {
	return designation.DesignationResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Level:         d.Level,
		IsActive:      d.IsActive,
		EmployeeCount: d.EmployeeCount,
	}
}
