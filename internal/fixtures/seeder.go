package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

// SeededIDs holds the ids of the rows a seed created, keyed by name (or code for leave types).
type SeededIDs struct {
	DepartmentIDs  map[string]string
	DesignationIDs map[string]string
	LeaveTypeIDs   map[string]string
	StructureID    string

	// Skipped lists defaults that already existed.
	Skipped []string
}

func newSeededIDs() *SeededIDs {
	return &SeededIDs{
		DepartmentIDs:  make(map[string]string),
		DesignationIDs: make(map[string]string),
		LeaveTypeIDs:   make(map[string]string),
	}
}

type Seeder struct {
	tx            database.Transactor
	organizations organization.OrganizationRepository
	departments   department.DepartmentRepository
	designations  designation.DesignationRepository
	leaveTypes    leave.LeaveTypeRepository
	structures    payroll.StructureRepository
	logger        *slog.Logger
}

func NewSeeder(
	tx database.Transactor,
	organizations organization.OrganizationRepository,
	departments department.DepartmentRepository,
	designations designation.DesignationRepository,
	leaveTypes leave.LeaveTypeRepository,
	structures payroll.StructureRepository,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		tx:            tx,
		organizations: organizations,
		departments:   departments,
		designations:  designations,
		leaveTypes:    leaveTypes,
		structures:    structures,
		logger:        logger.With(slog.String("component", "seeder")),
	}
}

// Seed creates the default master data for an existing organization in one transaction.
// Defaults whose name (or leave type code) already exists are skipped, so seeding twice is harmless.
func (s *Seeder) Seed(ctx context.Context, organizationID string) (*SeededIDs, error) {
	if _, err := s.organizations.GetByID(ctx, organizationID); err != nil {
		return nil, err
	}

	ids := newSeededIDs()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.seedDefaults(ctx, organizationID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.logSeeded(organizationID, ids)
	return ids, nil
}

// Onboard creates an organization and its default master data in one transaction.
// Nothing is kept if any default fails to seed.
func (s *Seeder) Onboard(ctx context.Context, req organization.CreateOrganizationRequest) (organization.Organization, *SeededIDs, error) {
	if err := req.Validate(); err != nil {
		return organization.Organization{}, nil, err
	}

	var org organization.Organization
	ids := newSeededIDs()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.organizations.Create(ctx, req.Organization())
		if err != nil {
			return mapOrganizationConflict(err)
		}
		org = created
		return s.seedDefaults(ctx, org.ID, ids)
	})
	if err != nil {
		return organization.Organization{}, nil, err
	}

	s.logger.Info("organization onboarded", slog.String("organization_id", org.ID), slog.String("slug", org.Slug))
	s.logSeeded(org.ID, ids)
	return org, ids, nil
}

func mapOrganizationConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "organizations_slug_key":
		return organization.ErrSlugExists
	case "organizations_email_key":
		return organization.ErrEmailExists
	}
	return err
}

// seedDefaults runs inside the caller's transaction.
func (s *Seeder) seedDefaults(ctx context.Context, organizationID string, ids *SeededIDs) error {
	existingDepts, err := s.departments.List(ctx, organizationID)
	if err != nil {
		return err
	}
	for _, d := range DefaultDepartments(organizationID) {
		if containsFold(existingDepts, func(e department.Department) string { return e.Name }, d.Name) {
			ids.Skipped = append(ids.Skipped, "department "+d.Name)
			continue
		}
		created, err := s.departments.Create(ctx, d)
		if err != nil {
			return fmt.Errorf("seed department %s: %w", d.Name, err)
		}
		ids.DepartmentIDs[d.Name] = created.ID
	}

	existingDesigs, err := s.designations.List(ctx, organizationID)
	if err != nil {
		return err
	}
	for _, d := range DefaultDesignations(organizationID) {
		if containsFold(existingDesigs, func(e designation.Designation) string { return e.Name }, d.Name) {
			ids.Skipped = append(ids.Skipped, "designation "+d.Name)
			continue
		}
		created, err := s.designations.Create(ctx, d)
		if err != nil {
			return fmt.Errorf("seed designation %s: %w", d.Name, err)
		}
		ids.DesignationIDs[d.Name] = created.ID
	}

	existingTypes, err := s.leaveTypes.List(ctx, organizationID)
	if err != nil {
		return err
	}
	for _, lt := range DefaultLeaveTypes(organizationID) {
		if containsFold(existingTypes, func(e leave.LeaveType) string { return e.Code }, lt.Code) {
			ids.Skipped = append(ids.Skipped, "leave type "+lt.Code)
			continue
		}
		created, err := s.leaveTypes.Create(ctx, lt)
		if err != nil {
			return fmt.Errorf("seed leave type %s: %w", lt.Code, err)
		}
		ids.LeaveTypeIDs[lt.Code] = created.ID
	}

	existingStructures, err := s.structures.List(ctx, organizationID)
	if err != nil {
		return err
	}
	st := DefaultSalaryStructure(organizationID)
	if containsFold(existingStructures, func(e payroll.Structure) string { return e.Name }, st.Name) {
		ids.Skipped = append(ids.Skipped, "salary structure "+st.Name)
		return nil
	}
	created, err := s.structures.Create(ctx, st)
	if err != nil {
		return fmt.Errorf("seed salary structure %s: %w", st.Name, err)
	}
	ids.StructureID = created.ID
	return nil
}

func (s *Seeder) logSeeded(organizationID string, ids *SeededIDs) {
	s.logger.Info("organization seeded",
		slog.String("organization_id", organizationID),
		slog.Int("departments", len(ids.DepartmentIDs)),
		slog.Int("designations", len(ids.DesignationIDs)),
		slog.Int("leave_types", len(ids.LeaveTypeIDs)),
		slog.Int("skipped", len(ids.Skipped)),
	)
}

func containsFold[T any](items []T, key func(T) string, want string) bool {
	for _, it := range items {
		if strings.EqualFold(key(it), want) {
			return true
		}
	}
	return false
}
