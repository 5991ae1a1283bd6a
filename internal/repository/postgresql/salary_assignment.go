package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryAssignmentRepository struct {
	db *database.DB
}

func NewSalaryAssignmentRepository(db *database.DB) payroll.AssignmentRepository {
	return &salaryAssignmentRepository{db: db}
}

const salaryAssignmentSelect = `
	SELECT
		ss.id, ss.organization_id, ss.employee_id, ss.salary_structure_id, ss.base_salary,
		ss.payment_method, ss.effective_date, ss.created_at, ss.updated_at,
		e.employee_code, e.first_name || ' ' || e.last_name,
		st.id, st.name, st.description, st.earnings, st.deductions, st.is_active
	FROM employee_salary_settings ss
	JOIN employees e ON e.id = ss.employee_id
	LEFT JOIN salary_structures st
		ON st.id = ss.salary_structure_id AND st.organization_id = ss.organization_id
`

func scanSalaryAssignment(row pgx.Row) (payroll.Assignment, error) {
	var a payroll.Assignment
	var (
		structureID          *string
		structureName        *string
		structureDescription *string
		earnings, deductions []byte
		structureActive      *bool
	)

	err := row.Scan(
		&a.ID, &a.OrganizationID, &a.EmployeeID, &a.StructureID, &a.BaseSalary,
		&a.PaymentMethod, &a.EffectiveDate, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeCode, &a.EmployeeName,
		&structureID, &structureName, &structureDescription, &earnings, &deductions, &structureActive,
	)
	if err != nil {
		return payroll.Assignment{}, err
	}

	if structureID != nil {
		s := payroll.Structure{
			ID:             *structureID,
			OrganizationID: a.OrganizationID,
			Description:    structureDescription,
		}
		if structureName != nil {
			s.Name = *structureName
		}
		if structureActive != nil {
			s.IsActive = *structureActive
		}
		if err := decodeComponents(&s, earnings, deductions); err != nil {
			return payroll.Assignment{}, err
		}
		a.Structure = &s
		a.StructureName = structureName
	}

	return a, nil
}

// Upsert implements payroll.AssignmentRepository.
func (r *salaryAssignmentRepository) Upsert(ctx context.Context, a payroll.Assignment) (payroll.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.Assignment{}, err
	}

	query := `
		INSERT INTO employee_salary_settings (
			id, organization_id, employee_id, salary_structure_id, base_salary,
			payment_method, effective_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (organization_id, employee_id) DO UPDATE SET
			salary_structure_id = EXCLUDED.salary_structure_id,
			base_salary = EXCLUDED.base_salary,
			payment_method = EXCLUDED.payment_method,
			effective_date = EXCLUDED.effective_date,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	saved := a
	err = q.QueryRow(ctx, query,
		id.String(), a.OrganizationID, a.EmployeeID, a.StructureID, a.BaseSalary,
		string(a.PaymentMethod), a.EffectiveDate,
	).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return payroll.Assignment{}, fmt.Errorf("failed to upsert salary assignment: %w", err)
	}

	return saved, nil
}

// GetByEmployee implements payroll.AssignmentRepository.
func (r *salaryAssignmentRepository) GetByEmployee(ctx context.Context, employeeID string, organizationID string) (payroll.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := salaryAssignmentSelect + ` WHERE ss.employee_id = $1 AND ss.organization_id = $2`

	a, err := scanSalaryAssignment(q.QueryRow(ctx, query, employeeID, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Assignment{}, payroll.ErrAssignmentNotFound
		}
		return payroll.Assignment{}, fmt.Errorf("failed to get salary assignment: %w", err)
	}

	return a, nil
}

// ListWithStructures implements payroll.AssignmentRepository.
func (r *salaryAssignmentRepository) ListWithStructures(ctx context.Context, organizationID string) ([]payroll.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := salaryAssignmentSelect + ` WHERE ss.organization_id = $1 ORDER BY e.employee_code ASC`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary assignments: %w", err)
	}
	defer rows.Close()

	assignments := []payroll.Assignment{}
	for rows.Next() {
		a, err := scanSalaryAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return assignments, nil
}
