package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT
		d.id, d.organization_id, d.name, d.description, d.head_id, d.is_active, d.created_at, d.updated_at,
		h.first_name || ' ' || h.last_name,
		(SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id AND e.status <> 'RESIGNED')
	FROM departments d
	LEFT JOIN employees h ON h.id = d.head_id
`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(
		&d.ID, &d.OrganizationID, &d.Name, &d.Description, &d.HeadID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.HeadName, &d.EmployeeCount,
	)
	return d, err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return department.Department{}, err
	}

	query := `
		INSERT INTO departments (id, organization_id, name, description, head_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := d
	err = q.QueryRow(ctx, query, id.String(), d.OrganizationID, d.Name, d.Description, d.HeadID, d.IsActive).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	return created, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+` WHERE d.id = $1 AND d.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}

	return d, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context, organizationID string) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, departmentSelect+` WHERE d.organization_id = $1 ORDER BY d.name ASC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := []department.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return departments, nil
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET name = $1, description = $2, head_id = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND organization_id = $6
		RETURNING updated_at
	`

	updated := d
	err := q.QueryRow(ctx, query, d.Name, d.Description, d.HeadID, d.IsActive, d.ID, d.OrganizationID).Scan(&updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to update department: %w", err)
	}

	return updated, nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}

	return nil
}

// CountEmployees counts every employee row pointing at the department, resigned ones included.
func (r *departmentRepositoryImpl) CountEmployees(ctx context.Context, id string, organizationID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE department_id = $1 AND organization_id = $2`,
		id, organizationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count department employees: %w", err)
	}

	return count, nil
}
