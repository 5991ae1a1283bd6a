package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/employee"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT
		e.id, e.organization_id, e.user_id, e.employee_code, e.first_name, e.last_name, e.email, e.phone,
		e.date_of_birth, e.gender, e.blood_group, e.marital_status, e.profile_image_url,
		e.department_id, e.designation_id, e.manager_id, e.employment_type, e.joining_date,
		e.confirmation_date, e.resignation_date, e.status, e.current_address, e.permanent_address,
		e.emergency_contacts, e.created_at, e.updated_at,
		COALESCE(d.name, ''), COALESCE(g.name, ''), m.first_name || ' ' || m.last_name
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN designations g ON g.id = e.designation_id
	LEFT JOIN employees m ON m.id = e.manager_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var current, permanent, contacts []byte
	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
		&e.DateOfBirth, &e.Gender, &e.BloodGroup, &e.MaritalStatus, &e.ProfileImageURL,
		&e.DepartmentID, &e.DesignationID, &e.ManagerID, &e.EmploymentType, &e.JoiningDate,
		&e.ConfirmationDate, &e.ResignationDate, &e.Status, &current, &permanent,
		&contacts, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName, &e.DesignationName, &e.ManagerName,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if e.CurrentAddress, err = decodeNullableJSON[organization.Address](current); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to decode current address: %w", err)
	}
	if e.PermanentAddress, err = decodeNullableJSON[organization.Address](permanent); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to decode permanent address: %w", err)
	}
	e.EmergencyContacts = []employee.EmergencyContact{}
	if len(contacts) > 0 {
		if err := json.Unmarshal(contacts, &e.EmergencyContacts); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to decode emergency contacts: %w", err)
		}
	}
	return e, nil
}

func encodeEmployeeJSON(e employee.Employee) (current, permanent, contacts []byte, err error) {
	if current, err = encodeNullableJSON(e.CurrentAddress); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode current address: %w", err)
	}
	if permanent, err = encodeNullableJSON(e.PermanentAddress); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode permanent address: %w", err)
	}
	list := e.EmergencyContacts
	if list == nil {
		list = []employee.EmergencyContact{}
	}
	if contacts, err = json.Marshal(list); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode emergency contacts: %w", err)
	}
	return current, permanent, contacts, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, err
	}
	current, permanent, contacts, err := encodeEmployeeJSON(e)
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (
			id, organization_id, user_id, employee_code, first_name, last_name, email, phone,
			date_of_birth, gender, blood_group, marital_status, profile_image_url,
			department_id, designation_id, manager_id, employment_type, joining_date,
			confirmation_date, status, current_address, permanent_address, emergency_contacts,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	created := e
	err = q.QueryRow(ctx, query,
		id.String(), e.OrganizationID, e.UserID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone,
		e.DateOfBirth, string(e.Gender), e.BloodGroup, string(e.MaritalStatus), e.ProfileImageURL,
		e.DepartmentID, e.DesignationID, e.ManagerID, string(e.EmploymentType), e.JoiningDate,
		e.ConfirmationDate, string(e.Status), current, permanent, contacts,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1 AND e.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, organizationID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"e.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.email ILIKE $%d OR e.employee_code ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.DesignationID != nil && *filter.DesignationID != "" {
		conditions = append(conditions, fmt.Sprintf("e.designation_id = $%d", argIdx))
		args = append(args, *filter.DesignationID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY e.employee_code ASC LIMIT $%d OFFSET $%d`,
		employeeSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	current, permanent, contacts, err := encodeEmployeeJSON(e)
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		UPDATE employees SET
			first_name = $1, last_name = $2, email = $3, phone = $4, date_of_birth = $5, gender = $6,
			blood_group = $7, marital_status = $8, profile_image_url = $9, department_id = $10,
			designation_id = $11, manager_id = $12, employment_type = $13, joining_date = $14,
			confirmation_date = $15, status = $16, current_address = $17, permanent_address = $18,
			emergency_contacts = $19, updated_at = NOW()
		WHERE id = $20 AND organization_id = $21
		RETURNING updated_at
	`

	updated := e
	err = q.QueryRow(ctx, query,
		e.FirstName, e.LastName, e.Email, e.Phone, e.DateOfBirth, string(e.Gender),
		e.BloodGroup, string(e.MaritalStatus), e.ProfileImageURL, e.DepartmentID,
		e.DesignationID, e.ManagerID, string(e.EmploymentType), e.JoiningDate,
		e.ConfirmationDate, string(e.Status), current, permanent,
		contacts, e.ID, e.OrganizationID,
	).Scan(&updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return updated, nil
}

// Resign implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Resign(ctx context.Context, id string, organizationID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET status = 'RESIGNED', resignation_date = $1, updated_at = NOW()
		WHERE id = $2 AND organization_id = $3
	`
	result, err := q.Exec(ctx, query, date, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to resign employee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// LatestCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LatestCode(ctx context.Context, organizationID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var code string
	err := q.QueryRow(ctx,
		`SELECT employee_code FROM employees WHERE organization_id = $1 ORDER BY created_at DESC, employee_code DESC LIMIT 1`,
		organizationID,
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get latest employee code: %w", err)
	}
	return code, nil
}

// ExistsInOrganization implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsInOrganization(ctx context.Context, id string, organizationID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1 AND organization_id = $2)`,
		id, organizationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee: %w", err)
	}
	return exists, nil
}

// FindIDByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) FindIDByUserID(ctx context.Context, userID string, organizationID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx,
		`SELECT id FROM employees WHERE user_id = $1 AND organization_id = $2`,
		userID, organizationID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find employee by user: %w", err)
	}
	return id, nil
}

// ReferencesExist implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ReferencesExist(ctx context.Context, organizationID, departmentID, designationID string) (bool, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			EXISTS(SELECT 1 FROM departments WHERE id = $1 AND organization_id = $3),
			EXISTS(SELECT 1 FROM designations WHERE id = $2 AND organization_id = $3)
	`
	var departmentOK, designationOK bool
	if err := q.QueryRow(ctx, query, departmentID, designationID, organizationID).Scan(&departmentOK, &designationOK); err != nil {
		return false, false, fmt.Errorf("failed to check employee references: %w", err)
	}
	return departmentOK, designationOK, nil
}
