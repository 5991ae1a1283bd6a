package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.StructureRepository {
	return &salaryStructureRepository{db: db}
}

const salaryStructureColumns = `id, organization_id, name, description, earnings, deductions, is_active, created_at, updated_at`

func scanSalaryStructure(row pgx.Row) (payroll.Structure, error) {
	var s payroll.Structure
	var earnings, deductions []byte
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.Name, &s.Description,
		&earnings, &deductions, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.Structure{}, err
	}
	if err := decodeComponents(&s, earnings, deductions); err != nil {
		return payroll.Structure{}, err
	}
	return s, nil
}

func decodeComponents(s *payroll.Structure, earnings, deductions []byte) error {
	s.Earnings = []payroll.Component{}
	s.Deductions = []payroll.Component{}
	if len(earnings) > 0 {
		if err := json.Unmarshal(earnings, &s.Earnings); err != nil {
			return fmt.Errorf("failed to decode structure earnings: %w", err)
		}
	}
	if len(deductions) > 0 {
		if err := json.Unmarshal(deductions, &s.Deductions); err != nil {
			return fmt.Errorf("failed to decode structure deductions: %w", err)
		}
	}
	return nil
}

func encodeComponents(s payroll.Structure) (earnings, deductions []byte, err error) {
	if s.Earnings == nil {
		s.Earnings = []payroll.Component{}
	}
	if s.Deductions == nil {
		s.Deductions = []payroll.Component{}
	}
	if earnings, err = json.Marshal(s.Earnings); err != nil {
		return nil, nil, fmt.Errorf("failed to encode structure earnings: %w", err)
	}
	if deductions, err = json.Marshal(s.Deductions); err != nil {
		return nil, nil, fmt.Errorf("failed to encode structure deductions: %w", err)
	}
	return earnings, deductions, nil
}

// Create implements payroll.StructureRepository.
func (r *salaryStructureRepository) Create(ctx context.Context, s payroll.Structure) (payroll.Structure, error) {
	q := GetQuerier(ctx, r.db)

	earnings, deductions, err := encodeComponents(s)
	if err != nil {
		return payroll.Structure{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return payroll.Structure{}, err
	}

	query := `
		INSERT INTO salary_structures (id, organization_id, name, description, earnings, deductions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + salaryStructureColumns

	created, err := scanSalaryStructure(q.QueryRow(ctx, query,
		id.String(), s.OrganizationID, s.Name, s.Description, earnings, deductions, s.IsActive,
	))
	if err != nil {
		return payroll.Structure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	return created, nil
}

// GetByID implements payroll.StructureRepository.
func (r *salaryStructureRepository) GetByID(ctx context.Context, id string, organizationID string) (payroll.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE id = $1 AND organization_id = $2`

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Structure{}, payroll.ErrStructureNotFound
		}
		return payroll.Structure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	return s, nil
}

// List implements payroll.StructureRepository.
func (r *salaryStructureRepository) List(ctx context.Context, organizationID string) ([]payroll.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE organization_id = $1 ORDER BY name ASC`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	structures := []payroll.Structure{}
	for rows.Next() {
		s, err := scanSalaryStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return structures, nil
}

// Update implements payroll.StructureRepository.
func (r *salaryStructureRepository) Update(ctx context.Context, s payroll.Structure) (payroll.Structure, error) {
	q := GetQuerier(ctx, r.db)

	earnings, deductions, err := encodeComponents(s)
	if err != nil {
		return payroll.Structure{}, err
	}

	query := `
		UPDATE salary_structures
		SET name = $1, description = $2, earnings = $3, deductions = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6 AND organization_id = $7
		RETURNING ` + salaryStructureColumns

	updated, err := scanSalaryStructure(q.QueryRow(ctx, query,
		s.Name, s.Description, earnings, deductions, s.IsActive, s.ID, s.OrganizationID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Structure{}, payroll.ErrStructureNotFound
		}
		return payroll.Structure{}, fmt.Errorf("failed to update salary structure: %w", err)
	}

	return updated, nil
}

// Delete implements payroll.StructureRepository.
func (r *salaryStructureRepository) Delete(ctx context.Context, id string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_structures WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete salary structure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrStructureNotFound
	}

	return nil
}

// CountAssignments implements payroll.StructureRepository.
func (r *salaryStructureRepository) CountAssignments(ctx context.Context, id string, organizationID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM employee_salary_settings WHERE salary_structure_id = $1 AND organization_id = $2`,
		id, organizationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count structure assignments: %w", err)
	}

	return count, nil
}
