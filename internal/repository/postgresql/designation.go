package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type designationRepositoryImpl struct {
	db *database.DB
}

func NewDesignationRepository(db *database.DB) designation.DesignationRepository {
	return &designationRepositoryImpl{db: db}
}

const designationSelect = `
	SELECT
		g.id, g.organization_id, g.name, g.description, g.level, g.is_active, g.created_at, g.updated_at,
		(SELECT COUNT(*) FROM employees e WHERE e.designation_id = g.id AND e.status <> 'RESIGNED')
	FROM designations g
`

func scanDesignation(row pgx.Row) (designation.Designation, error) {
	var d designation.Designation
	err := row.Scan(
		&d.ID, &d.OrganizationID, &d.Name, &d.Description, &d.Level, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.EmployeeCount,
	)
	return d, err
}

// Create implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Create(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return designation.Designation{}, err
	}

	query := `
		INSERT INTO designations (id, organization_id, name, description, level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := d
	err = q.QueryRow(ctx, query, id.String(), d.OrganizationID, d.Name, d.Description, d.Level, d.IsActive).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return designation.Designation{}, fmt.Errorf("failed to create designation: %w", err)
	}

	return created, nil
}

// GetByID implements designation.DesignationRepository.
func (r *designationRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDesignation(q.QueryRow(ctx, designationSelect+` WHERE g.id = $1 AND g.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return designation.Designation{}, designation.ErrDesignationNotFound
		}
		return designation.Designation{}, fmt.Errorf("failed to get designation: %w", err)
	}

	return d, nil
}

// List implements designation.DesignationRepository. Ordered by level, then name.
func (r *designationRepositoryImpl) List(ctx context.Context, organizationID string) ([]designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, designationSelect+` WHERE g.organization_id = $1 ORDER BY g.level ASC, g.name ASC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designations: %w", err)
	}
	defer rows.Close()

	designations := []designation.Designation{}
	for rows.Next() {
		d, err := scanDesignation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan designation: %w", err)
		}
		designations = append(designations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return designations, nil
}

// Update implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Update(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE designations
		SET name = $1, description = $2, level = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND organization_id = $6
		RETURNING updated_at
	`

	updated := d
	err := q.QueryRow(ctx, query, d.Name, d.Description, d.Level, d.IsActive, d.ID, d.OrganizationID).Scan(&updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return designation.Designation{}, designation.ErrDesignationNotFound
		}
		return designation.Designation{}, fmt.Errorf("failed to update designation: %w", err)
	}

	return updated, nil
}

// Delete implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Delete(ctx context.Context, id string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM designations WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete designation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return designation.ErrDesignationNotFound
	}

	return nil
}

func (r *designationRepositoryImpl) CountEmployees(ctx context.Context, id string, organizationID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE designation_id = $1 AND organization_id = $2`,
		id, organizationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count designation employees: %w", err)
	}

	return count, nil
}
