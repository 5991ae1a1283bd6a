package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `id, organization_id, name, code, description, default_days, carry_forward, max_carry_forward, is_paid, is_active, created_at, updated_at`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.OrganizationID, &lt.Name, &lt.Code, &lt.Description, &lt.DefaultDays,
		&lt.CarryForward, &lt.MaxCarryForward, &lt.IsPaid, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveType{}, err
	}

	query := `
		INSERT INTO leave_types (id, organization_id, name, code, description, default_days, carry_forward, max_carry_forward, is_paid, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := lt
	err = q.QueryRow(ctx, query,
		id.String(), lt.OrganizationID, lt.Name, lt.Code, lt.Description, lt.DefaultDays,
		lt.CarryForward, lt.MaxCarryForward, lt.IsPaid, lt.IsActive,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return created, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	lt, err := scanLeaveType(q.QueryRow(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = $1 AND organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// List implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) List(ctx context.Context, organizationID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types WHERE organization_id = $1 ORDER BY name ASC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	types := []leave.LeaveType{}
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return types, nil
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Update(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_types
		SET name = $1, code = $2, description = $3, default_days = $4, carry_forward = $5,
			max_carry_forward = $6, is_paid = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9 AND organization_id = $10
		RETURNING updated_at
	`

	updated := lt
	err := q.QueryRow(ctx, query,
		lt.Name, lt.Code, lt.Description, lt.DefaultDays, lt.CarryForward,
		lt.MaxCarryForward, lt.IsPaid, lt.IsActive, lt.ID, lt.OrganizationID,
	).Scan(&updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return updated, nil
}
