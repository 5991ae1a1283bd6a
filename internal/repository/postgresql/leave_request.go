package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT
		l.id, l.organization_id, l.employee_id, l.leave_type_id, l.start_date, l.end_date, l.days,
		l.is_half_day, l.reason, l.status, l.approver_id, l.approver_notes, l.approved_at,
		l.created_at, l.updated_at,
		e.first_name || ' ' || e.last_name, e.employee_code, lt.name
	FROM leaves l
	JOIN employees e ON e.id = l.employee_id
	JOIN leave_types lt ON lt.id = l.leave_type_id
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var r leave.Request
	err := row.Scan(
		&r.ID, &r.OrganizationID, &r.EmployeeID, &r.LeaveTypeID, &r.StartDate, &r.EndDate, &r.Days,
		&r.IsHalfDay, &r.Reason, &r.Status, &r.ApproverID, &r.ApproverNotes, &r.ApprovedAt,
		&r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName, &r.EmployeeCode, &r.LeaveTypeName,
	)
	return r, err
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Request{}, err
	}

	query := `
		INSERT INTO leaves (id, organization_id, employee_id, leave_type_id, start_date, end_date, days, is_half_day, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := req
	err = q.QueryRow(ctx, query,
		id.String(), req.OrganizationID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate, req.Days,
		req.IsHalfDay, req.Reason, string(req.Status),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE l.id = $1 AND l.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// List implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, organizationID string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"l.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM l.start_date) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leaves l WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`,
		leaveRequestSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.Request{}
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}
	return requests, total, nil
}

// TransitionFromPending implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) TransitionFromPending(ctx context.Context, t leave.Transition) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, approver_id = $2, approver_notes = $3,
			approved_at = CASE WHEN $1 = 'APPROVED' THEN NOW() ELSE NULL END,
			updated_at = NOW()
		WHERE id = $4 AND organization_id = $5 AND status = 'PENDING'
	`
	result, err := q.Exec(ctx, query, string(t.To), t.ApproverID, t.ApproverNotes, t.ID, t.OrganizationID)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return leave.Request{}, leave.ErrLeaveNotPending
	}

	return r.GetByID(ctx, t.ID, t.OrganizationID)
}
