package postgresql

import (
	"context"
	"fmt"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, organizationID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			lb.id, lb.organization_id, lb.employee_id, lb.leave_type_id, lb.year,
			lb.allocated, lb.used, lb.pending, lb.available, lb.created_at, lb.updated_at,
			lt.name, lt.code
		FROM leave_balances lb
		JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE lb.employee_id = $1 AND lb.organization_id = $2 AND lb.year = $3
		ORDER BY lt.name ASC
	`
	rows, err := q.Query(ctx, query, employeeID, organizationID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := []leave.Balance{}
	for rows.Next() {
		var b leave.Balance
		err := rows.Scan(
			&b.ID, &b.OrganizationID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.Allocated, &b.Used, &b.Pending, &b.Available, &b.CreatedAt, &b.UpdatedAt,
			&b.LeaveTypeName, &b.LeaveTypeCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return balances, nil
}

// InitializeBalances implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) InitializeBalances(ctx context.Context, organizationID string, employeeID string, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (id, organization_id, employee_id, leave_type_id, year, allocated, used, pending, available, created_at, updated_at)
		SELECT gen_random_uuid(), lt.organization_id, $2, lt.id, $3, lt.default_days, 0, 0, lt.default_days, NOW(), NOW()
		FROM leave_types lt
		WHERE lt.organization_id = $1 AND lt.is_active
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`
	result, err := q.Exec(ctx, query, organizationID, employeeID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize leave balances: %w", err)
	}
	return result.RowsAffected(), nil
}

// Consume implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Consume(ctx context.Context, organizationID, employeeID, leaveTypeID string, year int, days decimal.Decimal) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used = used + $1, available = available - $1, updated_at = NOW()
		WHERE organization_id = $2 AND employee_id = $3 AND leave_type_id = $4 AND year = $5
	`
	result, err := q.Exec(ctx, query, days, organizationID, employeeID, leaveTypeID, year)
	if err != nil {
		return false, fmt.Errorf("failed to update leave balance: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
