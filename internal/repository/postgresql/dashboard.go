package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/dashboard"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

func (r *dashboardRepositoryImpl) EmployeeSummary(ctx context.Context, organizationID string, since time.Time) (dashboard.EmployeeSummaryStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'ACTIVE'),
			COUNT(*) FILTER (WHERE status = 'ON_LEAVE'),
			COUNT(*) FILTER (WHERE status = 'RESIGNED'),
			COUNT(*) FILTER (WHERE joining_date >= $2)
		FROM employees
		WHERE organization_id = $1
	`

	var s dashboard.EmployeeSummaryStats
	if err := q.QueryRow(ctx, query, organizationID, since).Scan(&s.Total, &s.Active, &s.OnLeave, &s.Resigned, &s.New); err != nil {
		return dashboard.EmployeeSummaryStats{}, fmt.Errorf("failed to get employee summary: %w", err)
	}
	return s, nil
}

func (r *dashboardRepositoryImpl) EmploymentTypes(ctx context.Context, organizationID string) (dashboard.EmploymentTypeStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE employment_type = 'FULL_TIME'),
			COUNT(*) FILTER (WHERE employment_type = 'PART_TIME'),
			COUNT(*) FILTER (WHERE employment_type = 'CONTRACT'),
			COUNT(*) FILTER (WHERE employment_type = 'INTERN')
		FROM employees
		WHERE organization_id = $1 AND status NOT IN ('RESIGNED', 'TERMINATED')
	`

	var s dashboard.EmploymentTypeStats
	if err := q.QueryRow(ctx, query, organizationID).Scan(&s.FullTime, &s.PartTime, &s.Contract, &s.Intern); err != nil {
		return dashboard.EmploymentTypeStats{}, fmt.Errorf("failed to get employment type stats: %w", err)
	}
	return s, nil
}

func (r *dashboardRepositoryImpl) Structure(ctx context.Context, organizationID string) (dashboard.StructureStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM departments WHERE organization_id = $1),
			(SELECT COUNT(*) FROM designations WHERE organization_id = $1)
	`

	var s dashboard.StructureStats
	if err := q.QueryRow(ctx, query, organizationID).Scan(&s.Departments, &s.Designations); err != nil {
		return dashboard.StructureStats{}, fmt.Errorf("failed to get structure counts: %w", err)
	}
	return s, nil
}

func (r *dashboardRepositoryImpl) AttendanceOn(ctx context.Context, organizationID string, date time.Time) (dashboard.AttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(DISTINCT employee_id) FILTER (WHERE date = $2),
			COUNT(*) FILTER (WHERE check_out IS NULL)
		FROM attendances
		WHERE organization_id = $1
	`

	var s dashboard.AttendanceStats
	if err := q.QueryRow(ctx, query, organizationID, date).Scan(&s.Present, &s.CheckedIn); err != nil {
		return dashboard.AttendanceStats{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return s, nil
}

func (r *dashboardRepositoryImpl) PendingLeaves(ctx context.Context, organizationID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM leaves WHERE organization_id = $1 AND status = 'PENDING'`
	if err := q.QueryRow(ctx, query, organizationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending leaves: %w", err)
	}
	return count, nil
}

func (r *dashboardRepositoryImpl) PayrollPeriod(ctx context.Context, organizationID string, year, month int) (dashboard.PayrollStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'DRAFT'),
			COUNT(*) FILTER (WHERE status IN ('APPROVED', 'PAID')),
			COALESCE(SUM(net_salary), 0)
		FROM salary_records
		WHERE organization_id = $1 AND year = $2 AND month = $3
	`

	var s dashboard.PayrollStats
	if err := q.QueryRow(ctx, query, organizationID, year, month).Scan(&s.Draft, &s.Approved, &s.TotalNet); err != nil {
		return dashboard.PayrollStats{}, fmt.Errorf("failed to get payroll stats: %w", err)
	}
	return s, nil
}
