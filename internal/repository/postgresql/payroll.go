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

type salaryRecordRepository struct {
	db *database.DB
}

func NewSalaryRecordRepository(db *database.DB) payroll.RecordRepository {
	return &salaryRecordRepository{db: db}
}

const salaryRecordColumns = `
	sr.id, sr.organization_id, sr.employee_id, sr.month, sr.year, sr.basic_salary,
	sr.earnings, sr.deductions, sr.gross_salary, sr.net_salary, sr.status, sr.payment_date,
	sr.created_at, sr.updated_at, e.employee_code, e.first_name || ' ' || e.last_name
`

func scanSalaryRecord(row pgx.Row) (payroll.SalaryRecord, error) {
	var rec payroll.SalaryRecord
	var earnings, deductions []byte
	err := row.Scan(
		&rec.ID, &rec.OrganizationID, &rec.EmployeeID, &rec.Month, &rec.Year, &rec.BasicSalary,
		&earnings, &deductions, &rec.GrossSalary, &rec.NetSalary, &rec.Status, &rec.PaymentDate,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeCode, &rec.EmployeeName,
	)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	if err := decodeBreakdowns(&rec, earnings, deductions); err != nil {
		return payroll.SalaryRecord{}, err
	}
	return rec, nil
}

func decodeBreakdowns(rec *payroll.SalaryRecord, earnings, deductions []byte) error {
	rec.Earnings = payroll.Breakdown{}
	rec.Deductions = payroll.Breakdown{}
	if len(earnings) > 0 {
		if err := json.Unmarshal(earnings, &rec.Earnings); err != nil {
			return fmt.Errorf("failed to decode earnings: %w", err)
		}
	}
	if len(deductions) > 0 {
		if err := json.Unmarshal(deductions, &rec.Deductions); err != nil {
			return fmt.Errorf("failed to decode deductions: %w", err)
		}
	}
	return nil
}

// UpsertDraft implements payroll.RecordRepository.
func (r *salaryRecordRepository) UpsertDraft(ctx context.Context, rec payroll.SalaryRecord) (payroll.SalaryRecord, bool, error) {
	q := GetQuerier(ctx, r.db)

	earnings, err := json.Marshal(rec.Earnings)
	if err != nil {
		return payroll.SalaryRecord{}, false, fmt.Errorf("failed to encode earnings: %w", err)
	}
	deductions, err := json.Marshal(rec.Deductions)
	if err != nil {
		return payroll.SalaryRecord{}, false, fmt.Errorf("failed to encode deductions: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.SalaryRecord{}, false, err
	}

	// The status guard keeps finalized records out of reach of a re-run.
	query := `
		INSERT INTO salary_records (
			id, organization_id, employee_id, month, year, basic_salary,
			earnings, deductions, gross_salary, net_salary, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'DRAFT', NOW(), NOW())
		ON CONFLICT (organization_id, employee_id, month, year) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			earnings = EXCLUDED.earnings,
			deductions = EXCLUDED.deductions,
			gross_salary = EXCLUDED.gross_salary,
			net_salary = EXCLUDED.net_salary,
			updated_at = NOW()
		WHERE salary_records.status = 'DRAFT'
		RETURNING id, status, basic_salary, gross_salary, net_salary, created_at, updated_at
	`

	// Amounts are read back so callers see exactly what NUMERIC(14,2) stored.
	saved := rec
	err = q.QueryRow(ctx, query,
		id.String(), rec.OrganizationID, rec.EmployeeID, rec.Month, rec.Year, rec.BasicSalary,
		earnings, deductions, rec.GrossSalary, rec.NetSalary,
	).Scan(&saved.ID, &saved.Status, &saved.BasicSalary, &saved.GrossSalary, &saved.NetSalary, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, false, nil
		}
		return payroll.SalaryRecord{}, false, fmt.Errorf("failed to upsert salary record: %w", err)
	}

	return saved, true, nil
}

// ApproveDrafts implements payroll.RecordRepository.
func (r *salaryRecordRepository) ApproveDrafts(ctx context.Context, organizationID string, period payroll.Period) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_records
		SET status = 'APPROVED', updated_at = NOW()
		WHERE organization_id = $1 AND month = $2 AND year = $3 AND status = 'DRAFT'
	`

	tag, err := q.Exec(ctx, query, organizationID, period.Month, period.Year)
	if err != nil {
		return 0, fmt.Errorf("failed to approve salary records: %w", err)
	}

	return tag.RowsAffected(), nil
}

// GetByID implements payroll.RecordRepository.
func (r *salaryRecordRepository) GetByID(ctx context.Context, id string, organizationID string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryRecordColumns + `
		FROM salary_records sr
		JOIN employees e ON e.id = sr.employee_id
		WHERE sr.id = $1 AND sr.organization_id = $2
	`

	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrRecordNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record: %w", err)
	}

	return rec, nil
}

// List implements payroll.RecordRepository.
func (r *salaryRecordRepository) List(ctx context.Context, organizationID string, filter payroll.RecordFilter) ([]payroll.SalaryRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM salary_records sr
		JOIN employees e ON e.id = sr.employee_id
		WHERE sr.organization_id = $1
	`
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND sr.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND sr.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND sr.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND sr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary records: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s %s
		ORDER BY sr.year DESC, sr.month DESC, e.employee_code ASC
		LIMIT $%d OFFSET $%d
	`, salaryRecordColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	records := []payroll.SalaryRecord{}
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, total, nil
}

// Summary implements payroll.RecordRepository.
func (r *salaryRecordRepository) Summary(ctx context.Context, organizationID string, period payroll.Period) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'DRAFT'),
			COUNT(*) FILTER (WHERE status = 'PROCESSED'),
			COUNT(*) FILTER (WHERE status = 'APPROVED'),
			COUNT(*) FILTER (WHERE status = 'PAID'),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(net_salary), 0)
		FROM salary_records
		WHERE organization_id = $1 AND month = $2 AND year = $3
	`

	var s payroll.Summary
	err := q.QueryRow(ctx, query, organizationID, period.Month, period.Year).Scan(
		&s.TotalRecords, &s.DraftCount, &s.ProcessedCount, &s.ApprovedCount, &s.PaidCount,
		&s.TotalGross, &s.TotalNet,
	)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to summarize salary records: %w", err)
	}

	return s, nil
}

// ListByEmployee implements payroll.RecordRepository.
func (r *salaryRecordRepository) ListByEmployee(ctx context.Context, employeeID string, organizationID string, year *int) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryRecordColumns + `
		FROM salary_records sr
		JOIN employees e ON e.id = sr.employee_id
		WHERE sr.employee_id = $1 AND sr.organization_id = $2
	`
	args := []interface{}{employeeID, organizationID}
	if year != nil {
		query += " AND sr.year = $3"
		args = append(args, *year)
	}
	query += " ORDER BY sr.year DESC, sr.month DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee salary records: %w", err)
	}
	defer rows.Close()

	records := []payroll.SalaryRecord{}
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}
