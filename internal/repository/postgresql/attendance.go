package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.organization_id, a.employee_id, a.date, a.check_in, a.check_out,
		a.check_in_location, a.check_out_location, a.working_hours, a.overtime_hours,
		a.status, a.notes, a.created_at, a.updated_at,
		e.first_name || ' ' || e.last_name, e.employee_code
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	var inLoc, outLoc []byte
	err := row.Scan(
		&a.ID, &a.OrganizationID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut,
		&inLoc, &outLoc, &a.WorkingHours, &a.OvertimeHours,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if a.CheckInLocation, err = decodeNullableJSON[attendance.Location](inLoc); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to decode check-in location: %w", err)
	}
	if a.CheckOutLocation, err = decodeNullableJSON[attendance.Location](outLoc); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to decode check-out location: %w", err)
	}
	return a, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, err
	}
	location, err := encodeNullableJSON(a.CheckInLocation)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode check-in location: %w", err)
	}

	query := `
		INSERT INTO attendances (id, organization_id, employee_id, date, check_in, check_in_location, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := a
	err = q.QueryRow(ctx, query,
		id.String(), a.OrganizationID, a.EmployeeID, a.Date, a.CheckIn, location, string(a.Status), a.Notes,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// FindOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FindOpenSession(ctx context.Context, employeeID string, organizationID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.employee_id = $1 AND a.organization_id = $2 AND a.check_out IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
		FOR UPDATE OF a
	`
	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoOpenSession
		}
		return attendance.Attendance{}, fmt.Errorf("failed to find open session: %w", err)
	}
	return a, nil
}

// Close implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Close(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	location, err := encodeNullableJSON(a.CheckOutLocation)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode check-out location: %w", err)
	}

	query := `
		UPDATE attendances
		SET check_out = $1, working_hours = $2, notes = $3, check_out_location = $4, updated_at = NOW()
		WHERE id = $5 AND organization_id = $6 AND check_out IS NULL
		RETURNING updated_at
	`

	closed := a
	err = q.QueryRow(ctx, query, a.CheckOut, a.WorkingHours, a.Notes, location, a.ID, a.OrganizationID).Scan(&closed.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoOpenSession
		}
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance: %w", err)
	}
	return closed, nil
}

// CloseStale implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseStale(ctx context.Context, checkedInBefore time.Time, sessionLength time.Duration, note string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = check_in + make_interval(secs => $2),
			working_hours = $3,
			notes = CASE WHEN notes IS NULL OR notes = '' THEN $4 ELSE notes || E'\n' || $4 END,
			updated_at = NOW()
		WHERE check_out IS NULL AND check_in < $1
	`
	hours := attendance.WorkingHours(time.Time{}, time.Time{}.Add(sessionLength))
	tag, err := q.Exec(ctx, query, checkedInBefore, sessionLength.Seconds(), hours, note)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale attendances: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, organizationID string, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances a WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.date DESC, a.check_in DESC LIMIT $%d OFFSET $%d`,
		attendanceSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, total, nil
}
