package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	// FindOpenSession returns the employee's latest session without a check-out, locked for update
	// when called inside a transaction. Returns ErrNoOpenSession when there is none.
	FindOpenSession(ctx context.Context, employeeID string, organizationID string) (Attendance, error)
	Close(ctx context.Context, a Attendance) (Attendance, error)
	List(ctx context.Context, organizationID string, filter AttendanceFilter) ([]Attendance, int64, error)
	// CloseStale closes every session across organizations that was opened before checkedInBefore,
	// crediting it with exactly sessionLength of work.
	CloseStale(ctx context.Context, checkedInBefore time.Time, sessionLength time.Duration, note string) (int64, error)
}

type EmployeeDirectory interface {
	// FindIDByUserID returns "" when the user has no employee record.
	FindIDByUserID(ctx context.Context, userID string, organizationID string) (string, error)
}
