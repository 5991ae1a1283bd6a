package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeSummaryStats struct {
	Total    int64
	Active   int64
	OnLeave  int64
	Resigned int64
	New      int64
}

type EmploymentTypeStats struct {
	FullTime int64
	PartTime int64
	Contract int64
	Intern   int64
}

type StructureStats struct {
	Departments  int64
	Designations int64
}

// AttendanceStats counts the day's records and the sessions still open.
type AttendanceStats struct {
	Present   int64
	CheckedIn int64
}

// PayrollStats covers one period; APPROVED includes PAID.
type PayrollStats struct {
	Draft    int64
	Approved int64
	TotalNet decimal.Decimal
}

// DashboardRepository runs one aggregate query per figure.
type DashboardRepository interface {
	EmployeeSummary(ctx context.Context, organizationID string, since time.Time) (EmployeeSummaryStats, error)
	EmploymentTypes(ctx context.Context, organizationID string) (EmploymentTypeStats, error)
	Structure(ctx context.Context, organizationID string) (StructureStats, error)
	AttendanceOn(ctx context.Context, organizationID string, date time.Time) (AttendanceStats, error)
	PendingLeaves(ctx context.Context, organizationID string) (int64, error)
	PayrollPeriod(ctx context.Context, organizationID string, year, month int) (PayrollStats, error)
}
