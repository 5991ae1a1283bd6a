package dashboard

import "github.com/shopspring/decimal"

// DashboardResponse is the combined payload of the organization dashboard.
type DashboardResponse struct {
	Employees       EmployeeSummaryResponse `json:"employees"`
	EmploymentTypes EmploymentTypeResponse  `json:"employment_types"`
	Structure       StructureResponse       `json:"structure"`
	Attendance      AttendanceTodayResponse `json:"attendance"`
	PendingLeaves   int64                   `json:"pending_leaves"`
	Payroll         PayrollPeriodResponse   `json:"payroll"`
	GeneratedAt     string                  `json:"generated_at"`
}

type EmployeeSummaryResponse struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	OnLeave  int64 `json:"on_leave"`
	Resigned int64 `json:"resigned"`
	New      int64 `json:"new"` // joined within the last 30 days
}

type EmploymentTypeResponse struct {
	FullTime int64 `json:"full_time"`
	PartTime int64 `json:"part_time"`
	Contract int64 `json:"contract"`
	Intern   int64 `json:"intern"`
}

type StructureResponse struct {
	Departments  int64 `json:"departments"`
	Designations int64 `json:"designations"`
}

type AttendanceTodayResponse struct {
	Date         string  `json:"date"`
	Present      int64   `json:"present"`
	CheckedIn    int64   `json:"checked_in"`
	PresentRatio float64 `json:"present_percent"`
}

type PayrollPeriodResponse struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Draft    int64           `json:"draft"`
	Approved int64           `json:"approved"`
	TotalNet decimal.Decimal `json:"total_net"`
}
