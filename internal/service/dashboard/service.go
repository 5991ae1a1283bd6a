package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/dashboard"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const newHireWindow = 30 * 24 * time.Hour

type DashboardServiceImpl struct {
	repo dashboard.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository) *DashboardServiceImpl {
	return &DashboardServiceImpl{repo: repo, now: time.Now}
}

// GetDashboard runs the six aggregate queries in parallel; the first failure cancels the rest.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, user.ErrOrganizationRequired
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		employees  dashboard.EmployeeSummaryStats
		types      dashboard.EmploymentTypeStats
		structure  dashboard.StructureStats
		attendance dashboard.AttendanceStats
		pending    int64
		payroll    dashboard.PayrollStats
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		employees, err = s.repo.EmployeeSummary(gCtx, orgID, today.Add(-newHireWindow))
		return err
	})
	g.Go(func() (err error) {
		types, err = s.repo.EmploymentTypes(gCtx, orgID)
		return err
	})
	g.Go(func() (err error) {
		structure, err = s.repo.Structure(gCtx, orgID)
		return err
	})
	g.Go(func() (err error) {
		attendance, err = s.repo.AttendanceOn(gCtx, orgID, today)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.repo.PendingLeaves(gCtx, orgID)
		return err
	})
	g.Go(func() (err error) {
		payroll, err = s.repo.PayrollPeriod(gCtx, orgID, today.Year(), int(today.Month()))
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	return dashboard.DashboardResponse{
		Employees: dashboard.EmployeeSummaryResponse{
			Total:    employees.Total,
			Active:   employees.Active,
			OnLeave:  employees.OnLeave,
			Resigned: employees.Resigned,
			New:      employees.New,
		},
		EmploymentTypes: dashboard.EmploymentTypeResponse{
			FullTime: types.FullTime,
			PartTime: types.PartTime,
			Contract: types.Contract,
			Intern:   types.Intern,
		},
		Structure: dashboard.StructureResponse{
			Departments:  structure.Departments,
			Designations: structure.Designations,
		},
		Attendance: dashboard.AttendanceTodayResponse{
			Date:         today.Format(validator.DateLayout),
			Present:      attendance.Present,
			CheckedIn:    attendance.CheckedIn,
			PresentRatio: percent(attendance.Present, employees.Active),
		},
		PendingLeaves: pending,
		Payroll: dashboard.PayrollPeriodResponse{
			Month:    int(today.Month()),
			Year:     today.Year(),
			Draft:    payroll.Draft,
			Approved: payroll.Approved,
			TotalNet: payroll.TotalNet,
		},
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}

// percent returns part/whole as a percentage with one decimal, or 0 when whole is 0.
func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
