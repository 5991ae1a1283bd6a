package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/middleware"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/rbac"
	"github.com/redis/go-redis/v9"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	// Redis is nil when idempotency is disabled.
	Redis          redis.Cmdable
	IdempotencyTTL time.Duration
}

type Handlers struct {
	Organization OrganizationHandler
	Master       MasterHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Holiday      HolidayHandler
	Payroll      PayrollHandler
	Dashboard    DashboardHandler
}

func NewRouter(JWTService jwt.Service, authz rbac.Authorizer, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	if opts.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	can := func(resource user.Resource, action user.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authz, resource, action)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		r.Use(middleware.RequireOrganization)

		r.With(can(user.ResourceEmployee, user.ActionRead)).Get("/dashboard", h.Dashboard.GetDashboard)

		r.Route("/organization", func(r chi.Router) {
			r.With(can(user.ResourceOrganization, user.ActionRead)).Get("/", h.Organization.GetCurrent)
			r.With(can(user.ResourceOrganization, user.ActionUpdate)).Put("/", h.Organization.UpdateCurrent)
		})

		r.Route("/departments", func(r chi.Router) {
			r.With(can(user.ResourceDepartment, user.ActionRead)).Get("/", h.Master.ListDepartments)
			r.With(can(user.ResourceDepartment, user.ActionRead)).Get("/{id}", h.Master.GetDepartment)
			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceDepartment, user.ActionWrite))
				r.Post("/", h.Master.CreateDepartment)
				r.Put("/{id}", h.Master.UpdateDepartment)
				r.Delete("/{id}", h.Master.DeleteDepartment)
			})
		})

		r.Route("/designations", func(r chi.Router) {
			r.With(can(user.ResourceDesignation, user.ActionRead)).Get("/", h.Master.ListDesignations)
			r.With(can(user.ResourceDesignation, user.ActionRead)).Get("/{id}", h.Master.GetDesignation)
			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceDesignation, user.ActionWrite))
				r.Post("/", h.Master.CreateDesignation)
				r.Put("/{id}", h.Master.UpdateDesignation)
				r.Delete("/{id}", h.Master.DeleteDesignation)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/me", h.Employee.GetMe)
			r.With(can(user.ResourceEmployee, user.ActionRead)).Get("/", h.Employee.List)
			r.With(can(user.ResourceEmployee, user.ActionRead)).Get("/{id}", h.Employee.Get)
			r.With(can(user.ResourceEmployee, user.ActionWrite)).Post("/", h.Employee.Create)
			r.With(can(user.ResourceEmployee, user.ActionWrite)).Put("/{id}", h.Employee.Update)
			r.With(can(user.ResourceEmployee, user.ActionDelete)).Delete("/{id}", h.Employee.Delete)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceAttendance, user.ActionSelf))
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/me", h.Attendance.ListMine)
			})
			r.With(can(user.ResourceAttendance, user.ActionRead)).Get("/", h.Attendance.List)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Route("/types", func(r chi.Router) {
				r.With(can(user.ResourceLeaveType, user.ActionRead)).Get("/", h.Leave.ListTypes)
				r.With(can(user.ResourceLeaveType, user.ActionWrite)).Post("/", h.Leave.CreateType)
				r.With(can(user.ResourceLeaveType, user.ActionWrite)).Put("/{id}", h.Leave.UpdateType)
			})

			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceLeave, user.ActionSelf))
				r.Get("/balances/me", h.Leave.MyBalances)
				r.Post("/requests", h.Leave.Apply)
				r.Get("/requests/me", h.Leave.ListMine)
				r.Post("/requests/{id}/cancel", h.Leave.Cancel)
			})

			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceLeave, user.ActionRead))
				r.Get("/requests", h.Leave.List)
				r.Get("/requests/{id}", h.Leave.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceLeave, user.ActionApprove))
				r.Post("/requests/{id}/approve", h.Leave.Approve)
				r.Post("/requests/{id}/reject", h.Leave.Reject)
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.With(can(user.ResourceHoliday, user.ActionRead)).Get("/", h.Holiday.List)
			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourceHoliday, user.ActionWrite))
				r.Post("/", h.Holiday.Create)
				r.Put("/{id}", h.Holiday.Update)
				r.Delete("/{id}", h.Holiday.Delete)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.With(can(user.ResourcePayroll, user.ActionSelf)).Get("/records/me", h.Payroll.ListMyRecords)

			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourcePayroll, user.ActionRead))
				r.Get("/structures", h.Payroll.ListStructures)
				r.Get("/structures/{id}", h.Payroll.GetStructure)
				r.Get("/assignments", h.Payroll.ListAssignments)
				r.Get("/assignments/{employeeID}", h.Payroll.GetAssignment)
				r.Get("/assignments/{employeeID}/preview", h.Payroll.PreviewSalary)
				r.Get("/records", h.Payroll.ListRecords)
				r.Get("/records/{id}", h.Payroll.GetRecord)
				r.Get("/summary", h.Payroll.GetSummary)
			})

			r.Group(func(r chi.Router) {
				r.Use(can(user.ResourcePayroll, user.ActionWrite))
				r.Post("/structures", h.Payroll.CreateStructure)
				r.Put("/structures/{id}", h.Payroll.UpdateStructure)
				r.Delete("/structures/{id}", h.Payroll.DeleteStructure)
				r.Put("/assignments", h.Payroll.AssignSalary)
			})

			idempotent := middleware.Idempotency(opts.Redis, opts.IdempotencyTTL, logger)
			r.With(can(user.ResourcePayroll, user.ActionRun), idempotent).Post("/run", h.Payroll.RunPayroll)
			r.With(can(user.ResourcePayroll, user.ActionFinalize), idempotent).Post("/finalize", h.Payroll.FinalizePayroll)
		})
	})

	return r
}
