package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/config"
	appHTTP "github.com/hrmlabs/hrm-backend-go/internal/handler/http"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/cron"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/events"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/logger"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/rbac"
	"github.com/hrmlabs/hrm-backend-go/internal/repository/postgresql"
	attendanceService "github.com/hrmlabs/hrm-backend-go/internal/service/attendance"
	dashboardService "github.com/hrmlabs/hrm-backend-go/internal/service/dashboard"
	employeeService "github.com/hrmlabs/hrm-backend-go/internal/service/employee"
	holidayService "github.com/hrmlabs/hrm-backend-go/internal/service/holiday"
	leaveService "github.com/hrmlabs/hrm-backend-go/internal/service/leave"
	masterService "github.com/hrmlabs/hrm-backend-go/internal/service/master"
	organizationService "github.com/hrmlabs/hrm-backend-go/internal/service/organization"
	payrollService "github.com/hrmlabs/hrm-backend-go/internal/service/payroll"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.Options{
		App:     "hrm-api",
		Version: version,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// A nil interface, not a typed nil client, disables idempotency.
	var cache redis.Cmdable
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		cache = client
	} else {
		log.Warn("REDIS_ADDR not set, idempotency keys are ignored")
	}

	publisher := events.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.PayrollTopic))
	} else {
		log.Warn("KAFKA_BROKERS not set, payroll events are dropped")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close event publisher", slog.Any("error", err))
		}
	}()

	authz, err := rbac.NewEnforcer()
	if err != nil {
		return fmt.Errorf("load rbac policy: %w", err)
	}

	tx := postgresql.NewTransactor(db)

	organizationRepo := postgresql.NewOrganizationRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	designationRepo := postgresql.NewDesignationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	assignmentRepo := postgresql.NewSalaryAssignmentRepository(db)
	recordRepo := postgresql.NewSalaryRecordRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	organizationSvc := organizationService.NewOrganizationService(organizationRepo)
	masterSvc := masterService.NewMasterService(tx, departmentRepo, designationRepo, employeeRepo)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, leaveBalanceRepo, log)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, employeeRepo, log)
	leaveSvc := leaveService.NewLeaveService(tx, leaveTypeRepo, leaveBalanceRepo, leaveRequestRepo, employeeRepo, log)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	payrollSvc := payrollService.NewPayrollService(tx, structureRepo, assignmentRepo, recordRepo, employeeRepo, publisher, log)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)

	scheduler := cron.NewScheduler(log)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Jobs.MaxAttendanceSession).RegisterJobs(scheduler, cfg.Jobs.StaleSweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer),
		authz,
		appHTTP.Handlers{
			Organization: appHTTP.NewOrganizationHandler(organizationSvc),
			Master:       appHTTP.NewMasterHandler(masterSvc),
			Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:        appHTTP.NewLeaveHandler(leaveSvc),
			Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
			Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
			Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		},
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.App.AllowedOrigins,
			RequestTimeout: cfg.App.RequestTimeout,
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			Redis:          cache,
			IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
