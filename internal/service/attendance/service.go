package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5/pgconn"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employees      attendance.EmployeeDirectory
	logger         *slog.Logger
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employees attendance.EmployeeDirectory,
	logger *slog.Logger,
) *AttendanceServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employees:      employees,
		logger:         logger.With(slog.String("component", "attendance")),
		now:            time.Now,
	}
}

type caller struct {
	organizationID string
	employeeID     string
}

// self resolves the caller's own employee record.
func (s *AttendanceServiceImpl) self(ctx context.Context) (caller, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil || claims.OrganizationID == "" {
		return caller{}, user.ErrOrganizationRequired
	}

	employeeID := claims.EmployeeID
	if employeeID == "" {
		employeeID, err = s.employees.FindIDByUserID(ctx, claims.UserID, claims.OrganizationID)
		if err != nil {
			return caller{}, err
		}
	}
	if employeeID == "" {
		return caller{}, attendance.ErrNoEmployeeProfile
	}
	return caller{organizationID: claims.OrganizationID, employeeID: employeeID}, nil
}

func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	c, err := s.self(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	var created attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.attendanceRepo.FindOpenSession(ctx, c.employeeID, c.organizationID)
		if err == nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, attendance.ErrNoOpenSession) {
			return err
		}

		notes := req.Notes
		if notes != nil && *notes == "" {
			notes = nil
		}
		created, err = s.attendanceRepo.Create(ctx, attendance.Attendance{
			OrganizationID:  c.organizationID,
			EmployeeID:      c.employeeID,
			Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			CheckIn:         &now,
			CheckInLocation: req.Location,
			Status:          attendance.StatusPresent,
			Notes:           notes,
		})
		return err
	})
	if err != nil {
		// A concurrent check-in loses on the one-open-session index.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	c, err := s.self(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	var closed attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.attendanceRepo.FindOpenSession(ctx, c.employeeID, c.organizationID)
		if err != nil {
			return err
		}

		checkIn := now
		if open.CheckIn != nil {
			checkIn = *open.CheckIn
		}
		hours := attendance.WorkingHours(checkIn, now)

		open.CheckOut = &now
		open.WorkingHours = &hours
		open.CheckOutLocation = req.Location
		if req.Notes != nil {
			open.Notes = attendance.AppendCheckOutNotes(open.Notes, *req.Notes)
		}

		closed, err = s.attendanceRepo.Close(ctx, open)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.logger.Debug("checked out",
		slog.String("employee_id", c.employeeID),
		slog.String("working_hours", closed.WorkingHours.String()),
	)
	return mapToResponse(closed), nil
}

// staleNote marks sessions closed by CloseStaleSessions rather than by the employee.
const staleNote = "[Out]: auto-closed"

// CloseStaleSessions closes sessions left open longer than maxSession, crediting maxSession hours.
func (s *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context, maxSession time.Duration) (int64, error) {
	if maxSession <= 0 {
		return 0, nil
	}
	closed, err := s.attendanceRepo.CloseStale(ctx, s.now().Add(-maxSession), maxSession, staleNote)
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		s.logger.Info("closed stale sessions", slog.Int64("count", closed), slog.Duration("max_session", maxSession))
	}
	return closed, nil
}

func (s *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, int64, error) {
	c, err := s.self(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter.EmployeeID = &c.employeeID
	return s.list(ctx, c.organizationID, filter)
}

func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, int64, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return nil, 0, user.ErrOrganizationRequired
	}
	return s.list(ctx, orgID, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, orgID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	records, total, err := s.attendanceRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		responses = append(responses, mapToResponse(a))
	}
	return responses, total, nil
}

func mapToResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		EmployeeCode:     a.EmployeeCode,
		Date:             a.Date.Format("2006-01-02"),
		CheckIn:          a.CheckIn,
		CheckOut:         a.CheckOut,
		CheckInLocation:  a.CheckInLocation,
		CheckOutLocation: a.CheckOutLocation,
		WorkingHours:     a.WorkingHours,
		Status:           a.Status,
		Notes:            a.Notes,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
