package cron

import (
	"context"
	"time"
)

// StaleSessionCloser is satisfied by the attendance service.
type StaleSessionCloser interface {
	CloseStaleSessions(ctx context.Context, maxSession time.Duration) (int64, error)
}

type AttendanceJobs struct {
	closer     StaleSessionCloser
	maxSession time.Duration
}

func NewAttendanceJobs(closer StaleSessionCloser, maxSession time.Duration) *AttendanceJobs {
	return &AttendanceJobs{closer: closer, maxSession: maxSession}
}

// RegisterJobs adds the stale session sweep. A zero maxSession leaves it unregistered.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, every time.Duration) {
	if j.maxSession <= 0 {
		return
	}
	scheduler.AddJob("close_stale_attendances", every, j.CloseStaleSessions)
}

func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	_, err := j.closer.CloseStaleSessions(ctx, j.maxSession)
	return err
}
