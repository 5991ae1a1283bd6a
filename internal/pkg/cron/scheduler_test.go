package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloser struct {
	calls      atomic.Int32
	maxSession time.Duration
	err        error
}

func (f *fakeCloser) CloseStaleSessions(ctx context.Context, maxSession time.Duration) (int64, error) {
	f.calls.Add(1)
	f.maxSession = maxSession
	return 2, f.err
}

func TestRunOnce_RunsEveryJob(t *testing.T) {
	s := NewScheduler(nil)
	var a, b int
	s.AddJob("a", time.Hour, func(ctx context.Context) error { a++; return nil })
	s.AddJob("b", time.Hour, func(ctx context.Context) error { b++; return errors.New("boom") })

	s.RunOnce(context.Background())

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestAddJob_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler(nil)
	s.AddJob("never", 0, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.jobs)
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestAttendanceJobs(t *testing.T) {
	closer := &fakeCloser{}
	jobs := NewAttendanceJobs(closer, 16*time.Hour)

	s := NewScheduler(nil)
	jobs.RegisterJobs(s, time.Hour)
	require.Len(t, s.jobs, 1)
	assert.Equal(t, "close_stale_attendances", s.jobs[0].Name)

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), closer.calls.Load())
	assert.Equal(t, 16*time.Hour, closer.maxSession)
}

func TestAttendanceJobs_DisabledWithoutLimit(t *testing.T) {
	s := NewScheduler(nil)
	NewAttendanceJobs(&fakeCloser{}, 0).RegisterJobs(s, time.Hour)
	assert.Empty(t, s.jobs)
}
