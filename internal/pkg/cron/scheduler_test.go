package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
)

type fakeAttendanceService struct {
	attendance.AttendanceService
	calls []time.Time
}

func (f *fakeAttendanceService) MarkAbsences(_ context.Context, now time.Time) (attendance.AbsenceResult, error) {
	f.calls = append(f.calls, now)
	return attendance.AbsenceResult{}, nil
}

func TestAddJob_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	err := s.AddJob("broken", "every day", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.jobs)
}

func TestRunOnce_RunsRegisteredJobs(t *testing.T) {
	s := NewScheduler(nil)
	svc := &fakeAttendanceService{}
	jobs := NewAttendanceJobs(svc)
	fixed := time.Date(2025, time.March, 4, 0, 5, 0, 0, time.UTC)
	jobs.now = func() time.Time { return fixed }

	require.NoError(t, jobs.RegisterJobs(s, "5 0 * * *"))

	failing := 0
	require.NoError(t, s.AddJob("failing", "@hourly", func(context.Context) error {
		failing++
		return errors.New("boom")
	}))

	s.RunOnce(context.Background())

	assert.Equal(t, []time.Time{fixed}, svc.calls)
	assert.Equal(t, 1, failing)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	require.NoError(t, s.AddJob("noop", "@every 1h", func(context.Context) error { return nil }))
	s.Start()
	s.Stop()
	assert.Error(t, s.ctx.Err())
}
