package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/repository/postgresql"
)

func TestAttendanceRepository_CheckInOnce(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	u := createUser(t, db, "budi", user.RoleUser, nil)

	in := time.Date(2025, time.March, 4, 1, 0, 0, 0, time.UTC)
	wt := attendance.WorkTypeOnsite
	record := attendance.Attendance{
		UserID:      u.ID,
		Date:        day(2025, time.March, 4),
		CheckInTime: &in,
		WorkType:    &wt,
		Status:      attendance.StatusPresent,
	}

	created, err := repo.Create(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", created.Date.Format("2006-01-02"))

	_, err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, attendance.ErrDuplicateCheckIn)

	out := in.Add(9 * time.Hour)
	created.CheckOutTime = &out
	closed, err := repo.CloseCheckOut(ctx, created)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOutTime)
	assert.True(t, closed.CheckOutTime.Equal(out))

	_, err = repo.CloseCheckOut(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrNoOpenCheckIn)
}

func TestAttendanceRepository_MarkAbsences(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	leaves := postgresql.NewLeaveRepository(db)

	createUser(t, db, "admin", user.RoleAdmin, nil)
	present := createUser(t, db, "present", user.RoleUser, nil)
	createUser(t, db, "absent", user.RoleUser, nil)
	onLeave := createUser(t, db, "onleave", user.RoleUser, nil)

	date := day(2025, time.March, 3)
	in := date.Add(time.Hour)
	_, err := repo.Create(ctx, attendance.Attendance{UserID: present.ID, Date: date, CheckInTime: &in, Status: attendance.StatusPresent})
	require.NoError(t, err)

	l, err := leaves.Create(ctx, leave.Leave{
		UserID:    onLeave.ID,
		Type:      leave.TypeSick,
		StartDate: day(2025, time.March, 3),
		EndDate:   day(2025, time.March, 4),
		TotalDays: 2,
		Reason:    "flu",
		Review:    approval.NewReview(),
	})
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, leaves.UpdateReview(ctx, l.ID, approval.RestoreReview(approval.StatusApproved, nil, &now, nil, nil)))

	absent, excused, err := repo.MarkAbsences(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, int64(1), absent)
	assert.Equal(t, int64(1), excused)

	// Running again changes nothing.
	absent, excused, err = repo.MarkAbsences(ctx, date)
	require.NoError(t, err)
	assert.Zero(t, absent)
	assert.Zero(t, excused)

	kept, err := repo.GetByUserAndDate(ctx, present.ID, date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, kept.Status)
}
