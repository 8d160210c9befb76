package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

type memoryAttendanceRepo struct {
	attendance.AttendanceRepository
	records    map[string]attendance.Attendance
	lastFilter attendance.AttendanceFilter
	markedDay  time.Time
}

func dayKey(userID string, date time.Time) string {
	return userID + "/" + date.Format("2006-01-02")
}

func (r *memoryAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := dayKey(a.UserID, a.Date)
	if _, ok := r.records[key]; ok {
		return attendance.Attendance{}, attendance.ErrDuplicateCheckIn
	}
	a.ID = key
	r.records[key] = a
	return a, nil
}

func (r *memoryAttendanceRepo) CloseCheckOut(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	current, ok := r.records[a.ID]
	if !ok || !current.HasOpenCheckIn() {
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	}
	r.records[a.ID] = a
	return a, nil
}

func (r *memoryAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *memoryAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	a, ok := r.records[dayKey(userID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *memoryAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.lastFilter = filter
	return nil, 0, nil
}

func (r *memoryAttendanceRepo) MarkAbsences(_ context.Context, date time.Time) (int64, int64, error) {
	r.markedDay = date
	return 3, 1, nil
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakeNetworkRepo struct {
	officenetwork.OfficeNetworkRepository
}

func (fakeNetworkRepo) ListActive(context.Context) ([]officenetwork.OfficeNetwork, error) {
	return []officenetwork.OfficeNetwork{{
		ID:           "hq",
		Name:         "Head Office",
		IPRangeStart: "192.168.10.1",
		IPRangeEnd:   "192.168.10.254",
		IsActive:     true,
	}}, nil
}

type fixedSettings struct {
	setting.SettingService
	s setting.Settings
}

func (f fixedSettings) Current(context.Context) (setting.Settings, error) {
	return f.s, nil
}

func jakarta(t *testing.T, day, h, m int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return time.Date(2025, time.March, day, h, m, 0, 0, loc)
}

func newTestService(t *testing.T, now time.Time) (*AttendanceServiceImpl, *memoryAttendanceRepo) {
	t.Helper()
	s, err := setting.Parse(nil)
	require.NoError(t, err)

	repo := &memoryAttendanceRepo{records: map[string]attendance.Attendance{}}
	users := &fakeUserRepo{users: map[string]user.User{
		"u1":   {ID: "u1", Role: user.RoleUser, IsActive: true},
		"gone": {ID: "gone", Role: user.RoleUser, IsActive: false},
	}}

	svc := NewAttendanceService(repo, users, fakeNetworkRepo{}, fixedSettings{s: s}, nil, nil).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func asUser(id string, role user.Role) context.Context {
	return jwt.WithActor(context.Background(), user.Actor{ID: id, Role: role})
}

func TestCheckInThenCheckOut(t *testing.T) {
	svc, repo := newTestService(t, jakarta(t, 4, 8, 20))
	ctx := asUser("u1", user.RoleUser)

	in, err := svc.CheckIn(ctx, attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
	require.NoError(t, err)
	assert.Equal(t, "late", in.Status)
	assert.Equal(t, "2025-03-04", in.Date)
	assert.Equal(t, "hq", *in.MatchedNetworkID)
	assert.Equal(t, "2025-03-04 08:20:00", *in.CheckInTime)

	_, err = svc.CheckIn(ctx, attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
	assert.ErrorIs(t, err, attendance.ErrDuplicateCheckIn)

	svc.now = func() time.Time { return jakarta(t, 4, 17, 5) }
	out, err := svc.CheckOut(ctx, attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
	require.NoError(t, err)
	require.NotNil(t, out.WorkingMinutes)
	assert.Equal(t, 525, *out.WorkingMinutes)
	assert.Equal(t, "late", out.Status)

	_, err = svc.CheckOut(ctx, attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenCheckIn)
	assert.Len(t, repo.records, 1)
}

func TestCheckIn_Rejections(t *testing.T) {
	t.Run("outside office without reason", func(t *testing.T) {
		svc, repo := newTestService(t, jakarta(t, 4, 7, 50))
		_, err := svc.CheckIn(asUser("u1", user.RoleUser), attendance.AttendanceRequest{ClientIP: "8.8.8.8"})
		assert.ErrorIs(t, err, attendance.ErrLocationNotRecognized)
		assert.Empty(t, repo.records)
	})

	t.Run("offsite requires reason", func(t *testing.T) {
		svc, _ := newTestService(t, jakarta(t, 4, 7, 50))
		_, err := svc.CheckIn(asUser("u1", user.RoleUser), attendance.AttendanceRequest{ClientIP: "8.8.8.8", WorkType: "offsite"})
		assert.ErrorIs(t, err, attendance.ErrMissingReason)
	})

	t.Run("offsite with reason", func(t *testing.T) {
		svc, _ := newTestService(t, jakarta(t, 4, 7, 50))
		resp, err := svc.CheckIn(asUser("u1", user.RoleUser), attendance.AttendanceRequest{
			ClientIP:      "8.8.8.8",
			WorkType:      "offsite",
			OffsiteReason: "client visit",
		})
		require.NoError(t, err)
		assert.Equal(t, "present", resp.Status)
		assert.Equal(t, "offsite", *resp.WorkType)
	})

	t.Run("before window", func(t *testing.T) {
		svc, _ := newTestService(t, jakarta(t, 4, 5, 30))
		_, err := svc.CheckIn(asUser("u1", user.RoleUser), attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
		assert.ErrorIs(t, err, attendance.ErrOutOfWindow)
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, _ := newTestService(t, jakarta(t, 4, 7, 50))
		_, err := svc.CheckIn(asUser("gone", user.RoleUser), attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
		assert.ErrorIs(t, err, user.ErrUserInactive)
	})
}

func TestToday(t *testing.T) {
	svc, _ := newTestService(t, jakarta(t, 4, 7, 0))
	ctx := asUser("u1", user.RoleUser)

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.True(t, today.CanCheckIn)
	assert.False(t, today.CanCheckOut)
	assert.Nil(t, today.Attendance)
	assert.Equal(t, "06:00-10:00", today.CheckIn)

	_, err = svc.CheckIn(ctx, attendance.AttendanceRequest{ClientIP: "192.168.10.7"})
	require.NoError(t, err)

	today, err = svc.Today(ctx)
	require.NoError(t, err)
	assert.False(t, today.CanCheckIn)
	assert.False(t, today.CanCheckOut)
	require.NotNil(t, today.Attendance)
}

func TestList_ScopesSupervisor(t *testing.T) {
	svc, repo := newTestService(t, jakarta(t, 4, 7, 0))

	_, err := svc.List(asUser("sup-1", user.RoleSupervisor), attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.ReviewerID)
	assert.Equal(t, "sup-1", *repo.lastFilter.ReviewerID)

	_, err = svc.List(asUser("admin", user.RoleAdmin), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Nil(t, repo.lastFilter.ReviewerID)

	_, err = svc.List(asUser("u1", user.RoleUser), attendance.AttendanceFilter{})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestGet_Visibility(t *testing.T) {
	svc, repo := newTestService(t, jakarta(t, 4, 7, 0))
	sup := "sup-1"
	repo.records["r1"] = attendance.Attendance{ID: "r1", UserID: "u1", SupervisorID: &sup, Status: attendance.StatusPresent}

	_, err := svc.Get(asUser("u1", user.RoleUser), "r1")
	assert.NoError(t, err)
	_, err = svc.Get(asUser("sup-1", user.RoleSupervisor), "r1")
	assert.NoError(t, err)
	_, err = svc.Get(asUser("sup-2", user.RoleSupervisor), "r1")
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
	_, err = svc.Get(asUser("u2", user.RoleUser), "r1")
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestMarkAbsences(t *testing.T) {
	svc, repo := newTestService(t, time.Time{})

	// Tuesday 00:05 closes Monday.
	res, err := svc.MarkAbsences(context.Background(), jakarta(t, 4, 0, 5))
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, "2025-03-03", res.Date)
	assert.Equal(t, int64(3), res.Absent)
	assert.Equal(t, int64(1), res.Excused)
	assert.Equal(t, 3, repo.markedDay.Day())

	// Sunday 00:05 would close Saturday.
	repo.markedDay = time.Time{}
	res, err = svc.MarkAbsences(context.Background(), jakarta(t, 9, 0, 5))
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "2025-03-08", res.Date)
	assert.True(t, repo.markedDay.IsZero())
}
