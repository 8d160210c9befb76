package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
)

func leaveSettings(t *testing.T, notice, max string, requireApproval string) setting.Settings {
	t.Helper()
	s, err := setting.Parse([]setting.AppSetting{
		{Key: setting.KeyLeaveMinNoticeDays, Value: notice, Type: setting.TypeNumber},
		{Key: setting.KeyMaxLeaveDaysPerYear, Value: max, Type: setting.TypeNumber},
		{Key: setting.KeyLeaveRequireApproval, Value: requireApproval, Type: setting.TypeBoolean},
		{Key: setting.KeyTimezone, Value: "UTC", Type: setting.TypeString},
	})
	require.NoError(t, err)
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 1, InclusiveDays(date(2025, 3, 1), date(2025, 3, 1)))
	assert.Equal(t, 3, InclusiveDays(date(2025, 3, 1), date(2025, 3, 3)))
	assert.Equal(t, 2, InclusiveDays(date(2024, 2, 28), date(2024, 2, 29)))
	assert.Equal(t, 0, InclusiveDays(date(2025, 3, 3), date(2025, 3, 1)))
}

func TestDaysInYear(t *testing.T) {
	start, end := date(2024, 12, 30), date(2025, 1, 2)
	assert.Equal(t, 2, DaysInYear(start, end, 2024))
	assert.Equal(t, 2, DaysInYear(start, end, 2025))
	assert.Equal(t, 0, DaysInYear(start, end, 2026))
}

func TestCheckNotice(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

	t.Run("one day ahead with three days notice", func(t *testing.T) {
		s := leaveSettings(t, "3", "12", "true")
		assert.ErrorIs(t, CheckNotice(s, date(2025, 5, 11), now), ErrInsufficientNotice)
	})

	t.Run("exactly the notice period", func(t *testing.T) {
		s := leaveSettings(t, "3", "12", "true")
		assert.NoError(t, CheckNotice(s, date(2025, 5, 13), now))
	})

	t.Run("past start date", func(t *testing.T) {
		s := leaveSettings(t, "0", "12", "true")
		assert.ErrorIs(t, CheckNotice(s, date(2025, 5, 9), now), ErrInsufficientNotice)
		assert.NoError(t, CheckNotice(s, date(2025, 5, 10), now))
	})

	t.Run("approval not required", func(t *testing.T) {
		s := leaveSettings(t, "3", "12", "false")
		assert.NoError(t, CheckNotice(s, date(2025, 5, 11), now))
	})
}

func TestCheckQuota(t *testing.T) {
	s := leaveSettings(t, "3", "12", "true")
	assert.NoError(t, CheckQuota(s, 10, 2))
	assert.ErrorIs(t, CheckQuota(s, 10, 3), ErrQuotaExceeded)
	assert.ErrorIs(t, CheckQuota(s, 0, 13), ErrQuotaExceeded)

	unlimited := leaveSettings(t, "3", "0", "true")
	assert.NoError(t, CheckQuota(unlimited, 300, 30))
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{
		"sick": TypeSick, "Sakit": TypeSick,
		"permission": TypePermission, "keperluan": TypePermission, " izin ": TypePermission,
		"leave": TypeLeave, "CUTI": TypeLeave,
	}
	for in, want := range cases {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseType("vacation")
	assert.ErrorIs(t, err, ErrInvalidLeaveType)
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	req := CreateLeaveRequest{LeaveType: "cuti", StartDate: "2025-06-01", EndDate: "2025-06-03", Reason: "family trip"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "leave", req.LeaveType)

	bad := CreateLeaveRequest{LeaveType: "holiday", StartDate: "2025-06-03", EndDate: "2025-06-01", Reason: " "}
	assert.Error(t, bad.Validate())
}
