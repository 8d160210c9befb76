package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/report"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type fakeReportRepo struct {
	rows      []report.MonthlyRecapRow
	gotStart  time.Time
	gotEnd    time.Time
	gotScope  report.RecapScope
	callCount int
}

func (r *fakeReportRepo) MonthlyRecap(_ context.Context, start, end time.Time, scope report.RecapScope) ([]report.MonthlyRecapRow, error) {
	r.callCount++
	r.gotStart, r.gotEnd, r.gotScope = start, end, scope
	return r.rows, nil
}

func strPtr(s string) *string { return &s }

func sampleRows() []report.MonthlyRecapRow {
	return []report.MonthlyRecapRow{
		{UserID: "u-1", UserName: "Rina", Email: "rina@example.com", DivisionName: strPtr("Engineering"), Present: 18, Late: 2, Absent: 1, Excused: 1, Onsite: 15, Offsite: 5, LeaveDays: 1, WorkingMinutes: 9630},
		{UserID: "u-2", UserName: "Budi", Email: "budi@example.com", Present: 20},
	}
}

func TestMonthlyRecap_Scopes(t *testing.T) {
	repo := &fakeReportRepo{rows: sampleRows()}
	svc := NewReportService(repo)

	t.Run("admin sees everyone", func(t *testing.T) {
		ctx := jwt.WithActor(context.Background(), user.Actor{ID: "admin", Role: user.RoleAdmin})
		recap, err := svc.MonthlyRecap(ctx, report.MonthlyRecapRequest{Month: 2, Year: 2025})
		require.NoError(t, err)
		assert.Len(t, recap.Rows, 2)
		assert.Equal(t, "2025-02-01", recap.PeriodStart)
		assert.Equal(t, "2025-02-28", recap.PeriodEnd)
		assert.Nil(t, repo.gotScope.ReviewerID)
	})

	t.Run("supervisor is scoped to reviewees", func(t *testing.T) {
		ctx := jwt.WithActor(context.Background(), user.Actor{ID: "sup", Role: user.RoleSupervisor})
		_, err := svc.MonthlyRecap(ctx, report.MonthlyRecapRequest{Month: 2, Year: 2025})
		require.NoError(t, err)
		require.NotNil(t, repo.gotScope.ReviewerID)
		assert.Equal(t, "sup", *repo.gotScope.ReviewerID)
	})

	t.Run("regular user is refused", func(t *testing.T) {
		ctx := jwt.WithActor(context.Background(), user.Actor{ID: "u-1", Role: user.RoleUser})
		_, err := svc.MonthlyRecap(ctx, report.MonthlyRecapRequest{Month: 2, Year: 2025})
		assert.ErrorIs(t, err, approval.ErrUnauthorized)
	})

	t.Run("invalid month", func(t *testing.T) {
		ctx := jwt.WithActor(context.Background(), user.Actor{ID: "admin", Role: user.RoleAdmin})
		calls := repo.callCount
		_, err := svc.MonthlyRecap(ctx, report.MonthlyRecapRequest{Month: 13, Year: 2025})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
		assert.Equal(t, calls, repo.callCount)
	})
}

func TestExportMonthlyRecap(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{rows: sampleRows()})
	ctx := jwt.WithActor(context.Background(), user.Actor{ID: "admin", Role: user.RoleAdmin})

	filename, buf, err := svc.ExportMonthlyRecap(ctx, report.MonthlyRecapRequest{Month: 3, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "attendance-recap-2025-03.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(recapSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "MONTHLY ATTENDANCE RECAP", title)

	rows, err := f.GetRows(recapSheet)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, recapHeaders, rows[4])
	assert.Equal(t, []string{"1", "Rina", "rina@example.com", "Engineering", "18", "2", "1", "1", "15", "5", "1", "160.5"}, rows[5])
	assert.Equal(t, "-", rows[6][3])
}
