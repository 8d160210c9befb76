package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/report"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// MonthlyRecap implements report.ReportService.
func (s *ReportServiceImpl) MonthlyRecap(ctx context.Context, req report.MonthlyRecapRequest) (report.MonthlyRecap, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyRecap{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.MonthlyRecap{}, err
	}
	scope, err := approval.ScopeFor(actor)
	if err != nil {
		return report.MonthlyRecap{}, err
	}

	recapScope := report.RecapScope{DivisionID: req.DivisionID}
	if !scope.All {
		recapScope.ReviewerID = &scope.ReviewerID
	}

	periodStart, periodEnd := req.Period()
	rows, err := s.reportRepo.MonthlyRecap(ctx, periodStart, periodEnd, recapScope)
	if err != nil {
		return report.MonthlyRecap{}, fmt.Errorf("failed to get attendance recap: %w", err)
	}
	if rows == nil {
		rows = []report.MonthlyRecapRow{}
	}

	return report.MonthlyRecap{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: s.now().Format(time.RFC3339),
		Rows:        rows,
	}, nil
}

// ExportMonthlyRecap implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyRecap(ctx context.Context, req report.MonthlyRecapRequest) (string, *bytes.Buffer, error) {
	recap, err := s.MonthlyRecap(ctx, req)
	if err != nil {
		return "", nil, err
	}

	buf, err := renderMonthlyRecap(recap)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	filename := fmt.Sprintf("attendance-recap-%04d-%02d.xlsx", recap.PeriodYear, recap.PeriodMonth)
	return filename, buf, nil
}
