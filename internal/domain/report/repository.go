package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// MonthlyRecap aggregates attendance and approved leave per active user
	// for the inclusive date range.
	MonthlyRecap(ctx context.Context, start, end time.Time, scope RecapScope) ([]MonthlyRecapRow, error)
}
