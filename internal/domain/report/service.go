package report

import (
	"bytes"
	"context"
)

// ReportService defines the interface for report generation
type ReportService interface {
	MonthlyRecap(ctx context.Context, req MonthlyRecapRequest) (MonthlyRecap, error)

	// ExportMonthlyRecap renders the recap as an XLSX workbook.
	ExportMonthlyRecap(ctx context.Context, req MonthlyRecapRequest) (filename string, file *bytes.Buffer, err error)
}
