package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/report"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	// Monthly Attendance Recap, JSON or ?format=xlsx
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyAttendanceReport handles GET /reports/attendance/monthly.
// month and year default to the current month.
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	req := report.MonthlyRecapRequest{
		Month:      int(now.Month()),
		Year:       now.Year(),
		DivisionID: queryString(r, "division_id"),
	}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return
		}
		req.Month = month
	}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		req.Year = year
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		result, err := h.reportService.MonthlyRecap(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)

	case "xlsx":
		filename, file, err := h.reportService.ExportMonthlyRecap(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(file.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := file.WriteTo(w); err != nil {
			slog.Error("Failed to write report", "filename", filename, "error", err)
		}

	default:
		response.BadRequest(w, "format must be one of: json, xlsx", nil)
	}
}
