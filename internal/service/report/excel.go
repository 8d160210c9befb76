package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hadir-app/hadir-backend/internal/domain/report"
)

const recapSheet = "Recap"

var recapHeaders = []string{
	"No", "Name", "Email", "Division",
	"Present", "Late", "Absent", "Excused",
	"Onsite", "Offsite", "Leave Days", "Working Hours",
}

func renderMonthlyRecap(recap report.MonthlyRecap) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recapSheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	period := time.Date(recap.PeriodYear, time.Month(recap.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	lastCol, _ := excelize.ColumnNumberToName(len(recapHeaders))

	if err := f.SetCellValue(recapSheet, "A1", "MONTHLY ATTENDANCE RECAP"); err != nil {
		return nil, err
	}
	if err := f.MergeCell(recapSheet, "A1", lastCol+"1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(recapSheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(recapSheet, "A2", fmt.Sprintf("Period: %s (%s to %s)", period.Format("January 2006"), recap.PeriodStart, recap.PeriodEnd)); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(recapSheet, "A3", "Generated: "+recap.GeneratedAt); err != nil {
		return nil, err
	}

	const headerRow = 5
	for i, h := range recapHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(recapSheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(recapSheet, "A5", fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle); err != nil {
		return nil, err
	}

	for i, r := range recap.Rows {
		division := "-"
		if r.DivisionName != nil {
			division = *r.DivisionName
		}
		values := []interface{}{
			i + 1, r.UserName, r.Email, division,
			r.Present, r.Late, r.Absent, r.Excused,
			r.Onsite, r.Offsite, r.LeaveDays,
			math.Round(float64(r.WorkingMinutes)/60*100) / 100,
		}
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(recapSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	widths := map[string]float64{"A": 6, "B": 28, "C": 32, "D": 20}
	for col, w := range widths {
		if err := f.SetColWidth(recapSheet, col, col, w); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(recapSheet, "E", lastCol, 13); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
