package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/report"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// MonthlyRecap implements report.ReportRepository.
func (r *reportRepository) MonthlyRecap(ctx context.Context, start, end time.Time, scope report.RecapScope) ([]report.MonthlyRecapRow, error) {
	q := GetQuerier(ctx, r.db)

	where := "u.is_active = TRUE AND u.role <> 'admin'"
	args := []interface{}{start, end}
	argIdx := 3

	if scope.DivisionID != nil && *scope.DivisionID != "" {
		where += fmt.Sprintf(" AND u.division_id = $%d", argIdx)
		args = append(args, *scope.DivisionID)
		argIdx++
	}
	if scope.ReviewerID != nil {
		where += fmt.Sprintf(" AND u.id <> $%d AND (u.supervisor_id = $%d OR d.supervisor_id = $%d)", argIdx, argIdx, argIdx)
		args = append(args, *scope.ReviewerID)
	}

	query := `
		WITH scoped AS (
			SELECT u.id, u.name, u.email, d.name AS division_name
			FROM users u
			LEFT JOIN divisions d ON d.id = u.division_id
			WHERE ` + where + `
		)
		SELECT
			s.id, s.name, s.email, s.division_name,
			COUNT(a.id) FILTER (WHERE a.status = 'present'),
			COUNT(a.id) FILTER (WHERE a.status = 'late'),
			COUNT(a.id) FILTER (WHERE a.status = 'absent'),
			COUNT(a.id) FILTER (WHERE a.status = 'excused'),
			COUNT(a.id) FILTER (WHERE a.work_type = 'onsite'),
			COUNT(a.id) FILTER (WHERE a.work_type = 'offsite'),
			COALESCE((
				SELECT SUM(LEAST(l.end_date, $2::date) - GREATEST(l.start_date, $1::date) + 1)
				FROM leaves l
				WHERE l.user_id = s.id
					AND l.status = 'approved'
					AND l.start_date <= $2::date
					AND l.end_date >= $1::date
			), 0)::int,
			COALESCE(SUM(EXTRACT(EPOCH FROM (a.check_out_time - a.check_in_time)) / 60)
				FILTER (WHERE a.check_in_time IS NOT NULL AND a.check_out_time IS NOT NULL), 0)::int
		FROM scoped s
		LEFT JOIN attendances a ON a.user_id = s.id AND a.date BETWEEN $1::date AND $2::date
		GROUP BY s.id, s.name, s.email, s.division_name
		ORDER BY s.name ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly recap: %w", err)
	}
	defer rows.Close()

	var result []report.MonthlyRecapRow
	for rows.Next() {
		var row report.MonthlyRecapRow
		if err := rows.Scan(
			&row.UserID, &row.UserName, &row.Email, &row.DivisionName,
			&row.Present, &row.Late, &row.Absent, &row.Excused,
			&row.Onsite, &row.Offsite, &row.LeaveDays, &row.WorkingMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly recap row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly recap: %w", err)
	}

	return result, nil
}
