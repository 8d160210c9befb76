package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.check_in_ip, a.check_out_ip,
		a.check_in_latitude, a.check_in_longitude, a.check_out_latitude, a.check_out_longitude,
		a.check_in_address, a.check_out_address, a.check_in_photo, a.check_out_photo,
		a.work_type, a.offsite_reason, a.status, a.matched_network_id, a.distance_meters, a.notes,
		a.created_at, a.updated_at,
		u.name AS user_name, u.division_id, d.name AS division_name,
		u.supervisor_id, d.supervisor_id AS division_supervisor_id
	FROM attendances a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN divisions d ON d.id = u.division_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.CheckInTime, &att.CheckOutTime, &att.CheckInIP, &att.CheckOutIP,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.CheckInAddress, &att.CheckOutAddress, &att.CheckInPhoto, &att.CheckOutPhoto,
		&att.WorkType, &att.OffsiteReason, &att.Status, &att.MatchedNetworkID, &att.DistanceMeters, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.DivisionID, &att.DivisionName,
		&att.SupervisorID, &att.DivisionSupervisorID,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, date, check_in_time, check_in_ip, check_in_latitude, check_in_longitude,
			check_in_address, check_in_photo, work_type, offsite_reason, status,
			matched_network_id, distance_meters, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		att.UserID, att.Date, att.CheckInTime, att.CheckInIP, att.CheckInLatitude, att.CheckInLongitude,
		att.CheckInAddress, att.CheckInPhoto, att.WorkType, att.OffsiteReason, att.Status,
		att.MatchedNetworkID, att.DistanceMeters, att.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "attendances_user_id_date_key") {
			return attendance.Attendance{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a.GetByID(ctx, id)
}

// CloseCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseCheckOut(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $1, check_out_ip = $2, check_out_latitude = $3, check_out_longitude = $4,
			check_out_address = $5, check_out_photo = $6,
			notes = COALESCE($7, notes), updated_at = NOW()
		WHERE id = $8 AND check_in_time IS NOT NULL AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.CheckOutTime, att.CheckOutIP, att.CheckOutLatitude, att.CheckOutLongitude,
		att.CheckOutAddress, att.CheckOutPhoto, att.Notes, att.ID,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	}

	return a.GetByID(ctx, att.ID)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.user_id = $1 AND a.date = $2", userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.ReviewerID != nil {
		baseWhere += fmt.Sprintf(" AND a.user_id <> $%d AND (u.supervisor_id = $%d OR d.supervisor_id = $%d)", argIdx, argIdx, argIdx)
		args = append(args, *filter.ReviewerID)
		argIdx++
	}
	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.DivisionID != nil && *filter.DivisionID != "" {
		baseWhere += fmt.Sprintf(" AND u.division_id = $%d", argIdx)
		args = append(args, *filter.DivisionID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d::date", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.WorkType != nil && *filter.WorkType != "" {
		baseWhere += fmt.Sprintf(" AND a.work_type = $%d", argIdx)
		args = append(args, *filter.WorkType)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		LEFT JOIN divisions d ON d.id = u.division_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "user_name":
		orderByField = "u.name"
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "check_out_time":
		orderByField = "a.check_out_time"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	selectQuery := fmt.Sprintf("%s WHERE %s ORDER BY %s %s, a.created_at DESC LIMIT $%d OFFSET $%d",
		attendanceSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// MarkAbsences implements attendance.AttendanceRepository. One statement
// covers every user; rows written concurrently by a check-in win.
func (a *attendanceRepository) MarkAbsences(ctx context.Context, date time.Time) (int64, int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (user_id, date, status)
		SELECT u.id, $1::date,
			CASE WHEN EXISTS (
				SELECT 1 FROM leaves l
				WHERE l.user_id = u.id
					AND l.status = 'approved'
					AND $1::date BETWEEN l.start_date AND l.end_date
			) THEN 'excused' ELSE 'absent' END
		FROM users u
		WHERE u.is_active = TRUE
			AND u.role <> 'admin'
			AND NOT EXISTS (SELECT 1 FROM attendances a WHERE a.user_id = u.id AND a.date = $1::date)
		ON CONFLICT ON CONSTRAINT attendances_user_id_date_key DO NOTHING
		RETURNING status
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to mark absences: %w", err)
	}
	defer rows.Close()

	var absent, excused int64
	for rows.Next() {
		var status attendance.Status
		if err := rows.Scan(&status); err != nil {
			return 0, 0, fmt.Errorf("failed to scan absence: %w", err)
		}
		if status == attendance.StatusExcused {
			excused++
		} else {
			absent++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("failed to mark absences: %w", err)
	}

	return absent, excused, nil
}
