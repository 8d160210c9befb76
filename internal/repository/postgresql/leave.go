package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveSelect = `
	SELECT
		l.id, l.user_id, l.leave_type, l.start_date, l.end_date, l.total_days, l.reason,
		l.attachment_path, l.status, l.reviewed_by, l.reviewed_at, l.rejection_reason,
		l.created_at, l.updated_at,
		u.name AS user_name, u.email AS user_email, u.division_id, d.name AS division_name,
		u.supervisor_id, d.supervisor_id AS division_supervisor_id,
		r.name AS reviewer_name
	FROM leaves l
	JOIN users u ON u.id = l.user_id
	LEFT JOIN divisions d ON d.id = u.division_id
	LEFT JOIN users r ON r.id = l.reviewed_by
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var (
		l               leave.Leave
		status          approval.Status
		reviewedBy      *string
		reviewedAt      *time.Time
		rejectionReason *string
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.Type, &l.StartDate, &l.EndDate, &l.TotalDays, &l.Reason,
		&l.AttachmentPath, &status, &reviewedBy, &reviewedAt, &rejectionReason,
		&l.CreatedAt, &l.UpdatedAt,
		&l.UserName, &l.UserEmail, &l.DivisionID, &l.DivisionName,
		&l.SupervisorID, &l.DivisionSupervisorID,
		&l.ReviewerName,
	)
	if err != nil {
		return leave.Leave{}, err
	}
	l.Review = approval.RestoreReview(status, reviewedBy, reviewedAt, nil, rejectionReason)
	return l, nil
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO leaves (user_id, leave_type, start_date, end_date, total_days, reason, attachment_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, l.UserID, l.Type, l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.AttachmentPath, l.Review.Status()).Scan(&id)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave: %w", err)
	}
	return l, nil
}

// UpdateReview implements leave.LeaveRepository.
func (r *leaveRepository) UpdateReview(ctx context.Context, id string, review approval.Review) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leaves
		SET status = $1, reviewed_by = $2, reviewed_at = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`, review.Status(), review.ReviewedBy(), review.ReviewedAt(), review.RejectionReason(), id)
	if err != nil {
		return fmt.Errorf("failed to update leave review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// UpdateReviewChecked implements leave.LeaveRepository. check runs with a
// context bound to the transaction.
func (r *leaveRepository) UpdateReviewChecked(ctx context.Context, userID, id string, review approval.Review, check func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return leave.ErrLeaveNotFound
			}
			return fmt.Errorf("failed to lock leave owner: %w", err)
		}

		txCtx := ContextWithTx(ctx, tx)
		if err := check(txCtx); err != nil {
			return err
		}
		return r.UpdateReview(txCtx, id, review)
	})
}

// List implements leave.LeaveRepository.
func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		baseWhere += fmt.Sprintf(" AND l.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Scope != nil {
		baseWhere += fmt.Sprintf(" AND l.user_id <> $%d", argIdx)
		if !filter.Scope.All {
			baseWhere += fmt.Sprintf(" AND (u.supervisor_id = $%d OR d.supervisor_id = $%d)", argIdx, argIdx)
		}
		args = append(args, filter.Scope.ReviewerID)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LeaveType != nil {
		baseWhere += fmt.Sprintf(" AND l.leave_type = $%d", argIdx)
		args = append(args, *filter.LeaveType)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND l.end_date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND l.start_date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM leaves l
		JOIN users u ON u.id = l.user_id
		LEFT JOIN divisions d ON d.id = u.division_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaves: %w", err)
	}

	orderByField := "l.created_at"
	if filter.SortBy == "start_date" {
		orderByField = "l.start_date"
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

	rows, err := q.Query(ctx, fmt.Sprintf("%s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		leaveSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leaves: %w", err)
	}

	return leaves, total, nil
}

// SumDays implements leave.LeaveRepository. Leaves crossing a year boundary
// only count the days inside year.
func (r *leaveRepository) SumDays(ctx context.Context, userID string, year int, status approval.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	var days int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(
			LEAST(end_date, make_date($2, 12, 31)) - GREATEST(start_date, make_date($2, 1, 1)) + 1
		), 0)::int
		FROM leaves
		WHERE user_id = $1
			AND status = $3
			AND start_date <= make_date($2, 12, 31)
			AND end_date >= make_date($2, 1, 1)
	`, userID, year, status).Scan(&days)
	if err != nil {
		return 0, fmt.Errorf("failed to sum leave days: %w", err)
	}
	return days, nil
}

// HasOverlap implements leave.LeaveRepository.
func (r *leaveRepository) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE user_id = $1
				AND status IN ('pending', 'approved')
				AND start_date <= $3::date
				AND end_date >= $2::date
		)
	`, userID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

// ListWithAttachment implements leave.LeaveRepository.
func (r *leaveRepository) ListWithAttachment(ctx context.Context) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, leaveSelect+" WHERE l.attachment_path IS NOT NULL AND l.attachment_path <> '' ORDER BY l.created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaves: %w", err)
	}
	return leaves, nil
}

// UpdateAttachmentPath implements leave.LeaveRepository.
func (r *leaveRepository) UpdateAttachmentPath(ctx context.Context, id string, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE leaves SET attachment_path = $1, updated_at = NOW() WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("failed to update attachment path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}
