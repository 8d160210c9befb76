package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/logbook"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type logbookRepository struct {
	db *database.DB
}

func NewLogbookRepository(db *database.DB) logbook.LogbookRepository {
	return &logbookRepository{db: db}
}

const logbookSelect = `
	SELECT
		lb.id, lb.user_id, lb.date, lb.time, lb.description, lb.activity, lb.location,
		lb.status, lb.reviewed_by, lb.reviewed_at, lb.feedback, lb.rejection_reason,
		lb.created_at, lb.updated_at,
		u.name AS user_name, u.email AS user_email, d.name AS division_name,
		u.supervisor_id, d.supervisor_id AS division_supervisor_id,
		r.name AS reviewer_name
	FROM logbooks lb
	JOIN users u ON u.id = lb.user_id
	LEFT JOIN divisions d ON d.id = u.division_id
	LEFT JOIN users r ON r.id = lb.reviewed_by
`

func scanLogbook(row pgx.Row) (logbook.Logbook, error) {
	var (
		l               logbook.Logbook
		status          approval.Status
		reviewedBy      *string
		reviewedAt      *time.Time
		feedback        *string
		rejectionReason *string
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.Date, &l.Time, &l.Description, &l.Activity, &l.Location,
		&status, &reviewedBy, &reviewedAt, &feedback, &rejectionReason,
		&l.CreatedAt, &l.UpdatedAt,
		&l.UserName, &l.UserEmail, &l.DivisionName,
		&l.SupervisorID, &l.DivisionSupervisorID,
		&l.ReviewerName,
	)
	if err != nil {
		return logbook.Logbook{}, err
	}
	l.Review = approval.RestoreReview(status, reviewedBy, reviewedAt, feedback, rejectionReason)
	return l, nil
}

// Create implements logbook.LogbookRepository.
func (r *logbookRepository) Create(ctx context.Context, l logbook.Logbook) (logbook.Logbook, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO logbooks (user_id, date, time, description, activity, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, l.UserID, l.Date, l.Time, l.Description, l.Activity, l.Location, l.Review.Status()).Scan(&id)
	if err != nil {
		return logbook.Logbook{}, fmt.Errorf("failed to create logbook: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements logbook.LogbookRepository.
func (r *logbookRepository) GetByID(ctx context.Context, id string) (logbook.Logbook, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLogbook(q.QueryRow(ctx, logbookSelect+" WHERE lb.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return logbook.Logbook{}, logbook.ErrLogbookNotFound
		}
		return logbook.Logbook{}, fmt.Errorf("failed to get logbook: %w", err)
	}
	return l, nil
}

// UpdateContent implements logbook.LogbookRepository.
func (r *logbookRepository) UpdateContent(ctx context.Context, l logbook.Logbook) (logbook.Logbook, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE logbooks
		SET time = $1, description = $2, activity = $3, location = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`, l.Time, l.Description, l.Activity, l.Location, l.ID)
	if err != nil {
		return logbook.Logbook{}, fmt.Errorf("failed to update logbook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return logbook.Logbook{}, approval.ErrNotPending
	}

	return r.GetByID(ctx, l.ID)
}

// UpdateReview implements logbook.LogbookRepository.
func (r *logbookRepository) UpdateReview(ctx context.Context, id string, review approval.Review) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE logbooks
		SET status = $1, reviewed_by = $2, reviewed_at = $3, feedback = $4, rejection_reason = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'pending'
	`, review.Status(), review.ReviewedBy(), review.ReviewedAt(), review.Feedback(), review.RejectionReason(), id)
	if err != nil {
		return fmt.Errorf("failed to update logbook review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// List implements logbook.LogbookRepository.
func (r *logbookRepository) List(ctx context.Context, filter logbook.LogbookFilter) ([]logbook.Logbook, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		baseWhere += fmt.Sprintf(" AND lb.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Scope != nil {
		baseWhere += fmt.Sprintf(" AND lb.user_id <> $%d", argIdx)
		if !filter.Scope.All {
			baseWhere += fmt.Sprintf(" AND (u.supervisor_id = $%d OR d.supervisor_id = $%d)", argIdx, argIdx)
		}
		args = append(args, filter.Scope.ReviewerID)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND lb.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND lb.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND lb.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM logbooks lb
		JOIN users u ON u.id = lb.user_id
		LEFT JOIN divisions d ON d.id = u.division_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count logbooks: %w", err)
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

	rows, err := q.Query(ctx, fmt.Sprintf("%s WHERE %s ORDER BY lb.date DESC, lb.time DESC LIMIT $%d OFFSET $%d",
		logbookSelect, baseWhere, argIdx, argIdx+1), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logbooks: %w", err)
	}
	defer rows.Close()

	var logbooks []logbook.Logbook
	for rows.Next() {
		l, err := scanLogbook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan logbook: %w", err)
		}
		logbooks = append(logbooks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate logbooks: %w", err)
	}

	return logbooks, total, nil
}
