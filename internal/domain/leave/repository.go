package leave

import (
	"context"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
)

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)

	// UpdateReview persists a transition only while the row is still pending.
	// Zero affected rows is reported as approval.ErrNotPending.
	UpdateReview(ctx context.Context, id string, review approval.Review) error

	// UpdateReviewChecked locks the owner's user row, runs check and then
	// UpdateReview in one transaction. Reviews of the same user's leaves are
	// serialized, so check observes every earlier approval.
	UpdateReviewChecked(ctx context.Context, userID, id string, review approval.Review, check func(ctx context.Context) error) error

	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)

	// SumDays adds up the days of the user's leaves with status that fall in year.
	SumDays(ctx context.Context, userID string, year int, status approval.Status) (int, error)

	// HasOverlap reports a pending or approved leave of the user intersecting [start, end].
	HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error)

	ListWithAttachment(ctx context.Context) ([]Leave, error)
	UpdateAttachmentPath(ctx context.Context, id string, path string) error
}
