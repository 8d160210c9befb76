package logbook

import (
	"context"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
)

type LogbookRepository interface {
	Create(ctx context.Context, l Logbook) (Logbook, error)
	GetByID(ctx context.Context, id string) (Logbook, error)

	// UpdateContent edits an entry only while it is pending.
	UpdateContent(ctx context.Context, l Logbook) (Logbook, error)

	// UpdateReview persists a transition only while the row is still pending.
	// Zero affected rows is reported as approval.ErrNotPending.
	UpdateReview(ctx context.Context, id string, review approval.Review) error

	List(ctx context.Context, filter LogbookFilter) ([]Logbook, int64, error)
}
