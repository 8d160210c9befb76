package logbook

import "context"

type LogbookService interface {
	Create(ctx context.Context, req CreateLogbookRequest) (LogbookResponse, error)
	Update(ctx context.Context, req UpdateLogbookRequest) (LogbookResponse, error)
	Approve(ctx context.Context, req ApproveLogbookRequest) (LogbookResponse, error)
	Reject(ctx context.Context, req RejectLogbookRequest) (LogbookResponse, error)
	GetMy(ctx context.Context, filter LogbookFilter) (ListLogbookResponse, error)
	ListPending(ctx context.Context, filter LogbookFilter) (ListLogbookResponse, error)
	Get(ctx context.Context, id string) (LogbookResponse, error)
}
