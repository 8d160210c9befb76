package leave

import (
	"context"
)

type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveResponse, error)
	GetMy(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)

	// ListPending returns pending leaves the caller may review.
	ListPending(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)

	Get(ctx context.Context, id string) (LeaveResponse, error)
	Quota(ctx context.Context, year int) (QuotaResponse, error)
}
