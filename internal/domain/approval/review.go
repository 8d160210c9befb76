package approval

import (
	"strings"
	"time"
)

// Review is the approval state of a leave or logbook entry. Its fields are
// only changed through Approve and Reject.
type Review struct {
	status          Status
	reviewedBy      *string
	reviewedAt      *time.Time
	feedback        *string
	rejectionReason *string
}

// NewReview returns the initial pending state.
func NewReview() Review {
	return Review{status: StatusPending}
}

// RestoreReview rebuilds a Review from persisted columns.
func RestoreReview(status Status, reviewedBy *string, reviewedAt *time.Time, feedback *string, rejectionReason *string) Review {
	return Review{
		status:          status,
		reviewedBy:      reviewedBy,
		reviewedAt:      reviewedAt,
		feedback:        feedback,
		rejectionReason: rejectionReason,
	}
}

func (r Review) Status() Status { return r.status }
func (r Review) ReviewedBy() *string { return r.reviewedBy }
func (r Review) ReviewedAt() *time.Time { return r.reviewedAt }
func (r Review) Feedback() *string { return r.feedback }
func (r Review) RejectionReason() *string { return r.rejectionReason }
func (r Review) IsPending() bool { return r.status == StatusPending }

// Approve moves a pending review to approved. feedback is optional.
func (r *Review) Approve(reviewerID string, at time.Time, feedback *string) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	if feedback != nil {
		trimmed := strings.TrimSpace(*feedback)
		if trimmed == "" {
			feedback = nil
		} else {
			feedback = &trimmed
		}
	}
	r.status = StatusApproved
	r.reviewedBy = &reviewerID
	r.reviewedAt = &at
	r.feedback = feedback
	return nil
}

// Reject moves a pending review to rejected. A blank reason is refused
// before the state is inspected.
func (r *Review) Reject(reviewerID string, at time.Time, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusRejected
	r.reviewedBy = &reviewerID
	r.reviewedAt = &at
	r.rejectionReason = &reason
	return nil
}
