package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
	"github.com/hadir-app/hadir-backend/internal/service/file"
	notificationservice "github.com/hadir-app/hadir-backend/internal/service/notification"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	userRepo       user.UserRepository
	settingService setting.SettingService
	fileService    file.FileService
	storage        storage.FileStorage
	notifier       notification.Notifier
	now            func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRepository,
	userRepo user.UserRepository,
	settingService setting.SettingService,
	fileService file.FileService,
	fileStorage storage.FileStorage,
	notifier notification.Notifier,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepo,
		userRepo:        userRepo,
		settingService:  settingService,
		fileService:     fileService,
		storage:         fileStorage,
		notifier:        notifier,
		now:             time.Now,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (s *LeaveServiceImpl) toResponse(ctx context.Context, l leave.Leave) leave.LeaveResponse {
	return leave.LeaveResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		UserName:        l.UserName,
		DivisionName:    l.DivisionName,
		LeaveType:       string(l.Type),
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		AttachmentURL:   storage.URLOf(ctx, s.storage, l.AttachmentPath),
		Status:          l.Review.Status().String(),
		ReviewedBy:      l.Review.ReviewedBy(),
		ReviewerName:    l.ReviewerName,
		ReviewedAt:      formatTime(l.Review.ReviewedAt()),
		RejectionReason: l.Review.RejectionReason(),
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

// checkQuota applies the yearly cap to every calendar year the leave touches.
func (s *LeaveServiceImpl) checkQuota(ctx context.Context, settings setting.Settings, userID string, start, end time.Time) error {
	if settings.MaxLeaveDaysPerYear == 0 {
		return nil
	}
	for year := start.Year(); year <= end.Year(); year++ {
		used, err := s.LeaveRepository.SumDays(ctx, userID, year, approval.StatusApproved)
		if err != nil {
			return fmt.Errorf("failed to sum approved leave days: %w", err)
		}
		if err := leave.CheckQuota(settings, used, leave.DaysInYear(start, end, year)); err != nil {
			return err
		}
	}
	return nil
}

// Create implements leave.LeaveService. Rule failures are reported before
// anything is stored.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !owner.IsActive {
		return leave.LeaveResponse{}, user.ErrUserInactive
	}

	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc := settings.Location()

	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, loc)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	now := s.now()
	if err := leave.CheckNotice(settings, startDate, now); err != nil {
		return leave.LeaveResponse{}, err
	}

	hasOverlap, err := s.LeaveRepository.HasOverlap(ctx, owner.ID, startDate, endDate)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	if hasOverlap {
		return leave.LeaveResponse{}, leave.ErrOverlappingLeave
	}

	if err := s.checkQuota(ctx, settings, owner.ID, startDate, endDate); err != nil {
		return leave.LeaveResponse{}, err
	}

	var attachment *string
	if req.File != nil && req.FileHeader != nil {
		path, err := s.fileService.UploadLeaveAttachment(ctx, owner.DivisionID, owner.ID, startDate, req.File, req.FileHeader.Filename)
		if err != nil {
			return leave.LeaveResponse{}, fmt.Errorf("failed to upload attachment: %w", err)
		}
		attachment = &path
	}

	created, err := s.LeaveRepository.Create(ctx, leave.Leave{
		UserID:         owner.ID,
		Type:           leave.Type(req.LeaveType),
		StartDate:      startDate,
		EndDate:        endDate,
		TotalDays:      leave.InclusiveDays(startDate, endDate),
		Reason:         req.Reason,
		AttachmentPath: attachment,
		Review:         approval.NewReview(),
	})
	if err != nil {
		if attachment != nil {
			_ = s.fileService.DeleteFile(ctx, *attachment)
		}
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave submitted",
		"leave_id", created.ID,
		"user_id", owner.ID,
		"type", created.Type,
		"days", created.TotalDays,
	)

	notificationservice.NotifyAll(ctx, s.notifier, notificationservice.Reviewers(ctx, s.userRepo, created.Subject()), notification.CreateNotificationRequest{
		SenderID: &owner.ID,
		Type:     notification.TypeLeaveSubmitted,
		Title:    "New leave request",
		Message:  fmt.Sprintf("%s requested %d day(s) of %s from %s", owner.Name, created.TotalDays, created.Type, req.StartDate),
		Data:     map[string]interface{}{"leave_id": created.ID},
	})

	return s.toResponse(ctx, created), nil
}

// review loads the leave, applies transition and persists it conditionally.
// A non-nil guard runs under the owner lock right before the write.
func (s *LeaveServiceImpl) review(ctx context.Context, id string, transition func(user.Actor, *leave.Leave) error, guard func(context.Context, leave.Leave) error) (leave.Leave, user.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return leave.Leave{}, actor, err
	}

	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.Leave{}, actor, err
	}

	if err := transition(actor, &l); err != nil {
		return leave.Leave{}, actor, err
	}

	if guard == nil {
		err = s.LeaveRepository.UpdateReview(ctx, l.ID, l.Review)
	} else {
		err = s.LeaveRepository.UpdateReviewChecked(ctx, l.UserID, l.ID, l.Review, func(ctx context.Context) error {
			return guard(ctx, l)
		})
	}
	if err != nil {
		return leave.Leave{}, actor, err
	}

	updated, err := s.LeaveRepository.GetByID(ctx, l.ID)
	if err != nil {
		return leave.Leave{}, actor, err
	}
	return updated, actor, nil
}

func (s *LeaveServiceImpl) notifyOwner(ctx context.Context, l leave.Leave, reviewerID string, t notification.NotificationType, title, message string) {
	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID:    l.UserID,
		RecipientEmail: l.UserEmail,
		SenderID:       &reviewerID,
		Type:           t,
		Title:          title,
		Message:        message,
		Data:           map[string]interface{}{"leave_id": l.ID},
	})
}

// Approve implements leave.LeaveService. The yearly cap is checked again
// because other leaves may have been approved since submission. The check
// and the write hold the owner lock, so parallel approvals cannot both fit.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	var settings setting.Settings
	updated, actor, err := s.review(ctx, req.ID, func(actor user.Actor, l *leave.Leave) error {
		if err := approval.Approve(actor, l.Subject(), &l.Review, s.now(), nil); err != nil {
			return err
		}
		current, err := s.settingService.Current(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		settings = current
		return nil
	}, func(ctx context.Context, l leave.Leave) error {
		return s.checkQuota(ctx, settings, l.UserID, l.StartDate, l.EndDate)
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave approved", "leave_id", updated.ID, "reviewer_id", actor.ID)
	s.notifyOwner(ctx, updated, actor.ID, notification.TypeLeaveApproved,
		"Leave approved",
		fmt.Sprintf("Your leave from %s to %s was approved", updated.StartDate.Format("2006-01-02"), updated.EndDate.Format("2006-01-02")),
	)

	return s.toResponse(ctx, updated), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	updated, actor, err := s.review(ctx, req.ID, func(actor user.Actor, l *leave.Leave) error {
		return approval.Reject(actor, l.Subject(), &l.Review, s.now(), req.Reason)
	}, nil)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave rejected", "leave_id", updated.ID, "reviewer_id", actor.ID)
	s.notifyOwner(ctx, updated, actor.ID, notification.TypeLeaveRejected,
		"Leave rejected",
		fmt.Sprintf("Your leave from %s was rejected: %s", updated.StartDate.Format("2006-01-02"), req.Reason),
	)

	return s.toResponse(ctx, updated), nil
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	leaves, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, s.toResponse(ctx, l))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(responses) - 1
	if len(responses) == 0 {
		start, end = 0, 0
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    fmt.Sprintf("%d-%d of %d", start, end, total),
		Leaves:     responses,
	}, nil
}

// GetMy implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMy(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	filter.UserID = &actor.ID
	filter.Scope = nil
	return s.list(ctx, filter)
}

// ListPending implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPending(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	scope, err := approval.ScopeFor(actor)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	pending := approval.StatusPending.String()
	filter.Status = &pending
	filter.UserID = nil
	filter.Scope = &scope
	return s.list(ctx, filter)
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if !approval.CanView(actor, l.Subject()) {
		return leave.LeaveResponse{}, leave.ErrLeaveNotFound
	}

	return s.toResponse(ctx, l), nil
}

// Quota implements leave.LeaveService. A zero year means the current one.
func (s *LeaveServiceImpl) Quota(ctx context.Context, year int) (leave.QuotaResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return leave.QuotaResponse{}, err
	}

	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return leave.QuotaResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if year == 0 {
		year = settings.Today(s.now()).Year()
	}

	used, err := s.LeaveRepository.SumDays(ctx, actor.ID, year, approval.StatusApproved)
	if err != nil {
		return leave.QuotaResponse{}, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	pending, err := s.LeaveRepository.SumDays(ctx, actor.ID, year, approval.StatusPending)
	if err != nil {
		return leave.QuotaResponse{}, fmt.Errorf("failed to sum pending leave days: %w", err)
	}

	resp := leave.QuotaResponse{
		Year:        year,
		MaxDays:     settings.MaxLeaveDaysPerYear,
		Unlimited:   settings.MaxLeaveDaysPerYear == 0,
		UsedDays:    used,
		PendingDays: pending,
	}
	if !resp.Unlimited {
		remaining := settings.MaxLeaveDaysPerYear - used
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingDays = &remaining
	}
	return resp, nil
}
