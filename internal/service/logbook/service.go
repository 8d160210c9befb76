package logbook

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/logbook"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	notificationservice "github.com/hadir-app/hadir-backend/internal/service/notification"
)

type LogbookServiceImpl struct {
	logbook.LogbookRepository
	userRepo       user.UserRepository
	settingService setting.SettingService
	notifier       notification.Notifier
	now            func() time.Time
}

func NewLogbookService(
	logbookRepo logbook.LogbookRepository,
	userRepo user.UserRepository,
	settingService setting.SettingService,
	notifier notification.Notifier,
) logbook.LogbookService {
	return &LogbookServiceImpl{
		LogbookRepository: logbookRepo,
		userRepo:          userRepo,
		settingService:    settingService,
		notifier:          notifier,
		now:               time.Now,
	}
}

func toResponse(l logbook.Logbook) logbook.LogbookResponse {
	var reviewedAt *string
	if t := l.Review.ReviewedAt(); t != nil {
		s := t.Format(time.RFC3339)
		reviewedAt = &s
	}
	return logbook.LogbookResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		UserName:        l.UserName,
		DivisionName:    l.DivisionName,
		Date:            l.Date.Format("2006-01-02"),
		Time:            l.Time,
		Description:     l.Description,
		Activity:        l.Activity,
		Location:        l.Location,
		Status:          l.Review.Status().String(),
		ReviewedBy:      l.Review.ReviewedBy(),
		ReviewerName:    l.ReviewerName,
		ReviewedAt:      reviewedAt,
		Feedback:        l.Review.Feedback(),
		RejectionReason: l.Review.RejectionReason(),
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

// Create implements logbook.LogbookService.
func (s *LogbookServiceImpl) Create(ctx context.Context, req logbook.CreateLogbookRequest) (logbook.LogbookResponse, error) {
	if err := req.Validate(); err != nil {
		return logbook.LogbookResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}
	if !owner.IsActive {
		return logbook.LogbookResponse{}, user.ErrUserInactive
	}

	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return logbook.LogbookResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, settings.Location())
	if err != nil {
		return logbook.LogbookResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if date.After(settings.Today(s.now())) {
		return logbook.LogbookResponse{}, logbook.ErrFutureDate
	}

	created, err := s.LogbookRepository.Create(ctx, logbook.Logbook{
		UserID:      owner.ID,
		Date:        date,
		Time:        req.Time,
		Description: req.Description,
		Activity:    req.Activity,
		Location:    req.Location,
		Review:      approval.NewReview(),
	})
	if err != nil {
		return logbook.LogbookResponse{}, err
	}

	slog.Info("logbook submitted", "logbook_id", created.ID, "user_id", owner.ID, "date", req.Date)

	notificationservice.NotifyAll(ctx, s.notifier, notificationservice.Reviewers(ctx, s.userRepo, created.Subject()), notification.CreateNotificationRequest{
		SenderID: &owner.ID,
		Type:     notification.TypeLogbookSubmitted,
		Title:    "New logbook entry",
		Message:  fmt.Sprintf("%s submitted a logbook entry for %s", owner.Name, req.Date),
		Data:     map[string]interface{}{"logbook_id": created.ID},
	})

	return toResponse(created), nil
}

// Update implements logbook.LogbookService. Only the author may edit, and
// only while the entry is pending.
func (s *LogbookServiceImpl) Update(ctx context.Context, req logbook.UpdateLogbookRequest) (logbook.LogbookResponse, error) {
	if err := req.Validate(); err != nil {
		return logbook.LogbookResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}

	existing, err := s.LogbookRepository.GetByID(ctx, req.ID)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}
	if existing.UserID != actor.ID {
		return logbook.LogbookResponse{}, logbook.ErrNotOwner
	}
	if !existing.Review.IsPending() {
		return logbook.LogbookResponse{}, approval.ErrNotPending
	}

	if req.Time != nil {
		existing.Time = *req.Time
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Activity != nil {
		existing.Activity = req.Activity
	}
	if req.Location != nil {
		existing.Location = req.Location
	}

	updated, err := s.LogbookRepository.UpdateContent(ctx, existing)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *LogbookServiceImpl) review(ctx context.Context, id string, transition func(user.Actor, *logbook.Logbook) error) (logbook.Logbook, user.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return logbook.Logbook{}, actor, err
	}

	l, err := s.LogbookRepository.GetByID(ctx, id)
	if err != nil {
		return logbook.Logbook{}, actor, err
	}

	if err := transition(actor, &l); err != nil {
		return logbook.Logbook{}, actor, err
	}

	if err := s.LogbookRepository.UpdateReview(ctx, l.ID, l.Review); err != nil {
		return logbook.Logbook{}, actor, err
	}

	updated, err := s.LogbookRepository.GetByID(ctx, l.ID)
	if err != nil {
		return logbook.Logbook{}, actor, err
	}
	return updated, actor, nil
}

// Approve implements logbook.LogbookService.
func (s *LogbookServiceImpl) Approve(ctx context.Context, req logbook.ApproveLogbookRequest) (logbook.LogbookResponse, error) {
	updated, actor, err := s.review(ctx, req.ID, func(actor user.Actor, l *logbook.Logbook) error {
		return approval.Approve(actor, l.Subject(), &l.Review, s.now(), req.Feedback)
	})
	if err != nil {
		return logbook.LogbookResponse{}, err
	}

	slog.Info("logbook approved", "logbook_id", updated.ID, "reviewer_id", actor.ID)
	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID:    updated.UserID,
		RecipientEmail: updated.UserEmail,
		SenderID:       &actor.ID,
		Type:           notification.TypeLogbookApproved,
		Title:          "Logbook approved",
		Message:        fmt.Sprintf("Your logbook entry for %s was approved", updated.Date.Format("2006-01-02")),
		Data:           map[string]interface{}{"logbook_id": updated.ID},
	})

	return toResponse(updated), nil
}

// Reject implements logbook.LogbookService.
func (s *LogbookServiceImpl) Reject(ctx context.Context, req logbook.RejectLogbookRequest) (logbook.LogbookResponse, error) {
	updated, actor, err := s.review(ctx, req.ID, func(actor user.Actor, l *logbook.Logbook) error {
		return approval.Reject(actor, l.Subject(), &l.Review, s.now(), req.Reason)
	})
	if err != nil {
		return logbook.LogbookResponse{}, err
	}

	slog.Info("logbook rejected", "logbook_id", updated.ID, "reviewer_id", actor.ID)
	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID:    updated.UserID,
		RecipientEmail: updated.UserEmail,
		SenderID:       &actor.ID,
		Type:           notification.TypeLogbookRejected,
		Title:          "Logbook rejected",
		Message:        fmt.Sprintf("Your logbook entry for %s was rejected: %s", updated.Date.Format("2006-01-02"), req.Reason),
		Data:           map[string]interface{}{"logbook_id": updated.ID},
	})

	return toResponse(updated), nil
}

func (s *LogbookServiceImpl) list(ctx context.Context, filter logbook.LogbookFilter) (logbook.ListLogbookResponse, error) {
	entries, total, err := s.LogbookRepository.List(ctx, filter)
	if err != nil {
		return logbook.ListLogbookResponse{}, err
	}

	responses := make([]logbook.LogbookResponse, 0, len(entries))
	for _, l := range entries {
		responses = append(responses, toResponse(l))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(responses) - 1
	if len(responses) == 0 {
		start, end = 0, 0
	}

	return logbook.ListLogbookResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    fmt.Sprintf("%d-%d of %d", start, end, total),
		Logbooks:   responses,
	}, nil
}

// GetMy implements logbook.LogbookService.
func (s *LogbookServiceImpl) GetMy(ctx context.Context, filter logbook.LogbookFilter) (logbook.ListLogbookResponse, error) {
	if err := filter.Validate(); err != nil {
		return logbook.ListLogbookResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return logbook.ListLogbookResponse{}, err
	}

	filter.UserID = &actor.ID
	filter.Scope = nil
	return s.list(ctx, filter)
}

// ListPending implements logbook.LogbookService.
func (s *LogbookServiceImpl) ListPending(ctx context.Context, filter logbook.LogbookFilter) (logbook.ListLogbookResponse, error) {
	if err := filter.Validate(); err != nil {
		return logbook.ListLogbookResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return logbook.ListLogbookResponse{}, err
	}

	scope, err := approval.ScopeFor(actor)
	if err != nil {
		return logbook.ListLogbookResponse{}, err
	}

	pending := approval.StatusPending.String()
	filter.Status = &pending
	filter.UserID = nil
	filter.Scope = &scope
	return s.list(ctx, filter)
}

// Get implements logbook.LogbookService.
func (s *LogbookServiceImpl) Get(ctx context.Context, id string) (logbook.LogbookResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}

	l, err := s.LogbookRepository.GetByID(ctx, id)
	if err != nil {
		return logbook.LogbookResponse{}, err
	}
	if !approval.CanView(actor, l.Subject()) {
		return logbook.LogbookResponse{}, logbook.ErrLogbookNotFound
	}

	return toResponse(l), nil
}
