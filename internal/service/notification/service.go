package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/pkg/sse"
)

// EventName is the SSE event name used for inbox pushes.
const EventName = "notification"

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 2 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	mailer notification.Mailer
	config Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService starts the background workers. mailer may be nil.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, mailer notification.Mailer, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		mailer: mailer,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
		"email", mailer != nil,
	)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.deliver(id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) deliver(workerID int, batch []notification.CreateNotificationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	notifications := make([]*notification.Notification, len(batch))
	for i, req := range batch {
		notifications[i] = newNotification(req)
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("failed to insert notifications", "worker", workerID, "count", len(notifications), "error", err)
		return
	}
	slog.Debug("notifications inserted", "worker", workerID, "count", len(notifications))

	for i, n := range notifications {
		s.push(n)
		s.email(ctx, batch[i])
	}
}

// Notify queues a notification. A full queue falls back to a synchronous insert.
func (s *service) Notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if req.RecipientID == "" {
		return
	}

	select {
	case <-s.stopCh:
		slog.Warn("notification dropped after shutdown", "recipient_id", req.RecipientID, "type", req.Type)
		return
	default:
	}

	select {
	case s.queue <- req:
	default:
		if err := s.directInsert(ctx, req); err != nil {
			slog.Error("failed to insert notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
		}
	}
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := newNotification(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.push(n)
	s.email(ctx, req)
	return nil
}

func (s *service) push(n *notification.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(n.RecipientID, sse.Event{Name: EventName, Data: toResponse(n)})
}

func (s *service) email(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.mailer == nil || req.RecipientEmail == nil || *req.RecipientEmail == "" {
		return
	}
	if err := s.mailer.Send(ctx, *req.RecipientEmail, req.Title, req.Message); err != nil {
		slog.Error("failed to email notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
	}
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Subscribe relays hub events for userID until ctx is done or cancel is called.
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.NotificationResponse, func()) {
	ch, cleanup := s.hub.Subscribe(userID)
	out := make(chan notification.NotificationResponse, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- resp:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes pending notifications and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
