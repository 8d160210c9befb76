package logbook

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/logbook"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

type memoryLogbookRepo struct {
	logbook.LogbookRepository
	users   map[string]user.User
	entries map[string]logbook.Logbook
}

func (r *memoryLogbookRepo) Create(ctx context.Context, l logbook.Logbook) (logbook.Logbook, error) {
	l.ID = fmt.Sprintf("lb-%d", len(r.entries)+1)
	r.entries[l.ID] = l
	return r.GetByID(ctx, l.ID)
}

func (r *memoryLogbookRepo) GetByID(_ context.Context, id string) (logbook.Logbook, error) {
	l, ok := r.entries[id]
	if !ok {
		return logbook.Logbook{}, logbook.ErrLogbookNotFound
	}
	owner := r.users[l.UserID]
	l.UserEmail = &owner.Email
	l.SupervisorID = owner.SupervisorID
	return l, nil
}

func (r *memoryLogbookRepo) UpdateContent(ctx context.Context, l logbook.Logbook) (logbook.Logbook, error) {
	if !r.entries[l.ID].Review.IsPending() {
		return logbook.Logbook{}, approval.ErrNotPending
	}
	r.entries[l.ID] = l
	return r.GetByID(ctx, l.ID)
}

func (r *memoryLogbookRepo) UpdateReview(_ context.Context, id string, review approval.Review) error {
	l := r.entries[id]
	if !l.Review.IsPending() {
		return approval.ErrNotPending
	}
	l.Review = review
	r.entries[id] = l
	return nil
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fixedSettings struct {
	setting.SettingService
}

func (fixedSettings) Current(context.Context) (setting.Settings, error) {
	return setting.DefaultSettings(), nil
}

type recordingNotifier struct {
	sent []notification.CreateNotificationRequest
}

func (n *recordingNotifier) Notify(_ context.Context, req notification.CreateNotificationRequest) {
	n.sent = append(n.sent, req)
}

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*LogbookServiceImpl, *recordingNotifier) {
	t.Helper()
	users := map[string]user.User{
		"sup": {ID: "sup", Name: "Sari", Email: "sari@example.com", Role: user.RoleSupervisor, IsActive: true},
		"u1":  {ID: "u1", Name: "Budi", Email: "budi@example.com", Role: user.RoleUser, SupervisorID: strPtr("sup"), IsActive: true},
	}
	notifier := &recordingNotifier{}
	repo := &memoryLogbookRepo{users: users, entries: map[string]logbook.Logbook{}}

	svc := NewLogbookService(repo, &fakeUserRepo{users: users}, fixedSettings{}, notifier).(*LogbookServiceImpl)
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, time.March, 4, 18, 0, 0, 0, loc) }
	return svc, notifier
}

func as(id string, role user.Role) context.Context {
	return jwt.WithActor(context.Background(), user.Actor{ID: id, Role: role})
}

func entry(date string) logbook.CreateLogbookRequest {
	return logbook.CreateLogbookRequest{Date: date, Time: "16:30", Description: " wrote the release notes "}
}

func TestCreate(t *testing.T) {
	svc, notifier := newService(t)

	resp, err := svc.Create(as("u1", user.RoleUser), entry("2025-03-04"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "wrote the release notes", resp.Description)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "sup", notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLogbookSubmitted, notifier.sent[0].Type)

	_, err = svc.Create(as("u1", user.RoleUser), entry("2025-03-05"))
	assert.ErrorIs(t, err, logbook.ErrFutureDate)
}

func TestUpdate_OwnerWhilePending(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.Create(as("u1", user.RoleUser), entry("2025-03-03"))
	require.NoError(t, err)

	desc := "updated"
	_, err = svc.Update(as("sup", user.RoleSupervisor), logbook.UpdateLogbookRequest{ID: created.ID, Description: &desc})
	assert.ErrorIs(t, err, logbook.ErrNotOwner)

	resp, err := svc.Update(as("u1", user.RoleUser), logbook.UpdateLogbookRequest{ID: created.ID, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "updated", resp.Description)
	assert.Equal(t, "16:30", resp.Time)

	_, err = svc.Approve(as("sup", user.RoleSupervisor), logbook.ApproveLogbookRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = svc.Update(as("u1", user.RoleUser), logbook.UpdateLogbookRequest{ID: created.ID, Description: &desc})
	assert.ErrorIs(t, err, approval.ErrNotPending)
}

func TestApproveWithFeedback(t *testing.T) {
	svc, notifier := newService(t)
	created, err := svc.Create(as("u1", user.RoleUser), entry("2025-03-03"))
	require.NoError(t, err)
	notifier.sent = nil

	resp, err := svc.Approve(as("sup", user.RoleSupervisor), logbook.ApproveLogbookRequest{ID: created.ID, Feedback: strPtr("nice")})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "nice", *resp.Feedback)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "u1", notifier.sent[0].RecipientID)
	assert.Equal(t, "budi@example.com", *notifier.sent[0].RecipientEmail)

	_, err = svc.Approve(as("sup", user.RoleSupervisor), logbook.ApproveLogbookRequest{ID: created.ID})
	assert.ErrorIs(t, err, approval.ErrNotPending)
}

func TestReject(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.Create(as("u1", user.RoleUser), entry("2025-03-03"))
	require.NoError(t, err)

	_, err = svc.Reject(as("sup", user.RoleSupervisor), logbook.RejectLogbookRequest{ID: created.ID})
	assert.ErrorIs(t, err, approval.ErrMissingReason)

	_, err = svc.Reject(as("other", user.RoleSupervisor), logbook.RejectLogbookRequest{ID: created.ID, Reason: "vague"})
	assert.ErrorIs(t, err, approval.ErrUnauthorized)

	resp, err := svc.Reject(as("sup", user.RoleSupervisor), logbook.RejectLogbookRequest{ID: created.ID, Reason: "vague"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, "vague", *resp.RejectionReason)
}

func TestGet_HidesOtherUsersEntries(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.Create(as("u1", user.RoleUser), entry("2025-03-03"))
	require.NoError(t, err)

	_, err = svc.Get(as("u2", user.RoleUser), created.ID)
	assert.ErrorIs(t, err, logbook.ErrLogbookNotFound)

	_, err = svc.Get(as("sup", user.RoleSupervisor), created.ID)
	assert.NoError(t, err)
}
