package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

type memoryLeaveRepo struct {
	leave.LeaveRepository
	users      map[string]user.User
	leaves     map[string]leave.Leave
	lastFilter leave.LeaveFilter
	locked     []string
}

func (r *memoryLeaveRepo) Create(_ context.Context, l leave.Leave) (leave.Leave, error) {
	l.ID = fmt.Sprintf("leave-%d", len(r.leaves)+1)
	r.leaves[l.ID] = l
	return r.GetByID(context.Background(), l.ID)
}

func (r *memoryLeaveRepo) GetByID(_ context.Context, id string) (leave.Leave, error) {
	l, ok := r.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	owner := r.users[l.UserID]
	l.UserName = &owner.Name
	l.UserEmail = &owner.Email
	l.SupervisorID = owner.SupervisorID
	return l, nil
}

func (r *memoryLeaveRepo) UpdateReview(_ context.Context, id string, review approval.Review) error {
	l := r.leaves[id]
	if !l.Review.IsPending() {
		return approval.ErrNotPending
	}
	l.Review = review
	r.leaves[id] = l
	return nil
}

func (r *memoryLeaveRepo) UpdateReviewChecked(ctx context.Context, userID, id string, review approval.Review, check func(context.Context) error) error {
	r.locked = append(r.locked, userID)
	if err := check(ctx); err != nil {
		return err
	}
	return r.UpdateReview(ctx, id, review)
}

func (r *memoryLeaveRepo) List(_ context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	r.lastFilter = filter
	return nil, 0, nil
}

func (r *memoryLeaveRepo) SumDays(_ context.Context, userID string, year int, status approval.Status) (int, error) {
	total := 0
	for _, l := range r.leaves {
		if l.UserID == userID && l.Review.Status() == status {
			total += leave.DaysInYear(l.StartDate, l.EndDate, year)
		}
	}
	return total, nil
}

func (r *memoryLeaveRepo) HasOverlap(_ context.Context, userID string, start, end time.Time) (bool, error) {
	for _, l := range r.leaves {
		if l.UserID != userID || l.Review.Status() == approval.StatusRejected {
			continue
		}
		if !l.StartDate.After(end) && !l.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
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

func (r *fakeUserRepo) List(_ context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range r.users {
		if filter.Role != nil && string(u.Role) == *filter.Role {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

type fixedSettings struct {
	setting.SettingService
	s setting.Settings
}

func (f fixedSettings) Current(context.Context) (setting.Settings, error) {
	return f.s, nil
}

type recordingNotifier struct {
	sent []notification.CreateNotificationRequest
}

func (n *recordingNotifier) Notify(_ context.Context, req notification.CreateNotificationRequest) {
	n.sent = append(n.sent, req)
}

func strPtr(s string) *string { return &s }

type fixture struct {
	svc      *LeaveServiceImpl
	repo     *memoryLeaveRepo
	notifier *recordingNotifier
}

func newFixture(t *testing.T, rows ...setting.AppSetting) fixture {
	t.Helper()
	s, err := setting.Parse(rows)
	require.NoError(t, err)

	users := map[string]user.User{
		"admin": {ID: "admin", Name: "Admin", Email: "admin@example.com", Role: user.RoleAdmin, IsActive: true},
		"sup":   {ID: "sup", Name: "Sari", Email: "sari@example.com", Role: user.RoleSupervisor, IsActive: true},
		"u1":    {ID: "u1", Name: "Budi", Email: "budi@example.com", Role: user.RoleUser, SupervisorID: strPtr("sup"), IsActive: true},
		"u2":    {ID: "u2", Name: "Dewi", Email: "dewi@example.com", Role: user.RoleUser, IsActive: true},
	}
	repo := &memoryLeaveRepo{users: users, leaves: map[string]leave.Leave{}}
	notifier := &recordingNotifier{}

	svc := NewLeaveService(repo, &fakeUserRepo{users: users}, fixedSettings{s: s}, nil, nil, notifier).(*LeaveServiceImpl)
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, time.March, 4, 9, 0, 0, 0, loc) }

	return fixture{svc: svc, repo: repo, notifier: notifier}
}

func as(id string, role user.Role) context.Context {
	return jwt.WithActor(context.Background(), user.Actor{ID: id, Role: role})
}

func request(start, end string) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{LeaveType: "cuti", StartDate: start, EndDate: end, Reason: "family"}
}

func TestCreate_SubmitsPendingAndNotifiesSupervisor(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(as("u1", user.RoleUser), request("2025-03-10", "2025-03-12"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "leave", resp.LeaveType)
	assert.Equal(t, 3, resp.TotalDays)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "sup", f.notifier.sent[0].RecipientID)
	assert.Equal(t, "sari@example.com", *f.notifier.sent[0].RecipientEmail)
	assert.Equal(t, notification.TypeLeaveSubmitted, f.notifier.sent[0].Type)
}

func TestCreate_WithoutSupervisorNotifiesAdmins(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(as("u2", user.RoleUser), request("2025-03-10", "2025-03-10"))
	require.NoError(t, err)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "admin", f.notifier.sent[0].RecipientID)
}

func TestCreate_Rules(t *testing.T) {
	t.Run("insufficient notice", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(as("u1", user.RoleUser), request("2025-03-05", "2025-03-05"))
		assert.ErrorIs(t, err, leave.ErrInsufficientNotice)
		assert.Empty(t, f.repo.leaves)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("notice waived without approval", func(t *testing.T) {
		f := newFixture(t, setting.AppSetting{Key: setting.KeyLeaveRequireApproval, Value: "false", Type: setting.TypeBoolean})
		_, err := f.svc.Create(as("u1", user.RoleUser), request("2025-03-05", "2025-03-05"))
		assert.NoError(t, err)
	})

	t.Run("overlap", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(as("u1", user.RoleUser), request("2025-03-10", "2025-03-12"))
		require.NoError(t, err)
		_, err = f.svc.Create(as("u1", user.RoleUser), request("2025-03-12", "2025-03-14"))
		assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
	})

	t.Run("quota counts approved days only", func(t *testing.T) {
		f := newFixture(t)
		ctx := as("u1", user.RoleUser)

		first, err := f.svc.Create(ctx, request("2025-04-01", "2025-04-10"))
		require.NoError(t, err)

		// Pending days do not count against the cap.
		_, err = f.svc.Create(ctx, request("2025-05-01", "2025-05-03"))
		require.NoError(t, err)

		_, err = f.svc.Approve(as("sup", user.RoleSupervisor), leave.ApproveLeaveRequest{ID: first.ID})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, request("2025-06-01", "2025-06-03"))
		assert.ErrorIs(t, err, leave.ErrQuotaExceeded)

		_, err = f.svc.Create(ctx, request("2025-06-01", "2025-06-02"))
		assert.NoError(t, err)
	})
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as("u1", user.RoleUser), request("2025-03-10", "2025-03-11"))
	require.NoError(t, err)
	f.notifier.sent = nil

	_, err = f.svc.Approve(as("u2", user.RoleUser), leave.ApproveLeaveRequest{ID: created.ID})
	assert.ErrorIs(t, err, approval.ErrUnauthorized)

	_, err = f.svc.Approve(as("u1", user.RoleAdmin), leave.ApproveLeaveRequest{ID: created.ID})
	assert.ErrorIs(t, err, approval.ErrUnauthorized, "nobody reviews their own leave")

	_, err = f.svc.Reject(as("sup", user.RoleSupervisor), leave.RejectLeaveRequest{ID: created.ID, Reason: "  "})
	assert.ErrorIs(t, err, approval.ErrMissingReason)

	resp, err := f.svc.Approve(as("sup", user.RoleSupervisor), leave.ApproveLeaveRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "sup", *resp.ReviewedBy)
	require.NotNil(t, resp.ReviewedAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "u1", f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveApproved, f.notifier.sent[0].Type)

	_, err = f.svc.Reject(as("admin", user.RoleAdmin), leave.RejectLeaveRequest{ID: created.ID, Reason: "late"})
	assert.ErrorIs(t, err, approval.ErrNotPending)
}

func TestApprove_RechecksQuotaUnderOwnerLock(t *testing.T) {
	f := newFixture(t)
	ctx := as("u1", user.RoleUser)
	sup := as("sup", user.RoleSupervisor)

	// Both fit while pending; together they exceed the 12 day cap.
	first, err := f.svc.Create(ctx, request("2025-04-01", "2025-04-07"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, request("2025-05-01", "2025-05-07"))
	require.NoError(t, err)

	_, err = f.svc.Approve(sup, leave.ApproveLeaveRequest{ID: first.ID})
	require.NoError(t, err)

	_, err = f.svc.Approve(sup, leave.ApproveLeaveRequest{ID: second.ID})
	assert.ErrorIs(t, err, leave.ErrQuotaExceeded)
	assert.Equal(t, []string{"u1", "u1"}, f.repo.locked)
	assert.True(t, f.repo.leaves[second.ID].Review.IsPending(), "rejected check leaves the request pending")

	_, err = f.svc.Reject(sup, leave.RejectLeaveRequest{ID: second.ID, Reason: "over quota"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u1"}, f.repo.locked, "rejection does not take the owner lock")
}

func TestListPending_UsesReviewerScope(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListPending(as("sup", user.RoleSupervisor), leave.LeaveFilter{})
	require.NoError(t, err)
	require.NotNil(t, f.repo.lastFilter.Scope)
	assert.False(t, f.repo.lastFilter.Scope.All)
	assert.Equal(t, "sup", f.repo.lastFilter.Scope.ReviewerID)
	assert.Equal(t, "pending", *f.repo.lastFilter.Status)

	_, err = f.svc.ListPending(as("u1", user.RoleUser), leave.LeaveFilter{})
	assert.ErrorIs(t, err, approval.ErrUnauthorized)

	_, err = f.svc.GetMy(as("u1", user.RoleUser), leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Equal(t, "u1", *f.repo.lastFilter.UserID)
	assert.Nil(t, f.repo.lastFilter.Scope)
}

func TestQuota(t *testing.T) {
	f := newFixture(t)
	ctx := as("u1", user.RoleUser)

	created, err := f.svc.Create(ctx, request("2025-03-10", "2025-03-12"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, request("2025-04-10", "2025-04-11"))
	require.NoError(t, err)
	_, err = f.svc.Approve(as("sup", user.RoleSupervisor), leave.ApproveLeaveRequest{ID: created.ID})
	require.NoError(t, err)

	q, err := f.svc.Quota(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, q.Year)
	assert.Equal(t, 12, q.MaxDays)
	assert.Equal(t, 3, q.UsedDays)
	assert.Equal(t, 2, q.PendingDays)
	require.NotNil(t, q.RemainingDays)
	assert.Equal(t, 9, *q.RemainingDays)
}
