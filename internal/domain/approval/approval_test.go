package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
)

func strPtr(s string) *string { return &s }

var (
	admin      = user.Actor{ID: "admin-1", Role: user.RoleAdmin}
	supervisor = user.Actor{ID: "sup-1", Role: user.RoleSupervisor}
	otherSup   = user.Actor{ID: "sup-2", Role: user.RoleSupervisor}
	employee   = user.Actor{ID: "emp-1", Role: user.RoleUser}
	reviewedAt = time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
)

func TestCanReview(t *testing.T) {
	direct := Subject{OwnerID: "emp-1", OwnerSupervisorID: strPtr("sup-1")}
	byDivision := Subject{OwnerID: "emp-1", DivisionSupervisorID: strPtr("sup-1")}
	unrelated := Subject{OwnerID: "emp-1", OwnerSupervisorID: strPtr("sup-3"), DivisionSupervisorID: strPtr("sup-3")}

	tests := []struct {
		name    string
		actor   user.Actor
		subject Subject
		want    bool
	}{
		{"admin reviews anyone", admin, unrelated, true},
		{"direct supervisor", supervisor, direct, true},
		{"division supervisor", supervisor, byDivision, true},
		{"other supervisor", otherSup, direct, false},
		{"regular user", user.Actor{ID: "sup-1", Role: user.RoleUser}, direct, false},
		{"admin cannot review own entry", admin, Subject{OwnerID: "admin-1"}, false},
		{"supervisor cannot review own entry", supervisor, Subject{OwnerID: "sup-1", DivisionSupervisorID: strPtr("sup-1")}, false},
		{"anonymous", user.Actor{Role: user.RoleAdmin}, direct, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanReview(tt.actor, tt.subject))
		})
	}
}

func TestCanView(t *testing.T) {
	s := Subject{OwnerID: "emp-1", OwnerSupervisorID: strPtr("sup-1")}
	assert.True(t, CanView(employee, s))
	assert.True(t, CanView(supervisor, s))
	assert.False(t, CanView(otherSup, s))
	assert.False(t, CanView(user.Actor{ID: "emp-2", Role: user.RoleUser}, s))
}

func TestApprove(t *testing.T) {
	s := Subject{OwnerID: "emp-1", OwnerSupervisorID: strPtr("sup-1")}

	t.Run("pending to approved", func(t *testing.T) {
		r := NewReview()
		require.NoError(t, Approve(supervisor, s, &r, reviewedAt, strPtr("  good work ")))
		assert.Equal(t, StatusApproved, r.Status())
		assert.Equal(t, "sup-1", *r.ReviewedBy())
		assert.Equal(t, reviewedAt, *r.ReviewedAt())
		assert.Equal(t, "good work", *r.Feedback())
		assert.Nil(t, r.RejectionReason())
	})

	t.Run("blank feedback is dropped", func(t *testing.T) {
		r := NewReview()
		require.NoError(t, Approve(admin, s, &r, reviewedAt, strPtr("   ")))
		assert.Nil(t, r.Feedback())
	})

	t.Run("second approval is refused and keeps the first reviewer", func(t *testing.T) {
		r := NewReview()
		require.NoError(t, Approve(supervisor, s, &r, reviewedAt, nil))

		err := Approve(admin, s, &r, reviewedAt.Add(time.Hour), nil)
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, "sup-1", *r.ReviewedBy())
		assert.Equal(t, reviewedAt, *r.ReviewedAt())
	})

	t.Run("unauthorized reviewer leaves state untouched", func(t *testing.T) {
		r := NewReview()
		err := Approve(otherSup, s, &r, reviewedAt, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, StatusPending, r.Status())
		assert.Nil(t, r.ReviewedBy())
	})
}

func TestReject(t *testing.T) {
	s := Subject{OwnerID: "emp-1", DivisionSupervisorID: strPtr("sup-1")}

	t.Run("pending to rejected", func(t *testing.T) {
		r := NewReview()
		require.NoError(t, Reject(supervisor, s, &r, reviewedAt, " overlapping deadline "))
		assert.Equal(t, StatusRejected, r.Status())
		assert.Equal(t, "overlapping deadline", *r.RejectionReason())
	})

	for _, reason := range []string{"", "   ", "\t\n"} {
		t.Run("blank reason "+`"`+reason+`"`, func(t *testing.T) {
			r := NewReview()
			err := Reject(supervisor, s, &r, reviewedAt, reason)
			assert.ErrorIs(t, err, ErrMissingReason)
			assert.Equal(t, StatusPending, r.Status())
		})
	}

	t.Run("missing reason reported before authority", func(t *testing.T) {
		r := NewReview()
		assert.ErrorIs(t, Reject(employee, s, &r, reviewedAt, ""), ErrMissingReason)
	})

	t.Run("terminal state cannot be rejected", func(t *testing.T) {
		r := RestoreReview(StatusApproved, strPtr("admin-1"), &reviewedAt, nil, nil)
		err := Reject(supervisor, s, &r, reviewedAt.Add(time.Hour), "late")
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, StatusApproved, r.Status())
		assert.Equal(t, "admin-1", *r.ReviewedBy())
	})
}

func TestScope(t *testing.T) {
	_, err := ScopeFor(employee)
	assert.ErrorIs(t, err, ErrUnauthorized)

	sc, err := ScopeFor(supervisor)
	require.NoError(t, err)
	assert.True(t, sc.Includes(Subject{OwnerID: "emp-1", OwnerSupervisorID: strPtr("sup-1")}))
	assert.False(t, sc.Includes(Subject{OwnerID: "emp-1"}))
	assert.False(t, sc.Includes(Subject{OwnerID: "sup-1", DivisionSupervisorID: strPtr("sup-1")}))

	all, err := ScopeFor(admin)
	require.NoError(t, err)
	assert.True(t, all.Includes(Subject{OwnerID: "emp-1"}))
	assert.False(t, all.Includes(Subject{OwnerID: "admin-1"}))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Approved ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)
	assert.True(t, st.IsTerminal())

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
