package notification

import (
	"context"
	"log/slog"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
)

// Reviewers resolves who should hear about a new submission: the owner's
// supervisor and division supervisor, or every active admin when the owner
// has neither. Lookup failures are logged and skipped.
func Reviewers(ctx context.Context, users user.UserRepository, s approval.Subject) []user.User {
	seen := map[string]bool{s.OwnerID: true}
	var out []user.User

	for _, id := range []*string{s.OwnerSupervisorID, s.DivisionSupervisorID} {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		u, err := users.GetByID(ctx, *id)
		if err != nil {
			slog.Warn("failed to resolve reviewer", "reviewer_id", *id, "error", err)
			continue
		}
		if u.IsActive {
			out = append(out, u)
		}
	}
	if len(out) > 0 {
		return out
	}

	role := string(user.RoleAdmin)
	active := true
	admins, _, err := users.List(ctx, user.UserFilter{
		Role:      &role,
		IsActive:  &active,
		Page:      1,
		Limit:     100,
		SortBy:    "name",
		SortOrder: "asc",
	})
	if err != nil {
		slog.Warn("failed to list admins for notification", "error", err)
		return nil
	}
	for _, a := range admins {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// NotifyAll sends the same notification to each recipient.
func NotifyAll(ctx context.Context, n notification.Notifier, recipients []user.User, req notification.CreateNotificationRequest) {
	for _, r := range recipients {
		email := r.Email
		req.RecipientID = r.ID
		req.RecipientEmail = &email
		n.Notify(ctx, req)
	}
}
