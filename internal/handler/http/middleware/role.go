package middleware

import (
	"net/http"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

// RequireReviewer requires supervisor or admin role. Which requests a
// reviewer may act on is decided by the services.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := jwt.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !actor.IsReviewer() {
			response.HandleError(w, user.ErrReviewerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

