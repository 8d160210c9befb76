package middleware

import (
	"net/http"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := jwt.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !actor.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
