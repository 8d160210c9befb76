package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/hadir-app/hadir-backend/internal/handler/http/middleware"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

// RouterConfig carries the deployment details the router needs.
type RouterConfig struct {
	Env            string
	Version        string
	LogLevel       slog.Level
	AllowedOrigins []string
	// UploadsPrefix is the path local uploads are served under, empty to disable
	UploadsPrefix string
	// TrustedProxies may report the client address in forwarded headers
	TrustedProxies []netip.Prefix
}

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Master       MasterHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Logbook      LogbookHandler
	Report       ReportHandler
	Notification NotificationHandler
	File         FileHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hadir"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	// Office IP matching depends on the real client address. Forwarded
	// headers count only when they come from a trusted proxy.
	r.Use(middleware.TrustedRealIP(cfg.TrustedProxies))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsPrefix != "" && h.File != nil {
		r.Get(cfg.UploadsPrefix+"/*", h.File.Serve)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/google", func(r chi.Router) {
				r.Get("/", h.Auth.LoginWithGoogle)
				r.Get("/callback", h.Auth.OAuthCallbackGoogle)
			})
		})

		// SSE authenticates with its own short-lived token
		r.Get("/events", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/events/token", h.Notification.GetSSEToken)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.User.GetProfile)
				r.Put("/", h.User.UpdateProfile)
				r.Post("/avatar", h.User.UploadAvatar)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.Get("/{id}", h.Attendance.Get)

				r.With(middleware.RequireReviewer).Get("/", h.Attendance.List)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.Create)
				r.Get("/my", h.Leave.GetMy)
				r.Get("/quota", h.Leave.Quota)
				r.Get("/{id}", h.Leave.Get)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/pending", h.Leave.ListPending)
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/logbooks", func(r chi.Router) {
				r.Post("/", h.Logbook.Create)
				r.Get("/my", h.Logbook.GetMy)
				r.Get("/{id}", h.Logbook.Get)
				r.Put("/{id}", h.Logbook.Update)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/pending", h.Logbook.ListPending)
					r.Post("/{id}/approve", h.Logbook.Approve)
					r.Post("/{id}/reject", h.Logbook.Reject)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireReviewer)
				r.Get("/attendance/monthly", h.Report.GetMonthlyAttendanceReport)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Put("/read", h.Notification.MarkAsRead)
				r.Put("/read-all", h.Notification.MarkAllAsRead)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Get("/{id}", h.User.Get)
					r.Put("/{id}", h.User.Update)
					r.Post("/{id}/activate", h.User.Activate)
					r.Post("/{id}/deactivate", h.User.Deactivate)
				})

				r.Route("/divisions", func(r chi.Router) {
					r.Get("/", h.Master.ListDivisions)
					r.Post("/", h.Master.CreateDivision)
					r.Get("/{id}", h.Master.GetDivision)
					r.Put("/{id}", h.Master.UpdateDivision)
					r.Delete("/{id}", h.Master.DeleteDivision)
					r.Get("/{id}/members", h.Master.ListDivisionMembers)
				})

				r.Route("/office-networks", func(r chi.Router) {
					r.Get("/", h.Master.ListOfficeNetworks)
					r.Post("/", h.Master.CreateOfficeNetwork)
					r.Get("/{id}", h.Master.GetOfficeNetwork)
					r.Put("/{id}", h.Master.UpdateOfficeNetwork)
					r.Delete("/{id}", h.Master.DeleteOfficeNetwork)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", h.Master.ListSettings)
					r.Get("/{key}", h.Master.GetSetting)
					r.Put("/{key}", h.Master.UpdateSetting)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
