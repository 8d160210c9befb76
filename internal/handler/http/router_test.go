package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

type fakeUserService struct {
	user.UserService
}

func (fakeUserService) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	return user.ListUserResponse{Users: []user.UserResponse{}}, nil
}

type fakeLeaveService struct {
	leave.LeaveService
}

func (fakeLeaveService) ListPending(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	return leave.ListLeaveResponse{Leaves: []leave.LeaveResponse{}}, nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	clientIPs []string
}

func (f *fakeAttendanceService) CheckIn(ctx context.Context, req attendance.AttendanceRequest) (attendance.AttendanceResponse, error) {
	f.clientIPs = append(f.clientIPs, req.ClientIP)
	return attendance.AttendanceResponse{}, nil
}

func testHandlers(jwtSvc jwt.Service) Handlers {
	authHandler, _, _ := newTestAuthHandler(false)
	return Handlers{
		Auth:         authHandler,
		User:         NewUserHandler(fakeUserService{}),
		Master:       NewMasterHandler(nil, nil, nil),
		Attendance:   NewAttendanceHandler(nil),
		Leave:        NewLeaveHandler(fakeLeaveService{}),
		Logbook:      NewLogbookHandler(nil),
		Report:       NewReportHandler(nil),
		Notification: NewNotificationHandler(nil, jwtSvc),
	}
}

func newTestRouter(t *testing.T) (*chi.Mux, jwt.Service) {
	t.Helper()
	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour, false)

	router := NewRouter(RouterConfig{
		Env:            "test",
		Version:        "test",
		LogLevel:       slog.LevelError,
		AllowedOrigins: []string{"http://localhost:5173"},
	}, jwtSvc, testHandlers(jwtSvc))
	return router, jwtSvc
}

func bearer(t *testing.T, jwtSvc jwt.Service, role user.Role) string {
	t.Helper()
	token, _, err := jwtSvc.GenerateAccessToken(user.User{ID: "u-" + string(role), Role: role})
	require.NoError(t, err)
	return token
}

func serve(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Authentication(t *testing.T) {
	router, jwtSvc := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/users", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/users", "garbage").Code)

	// Refresh tokens are not accepted as access tokens
	refresh, _, err := jwtSvc.GenerateRefreshToken("u-admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/users", refresh).Code)

	admin := bearer(t, jwtSvc, user.RoleAdmin)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/users", admin).Code)

	jwtSvc.RevokeToken(admin)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/users", admin).Code)
}

func TestRouter_RoleGates(t *testing.T) {
	router, jwtSvc := newTestRouter(t)
	employee := bearer(t, jwtSvc, user.RoleUser)
	supervisor := bearer(t, jwtSvc, user.RoleSupervisor)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/v1/users", employee).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/v1/users", supervisor).Code)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/v1/leaves/pending", employee).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/leaves/pending", supervisor).Code)
}

func TestRouter_Fallbacks(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/events", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/events?token=bogus", "").Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.10.20:51234"
	assert.Equal(t, "192.168.10.20", clientIP(req))

	req.RemoteAddr = "10.0.0.7"
	assert.Equal(t, "10.0.0.7", clientIP(req))
}

func TestRouter_ForwardedClientAddress(t *testing.T) {
	hq := []officenetwork.OfficeNetwork{{
		ID:           "hq",
		IPRangeStart: "10.0.0.1",
		IPRangeEnd:   "10.0.0.254",
		IsActive:     true,
	}}

	checkInFrom := func(t *testing.T, trusted []netip.Prefix, remoteAddr string) string {
		jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour, false)
		svc := &fakeAttendanceService{}
		h := testHandlers(jwtSvc)
		h.Attendance = NewAttendanceHandler(svc)
		router := NewRouter(RouterConfig{
			Env:            "test",
			LogLevel:       slog.LevelError,
			TrustedProxies: trusted,
		}, jwtSvc, h)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", strings.NewReader(`{"work_type":"onsite"}`))
		req.RemoteAddr = remoteAddr
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+bearer(t, jwtSvc, user.RoleUser))
		req.Header.Set("X-Forwarded-For", "10.0.0.5")
		req.Header.Set("X-Real-IP", "10.0.0.5")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, svc.clientIPs, 1)
		return svc.clientIPs[0]
	}

	t.Run("direct caller cannot claim an office address", func(t *testing.T) {
		ip := checkInFrom(t, nil, "203.0.113.50:44321")
		assert.Equal(t, "203.0.113.50", ip)
		assert.Nil(t, attendance.MatchLocation(ip, nil, nil, hq))
	})

	t.Run("untrusted peer with proxies configured", func(t *testing.T) {
		ip := checkInFrom(t, []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")}, "203.0.113.50:44321")
		assert.Equal(t, "203.0.113.50", ip)
		assert.Nil(t, attendance.MatchLocation(ip, nil, nil, hq))
	})

	t.Run("trusted proxy forwards the office address", func(t *testing.T) {
		ip := checkInFrom(t, []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")}, "172.16.0.2:5000")
		assert.Equal(t, "10.0.0.5", ip)
		require.NotNil(t, attendance.MatchLocation(ip, nil, nil, hq))
	})
}
