package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hadir-app/hadir-backend/internal/domain/auth"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
)

type fakeUserRepo struct {
	user.UserRepository
	users  map[string]user.User
	nextID int
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.nextID++
	u.ID = "new-" + string(rune('0'+r.nextID))
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) LinkGoogleAccount(_ context.Context, googleID string, email string) (user.User, error) {
	for id, u := range r.users {
		if u.Email == email {
			provider := "google"
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			r.users[id] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type storedToken struct {
	userID  string
	revoked bool
}

type fakeTokenRepo struct {
	tokens map[string]*storedToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*storedToken{}}
}

func (r *fakeTokenRepo) CreateRefreshToken(_ context.Context, userID string, token string, _ int64, _ auth.SessionTrackingRequest) error {
	r.tokens[token] = &storedToken{userID: userID}
	return nil
}

func (r *fakeTokenRepo) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	t, ok := r.tokens[token]
	if !ok {
		return "", false, auth.ErrInvalidToken
	}
	return t.userID, t.revoked, nil
}

func (r *fakeTokenRepo) RevokeRefreshToken(_ context.Context, token string) error {
	if t, ok := r.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	for _, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func hash(t *testing.T, password string) *string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(b)
	return &s
}

func newService(users *fakeUserRepo, tokens *fakeTokenRepo) auth.AuthService {
	return NewAuthService(users, tokens, jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour, false), nil)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo(
		user.User{ID: "u-1", Name: "Rina", Email: "rina@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleUser, IsActive: true},
		user.User{ID: "u-2", Email: "gone@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleUser, IsActive: false},
		user.User{ID: "u-3", Email: "google@example.com", Role: user.RoleUser, IsActive: true},
	)
	tokens := newFakeTokenRepo()
	svc := newService(users, tokens)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "rina@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		require.NotNil(t, resp.User)
		assert.Equal(t, "u-1", resp.User.ID)
		assert.Contains(t, tokens.tokens, resp.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "rina@example.com", Password: "nope"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "who@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("deactivated", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "gone@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, user.ErrUserInactive)
	})

	t.Run("google only account", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "google@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLoginWithGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions unknown email as user", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := newService(users, newFakeTokenRepo())

		resp, err := svc.LoginWithGoogle(ctx, auth.GoogleIdentity{GoogleID: "g-1", Email: "New.Person@Example.com", VerifiedEmail: true}, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		require.Len(t, users.users, 1)

		created := users.users[resp.User.ID]
		assert.Equal(t, "new.person@example.com", created.Email)
		assert.Equal(t, "new.person", created.Name)
		assert.Equal(t, user.RoleUser, created.Role)
		assert.True(t, created.IsActive)
		assert.Equal(t, "g-1", *created.OAuthProviderID)
	})

	t.Run("links existing account", func(t *testing.T) {
		users := newFakeUserRepo(user.User{ID: "u-1", Email: "rina@example.com", Role: user.RoleSupervisor, IsActive: true})
		svc := newService(users, newFakeTokenRepo())

		resp, err := svc.LoginWithGoogle(ctx, auth.GoogleIdentity{GoogleID: "g-2", Email: "rina@example.com", VerifiedEmail: true}, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		assert.Equal(t, "supervisor", resp.User.Role)
		assert.Equal(t, "g-2", *users.users["u-1"].OAuthProviderID)
	})

	t.Run("unverified email", func(t *testing.T) {
		svc := newService(newFakeUserRepo(), newFakeTokenRepo())
		_, err := svc.LoginWithGoogle(ctx, auth.GoogleIdentity{GoogleID: "g-3", Email: "x@example.com"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrGoogleEmailNotVerified)
	})

	t.Run("deactivated", func(t *testing.T) {
		gid := "g-4"
		users := newFakeUserRepo(user.User{ID: "u-1", Email: "gone@example.com", IsActive: false, OAuthProviderID: &gid})
		svc := newService(users, newFakeTokenRepo())
		_, err := svc.LoginWithGoogle(ctx, auth.GoogleIdentity{GoogleID: gid, Email: "gone@example.com", VerifiedEmail: true}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, user.ErrUserInactive)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	users := newFakeUserRepo(user.User{ID: "u-1", Email: "rina@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleUser, IsActive: true})
	tokens := newFakeTokenRepo()
	svc := newService(users, tokens)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "rina@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a refresh token.
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	// Logging out twice or with an unknown token is harmless.
	assert.NoError(t, svc.Logout(ctx, login.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, "unknown"))
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	users := newFakeUserRepo(user.User{ID: "u-1", Email: "rina@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleUser, IsActive: true})
	svc := newService(users, newFakeTokenRepo())
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "rina@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	u := users.users["u-1"]
	u.IsActive = false
	users.users["u-1"] = u

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}
