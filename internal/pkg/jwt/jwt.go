package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
)

var ErrMissingActor = errors.New("missing or invalid access token claims")

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	ValidateRefreshToken(tokenString string) (userID string, err error)
	GenerateSSEToken(userID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
	revokedTokens          map[string]int64
	mu                     sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration, refreshTokenExpiration time.Duration, secureCookie bool) Service {
	return &JWTService{
		accessTokenExpiration:  accessTokenExpiration,
		refreshTokenExpiration: refreshTokenExpiration,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:          make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":       u.ID,
		"email":         u.Email,
		"role":          string(u.Role),
		"division_id":   valueOrNil(u.DivisionID),
		"supervisor_id": valueOrNil(u.SupervisorID),
		"type":          "access",
		"exp":           expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"jti":     uuid.New().String(),
		"type":    "refresh",
	})
	return tokenString, expiresAt, err
}

// ValidateRefreshToken verifies signature, expiry and type of a refresh token.
func (j *JWTService) ValidateRefreshToken(tokenString string) (userID string, err error) {
	return j.validateTyped(tokenString, "refresh")
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(userID string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "sse",
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the user ID
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, err error) {
	return j.validateTyped(tokenString, "sse")
}

func (j *JWTService) validateTyped(tokenString, want string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != want {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

// ActorFromContext reads the caller set by the jwtauth Verifier.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, ErrMissingActor
	}

	if t, _ := claims["type"].(string); t != "access" {
		return user.Actor{}, ErrMissingActor
	}

	id, _ := claims["user_id"].(string)
	if id == "" {
		return user.Actor{}, ErrMissingActor
	}
	role, _ := claims["role"].(string)

	return user.Actor{
		ID:           id,
		Role:         user.Role(role),
		DivisionID:   stringClaim(claims, "division_id"),
		SupervisorID: stringClaim(claims, "supervisor_id"),
	}, nil
}

// WithActor returns a context carrying an access token for a. Used by
// background jobs and tests that call services outside an HTTP request.
func WithActor(ctx context.Context, a user.Actor) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", a.ID)
	_ = token.Set("role", string(a.Role))
	_ = token.Set("type", "access")
	if a.DivisionID != nil {
		_ = token.Set("division_id", *a.DivisionID)
	}
	if a.SupervisorID != nil {
		_ = token.Set("supervisor_id", *a.SupervisorID)
	}
	return jwtauth.NewContext(ctx, token, nil)
}

func stringClaim(claims map[string]interface{}, key string) *string {
	v, ok := claims[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
