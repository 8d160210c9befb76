package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle signs in a Google identity, provisioning a user-role
	// account on the first login of an unknown email.
	LoginWithGoogle(ctx context.Context, identity GoogleIdentity, session SessionTrackingRequest) (TokenResponse, error)

	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
}
