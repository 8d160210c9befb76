package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hadir-app/hadir-backend/internal/domain/auth"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
)

const providerGoogle = "google"

type AuthServiceImpl struct {
	user.UserRepository
	auth.RefreshTokenRepository
	jwt.Service
	storage storage.FileStorage
}

func NewAuthService(userRepository user.UserRepository, refreshTokenRepository auth.RefreshTokenRepository, jwtService jwt.Service, fileStorage storage.FileStorage) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:         userRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
		storage:                fileStorage,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Google-only accounts have no password
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	return a.issueTokens(ctx, userData, session)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, identity auth.GoogleIdentity, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if !identity.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrGoogleEmailNotVerified
	}
	email := strings.ToLower(strings.TrimSpace(identity.Email))

	userData, err := a.UserRepository.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		provider := providerGoogle
		googleID := identity.GoogleID
		userData, err = a.UserRepository.Create(ctx, user.User{
			Name:            displayName(identity.Name, email),
			Email:           email,
			Role:            user.RoleUser,
			IsActive:        true,
			OAuthProvider:   &provider,
			OAuthProviderID: &googleID,
		})
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("provisioned user from google login", "user_id", userData.ID)
	case err != nil:
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	case userData.OAuthProviderID == nil:
		userData, err = a.UserRepository.LinkGoogleAccount(ctx, identity.GoogleID, email)
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
	}

	if !userData.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	return a.issueTokens(ctx, userData, session)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	_, revoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil
		}
		return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
	}
	if revoked {
		return nil
	}
	if err := a.RefreshTokenRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	// 1. Verify signature, expiry and token type
	if _, err := a.Service.ValidateRefreshToken(req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check revocation against the stored hash
	userID, revoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Reload the user so role and assignment changes reach the new token
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, user.ErrUserInactive
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return resp, nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.RefreshTokenRepository.CreateRefreshToken(ctx, u.ID, resp.RefreshToken, resp.RefreshTokenExpiresIn, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	userResp := user.NewUserResponse(u, storage.URLOf(ctx, a.storage, u.AvatarPath))
	resp.User = &userResp

	return resp, nil
}

func displayName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
