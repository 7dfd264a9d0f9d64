package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/infra/security"
	"github.com/adminkit/rbac-service/internal/repository"
)

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the provided password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken indicates the refresh token is expired, malformed,
	// or otherwise unusable.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidAccessToken indicates the access token is malformed or its
	// signature does not verify.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the access token elapsed its validity
	// window.
	ErrExpiredAccessToken = errors.New("access token expired")
)

// AuthService coordinates login, token refresh, and principal resolution.
//
// Passwords are opaque pre-hashed strings: callers hash client-side and the
// service only compares the stored value against the submitted one.
type AuthService struct {
	users  port.UserRepository
	tokens *security.TokenService
}

// NewAuthService constructs an AuthService.
func NewAuthService(users port.UserRepository, tokens *security.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login validates credentials and issues a fresh token pair alongside the
// authenticated user's record.
func (s *AuthService) Login(ctx context.Context, username, password string) (security.TokenPair, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return security.TokenPair{}, nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return security.TokenPair{}, nil, fmt.Errorf("password is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return security.TokenPair{}, nil, ErrUserNotFound
		}
		return security.TokenPair{}, nil, fmt.Errorf("lookup user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return security.TokenPair{}, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return security.TokenPair{}, nil, fmt.Errorf("issue tokens: %w", err)
	}

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a brand new token pair. Any
// verification failure collapses into ErrInvalidRefreshToken; callers do not
// learn why the token was rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (security.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return security.TokenPair{}, ErrInvalidRefreshToken
	}

	// The subject may have been deleted since the token was minted.
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return security.TokenPair{}, ErrInvalidRefreshToken
		}
		return security.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	pair, err := s.tokens.Issue(claims.UserID)
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}

	return pair, nil
}

// ParseAccessToken verifies an access token and returns the embedded user id.
func (s *AuthService) ParseAccessToken(token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return "", ErrExpiredAccessToken
		}
		return "", ErrInvalidAccessToken
	}
	return claims.UserID, nil
}

// AccessTokenTTL reports how long issued access tokens stay valid. The HTTP
// layer surfaces it so clients can schedule refreshes.
func (s *AuthService) AccessTokenTTL() time.Duration {
	return s.tokens.AccessTokenTTL()
}

// CurrentUser loads the authenticated principal's record.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
