package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/infra/security"
)

func newTestTokenService(t *testing.T) *security.TokenService {
	t.Helper()

	tokens, err := security.NewTokenService(security.TokenConfig{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return tokens
}

func TestLoginIssuesTokenPair(t *testing.T) {
	users := newUserRepoMock(domain.User{
		ID:       "user-1",
		Username: "alice",
		Password: "e10adc3949ba59abbe56e057f20f883e",
	})
	svc := NewAuthService(users, newTestTokenService(t))

	pair, _, err := svc.Login(context.Background(), "alice", "e10adc3949ba59abbe56e057f20f883e")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}

	userID, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("want user-1, got %q", userID)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(newUserRepoMock(), newTestTokenService(t))

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", Username: "alice", Password: "righthash"})
	svc := NewAuthService(users, newTestTokenService(t))

	_, _, err := svc.Login(context.Background(), "alice", "wronghash")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", Username: "alice", Password: "hash"})
	svc := NewAuthService(users, newTestTokenService(t))

	pair, _, err := svc.Login(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if renewed.AccessToken == "" || renewed.RefreshToken == "" {
		t.Fatal("expected a full pair from refresh")
	}
}

func TestRefreshRejectsAfterUserDeleted(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", Username: "alice", Password: "hash"})
	svc := NewAuthService(users, newTestTokenService(t))

	pair, _, err := svc.Login(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	delete(users.users, "user-1")

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newUserRepoMock(), newTestTokenService(t))

	_, err := svc.Refresh(context.Background(), "not-a-token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("want ErrInvalidRefreshToken, got %v", err)
	}
}

// An access token that was valid at issue time is rejected with the expiry
// error once the clock moves past its lifetime.
func TestParseAccessTokenExpired(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", Username: "alice", Password: "hash"})

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret:         "test-secret",
		AccessTokenTTL: 5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	tokens.WithClock(func() time.Time { return now })

	svc := NewAuthService(users, tokens)

	pair, _, err := svc.Login(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	now = issuedAt.Add(5*time.Minute + time.Second)

	_, err = svc.ParseAccessToken(pair.AccessToken)
	if !errors.Is(err, ErrExpiredAccessToken) {
		t.Fatalf("want ErrExpiredAccessToken, got %v", err)
	}
}

func TestParseAccessTokenMalformed(t *testing.T) {
	svc := NewAuthService(newUserRepoMock(), newTestTokenService(t))

	_, err := svc.ParseAccessToken("garbage")
	if !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("want ErrInvalidAccessToken, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", Username: "alice", Password: "hash"})
	svc := NewAuthService(users, newTestTokenService(t))

	user, err := svc.CurrentUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := svc.CurrentUser(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

// Refresh tokens are stateless: a failed attempt with a corrupted token must
// not consume or invalidate the real one, and the real one stays valid after
// it has already been exchanged once.
func TestRefreshTokenSurvivesFailedAndRepeatedUse(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", Username: "alice", Password: "hash"})
	svc := NewAuthService(users, newTestTokenService(t))

	pair, _, err := svc.Login(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	corrupted := pair.RefreshToken + "x"
	if _, err := svc.Refresh(context.Background(), corrupted); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("want ErrInvalidRefreshToken for corrupted token, got %v", err)
	}

	first, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh after failed attempt: %v", err)
	}
	if first.AccessToken == "" || first.RefreshToken == "" {
		t.Fatal("expected a full pair from refresh")
	}

	second, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("second refresh with the same token: %v", err)
	}
	if second.AccessToken == "" {
		t.Fatal("expected an access token from the repeated refresh")
	}
}
