package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSecretRequired indicates no signing secret was configured outside
	// development mode.
	ErrSecretRequired = errors.New("jwt: signing secret is required")
	// ErrTokenExpired indicates the token elapsed its validity window.
	ErrTokenExpired = errors.New("jwt: token expired")
	// ErrTokenMalformed indicates the token could not be parsed.
	ErrTokenMalformed = errors.New("jwt: token malformed")
	// ErrTokenSignature indicates the token signature does not verify.
	ErrTokenSignature = errors.New("jwt: signature invalid")
)

// devFallbackSecret is the fixed secret used when no secret is configured in
// development mode. Never valid for production; NewTokenService refuses to
// start without an explicit secret outside dev mode.
const devFallbackSecret = "jwt"

const (
	defaultAccessTokenTTL  = 5 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenConfig configures the token service.
type TokenConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	DevMode         bool
}

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair bundles a short-lived access token with its refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService mints and verifies stateless HS256 bearer tokens bound to a
// user identity. It holds no per-token state; expiry is encoded in the token.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      func() time.Time
}

// NewTokenService validates the configuration and constructs a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		if !cfg.DevMode {
			return nil, ErrSecretRequired
		}
		secret = devFallbackSecret
	}

	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenTTL
	}

	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTokenTTL
	}

	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock overrides the time source. Intended for tests.
func (s *TokenService) WithClock(clock func() time.Time) *TokenService {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Issue signs an access/refresh token pair for the given user identifier.
func (s *TokenService) Issue(userID string) (TokenPair, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TokenPair{}, fmt.Errorf("jwt: user id is required")
	}

	access, err := s.sign(userID, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.sign(userID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(userID string, ttl time.Duration) (string, error) {
	now := s.clock()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// Failures are reported through the error return, never panicked; the error
// is one of ErrTokenExpired, ErrTokenMalformed, or ErrTokenSignature.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	return claims, nil
}

// AccessTokenTTL exposes the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}
