package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by both token kinds. Refresh tokens only set ID.
type Claims struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig holds signing secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenIssuer creates and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (i *TokenIssuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccessToken signs a short-lived token carrying id, email and username.
func (i *TokenIssuer) IssueAccessToken(userID, email, username string) (string, error) {
	return i.sign(Claims{ID: userID, Email: email, Username: username}, i.accessSecret, i.accessTTL)
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (i *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	return i.sign(Claims{ID: userID}, i.refreshSecret, i.refreshTTL)
}

// VerifyAccessToken verifies a token against the access secret.
func (i *TokenIssuer) VerifyAccessToken(token string) (*Claims, error) {
	return i.Verify(token, i.accessSecret)
}

// VerifyRefreshToken verifies a token against the refresh secret.
func (i *TokenIssuer) VerifyRefreshToken(token string) (*Claims, error) {
	return i.Verify(token, i.refreshSecret)
}

// Verify checks signature and expiry. Expiration is reported as
// ErrTokenExpired, every other failure as ErrTokenInvalid.
func (i *TokenIssuer) Verify(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (i *TokenIssuer) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		// Unique per token so that two tokens minted within the same second differ.
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
