// Package auth holds the server-side credential primitives: the JWT issuer
// used for access and refresh tokens, and the bcrypt password hasher.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Claims is the token payload: the registered claims plus the owning user id
// under the "id" key.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// IssuerConfig carries the signing secret and token lifetimes. Zero TTLs fall
// back to DefaultAccessTokenTTL and DefaultRefreshTokenTTL.
type IssuerConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Issuer signs and verifies HS256 tokens with a process-wide secret.
// It has no mutable state and is safe for concurrent use.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(cfg IssuerConfig) *Issuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Issuer{
		secret:     cfg.Secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
}

// IssueAccessToken returns a short-lived token for userID.
func (i *Issuer) IssueAccessToken(userID string) (string, error) {
	return i.generate(userID, i.accessTTL)
}

// IssueRefreshToken returns a long-lived token for userID.
func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	return i.generate(userID, i.refreshTTL)
}

// RefreshTTL is the lifetime given to refresh tokens.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// RefreshLabel is RefreshTTL rendered as a record label, e.g. "30d".
func (i *Issuer) RefreshLabel() string { return timex.Label(i.refreshTTL) }

// Now is the issuer's clock.
func (i *Issuer) Now() time.Time { return i.now() }

func (i *Issuer) generate(userID string, validity time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims. It fails with
// common.ErrTokenExpired once exp has passed and with common.ErrInvalidToken
// for every other problem.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken verifies tokenString and returns the user id it carries.
func (i *Issuer) GetUserIDFromToken(tokenString string) (string, error) {
	claims, err := i.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
