// Package services contains server-side business logic. This file implements
// AuthService: sign-up, sign-in, sign-out and refresh-token rotation.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 20
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Profile is the public view of a user. It never carries the password hash.
type Profile struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	DisplayName string
}

type SignUpRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type SignInResult struct {
	User   Profile
	Tokens TokenPair
}

// AuthService holds no mutable state of its own and is safe for concurrent
// use as long as its repositories are.
type AuthService struct {
	users         users.Repository
	refreshTokens refreshtokens.Repository
	issuer        *auth.Issuer
	hasher        auth.PasswordHasher
	log           logging.Logger
}

func NewAuthService(u users.Repository, rt refreshtokens.Repository, issuer *auth.Issuer,
	hasher auth.PasswordHasher, log logging.Logger) *AuthService {
	return &AuthService{
		users:         u,
		refreshTokens: rt,
		issuer:        issuer,
		hasher:        hasher,
		log:           log.With("module", "auth_service"),
	}
}

// SignUp validates the request, rejects duplicate emails and stores a new user
// with a hashed password.
//
// The duplicate check and the insert are separate store calls. Two concurrent
// sign-ups with the same email are only kept apart by the store's own
// uniqueness guarantee (the Postgres unique index).
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*Profile, error) {
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, common.ErrMissingFields
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, common.ErrInvalidEmailFormat
	}
	if n := utf8.RuneCountInString(req.Password); n < MinPasswordLength || n > MaxPasswordLength {
		return nil, common.ErrInvalidPasswordLength
	}

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, common.ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "sign_up", "lookup user", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.internal(ctx, "sign_up", "hash password", err)
	}

	now := s.issuer.Now()
	user, err := s.users.Create(ctx, &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		return nil, s.internal(ctx, "sign_up", "create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	p := profileOf(user)
	return &p, nil
}

// SignIn checks credentials and issues a token pair. Unknown email and wrong
// password fail with the same common.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if email == "" || password == "" {
		return nil, common.ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, common.ErrInvalidEmailFormat
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.internal(ctx, "sign_in", "lookup user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, record, err := s.newTokenPair(ctx, "sign_in", user.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, s.internal(ctx, "sign_in", "store refresh token", err)
	}

	return &SignInResult{User: profileOf(user), Tokens: *pair}, nil
}

// SignOut verifies the bearer access token in authHeader and revokes every
// refresh token of its user.
func (s *AuthService) SignOut(ctx context.Context, authHeader string) error {
	if authHeader == "" {
		return common.ErrMissingAuthHeader
	}
	parts := strings.Fields(authHeader)
	if len(parts) < 2 {
		return common.ErrMissingToken
	}

	claims, err := s.issuer.Verify(parts[1])
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	n, err := s.refreshTokens.DeleteByUserID(ctx, claims.UserID)
	if err != nil {
		return s.internal(ctx, "sign_out", "delete refresh tokens", err)
	}

	s.log.Info(ctx, "user signed out", "user_id", claims.UserID, "revoked", n)
	return nil
}

// Refresh exchanges a stored refresh token for a new pair and deletes the old
// record. Only presence in the store is checked; the token's own signature
// and expiry are not.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrRefreshTokenNotFound
	}

	stored, err := s.refreshTokens.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenNotFound
		}
		return nil, s.internal(ctx, "refresh", "find refresh token", err)
	}

	pair, record, err := s.newTokenPair(ctx, "refresh", stored.UserID)
	if err != nil {
		return nil, err
	}

	if rotator, ok := s.refreshTokens.(refreshtokens.Rotator); ok {
		if _, err := rotator.Rotate(ctx, refreshToken, record); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrRefreshTokenNotFound
			}
			return nil, s.internal(ctx, "refresh", "rotate refresh token", err)
		}
		return pair, nil
	}

	if _, err := s.refreshTokens.Delete(ctx, refreshToken); err != nil {
		return nil, s.internal(ctx, "refresh", "delete refresh token", err)
	}
	if _, err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, s.internal(ctx, "refresh", "store refresh token", err)
	}

	return pair, nil
}

// Authenticate verifies an access token and returns the user id it was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	return s.issuer.GetUserIDFromToken(token)
}

func (s *AuthService) newTokenPair(ctx context.Context, op, userID string) (*TokenPair, *models.RefreshToken, error) {
	access, err := s.issuer.IssueAccessToken(userID)
	if err != nil {
		return nil, nil, s.internal(ctx, op, "issue access token", err)
	}
	refresh, err := s.issuer.IssueRefreshToken(userID)
	if err != nil {
		return nil, nil, s.internal(ctx, op, "issue refresh token", err)
	}

	now := s.issuer.Now()
	record := &models.RefreshToken{
		UserID:    userID,
		Token:     refresh,
		ExpiresIn: s.issuer.RefreshLabel(),
		ExpiresAt: now.Add(s.issuer.RefreshTTL()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, record, nil
}

func (s *AuthService) internal(ctx context.Context, op, step string, err error) error {
	s.log.Error(ctx, "internal error", "op", op, "step", step, "error", err)
	return common.ErrorInternal
}

func profileOf(u *models.User) Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
	}
}
