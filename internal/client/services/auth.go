// Package services contains application services for the gophauth CLI.
// AuthService drives the remote sign-up/sign-in/refresh/sign-out calls and
// keeps the resulting session in the local metadata store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

const (
	keyEmail        = "email"
	keyDisplayName  = "display_name"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Session is what survives between CLI runs.
type Session struct {
	Email        string
	DisplayName  string
	AccessToken  string
	RefreshToken string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account; does not sign in.
//   - Login: sign in and persist the session.
//   - Refresh: rotate the stored token pair. A refresh token the server no
//     longer knows ends the local session.
//   - Logout: revoke every session of the user on the server and wipe the
//     local one.
//   - Whoami: call the protected probe, refreshing once on 401.
//   - Current: the stored session, or client.ErrNotLoggedIn.
type AuthService interface {
	Register(ctx context.Context, req client.SignUpRequest) (*client.Profile, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (string, error)
	Current(ctx context.Context) (*Session, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  metadata.Store
}

func NewAuthService(c client.Client, store metadata.Store) AuthService {
	return &authService{client: c, store: store}
}

func (a *authService) Register(ctx context.Context, req client.SignUpRequest) (*client.Profile, error) {
	p, err := a.client.SignUp(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return p, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	s := &Session{
		Email:        res.User.Email,
		DisplayName:  res.User.DisplayName,
		AccessToken:  res.Token,
		RefreshToken: res.RefreshToken,
	}
	if err := a.save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

func (a *authService) Refresh(ctx context.Context) error {
	s, err := a.Current(ctx)
	if err != nil {
		return err
	}
	return a.refresh(ctx, s)
}

func (a *authService) refresh(ctx context.Context, s *Session) error {
	pair, err := a.client.Refresh(ctx, s.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenNotFound) {
			if clearErr := a.store.Clear(ctx); clearErr != nil {
				return errors.Join(err, clearErr)
			}
		}
		return fmt.Errorf("refresh error: %w", err)
	}

	s.AccessToken = pair.Token
	s.RefreshToken = pair.RefreshToken
	if err := a.save(ctx, s); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// Logout wipes the local session even when the server call fails; the
// server error is still returned.
func (a *authService) Logout(ctx context.Context) error {
	s, err := a.Current(ctx)
	if err != nil {
		return err
	}

	remoteErr := a.client.SignOut(ctx, s.AccessToken)
	if err := a.store.Clear(ctx); err != nil {
		return errors.Join(remoteErr, err)
	}
	if remoteErr != nil {
		return fmt.Errorf("sign-out error: %w", remoteErr)
	}
	return nil
}

func (a *authService) Whoami(ctx context.Context) (string, error) {
	s, err := a.Current(ctx)
	if err != nil {
		return "", err
	}

	msg, err := a.client.Protected(ctx, s.AccessToken)
	if !errors.Is(err, client.ErrUnauthorized) {
		return msg, err
	}

	if err := a.refresh(ctx, s); err != nil {
		return "", err
	}
	return a.client.Protected(ctx, s.AccessToken)
}

func (a *authService) Current(ctx context.Context) (*Session, error) {
	m, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session loading error: %w", err)
	}
	if len(m[keyAccessToken]) == 0 || len(m[keyRefreshToken]) == 0 {
		return nil, client.ErrNotLoggedIn
	}
	return &Session{
		Email:        string(m[keyEmail]),
		DisplayName:  string(m[keyDisplayName]),
		AccessToken:  string(m[keyAccessToken]),
		RefreshToken: string(m[keyRefreshToken]),
	}, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func (a *authService) save(ctx context.Context, s *Session) error {
	values := make(map[string][]byte, 4)
	for k, v := range map[string]string{
		keyEmail:        s.Email,
		keyDisplayName:  s.DisplayName,
		keyAccessToken:  s.AccessToken,
		keyRefreshToken: s.RefreshToken,
	} {
		if v != "" {
			values[k] = []byte(v)
		}
	}
	return a.store.Replace(ctx, values)
}
