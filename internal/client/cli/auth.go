package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Prompt hooks, swapped in tests.
var (
	promptLine   = readLine
	promptSecret = readSecret
)

// Register prompts for email, names and password and creates the account.
// It does not sign in.
func (a *App) Register(ctx context.Context) error {
	var req client.SignUpRequest
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Email", &req.Email},
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
	} {
		v, err := promptLine(a.reader, a.out, f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := promptSecret(a.reader, a.out, "Password")
	if err != nil {
		return err
	}
	defer clear(password)
	req.Password = string(password)

	p, err := a.authService.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (%s). Use 'login' to sign in.\n", p.DisplayName, p.Email)
	return nil
}

// Login prompts for credentials, signs in and stores the session.
func (a *App) Login(ctx context.Context) error {
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.reader, a.out, "Password")
	if err != nil {
		return err
	}
	defer clear(password)

	s, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", email, "error", err)
		return err
	}

	a.setUser(s.Email)
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.DisplayName)
	return nil
}

// Refresh rotates the stored token pair.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.authService.Refresh(ctx); err != nil {
		if errors.Is(err, common.ErrRefreshTokenNotFound) || errors.Is(err, client.ErrNotLoggedIn) {
			a.setUser("")
		}
		return err
	}
	fmt.Fprintln(a.out, "Tokens refreshed.")
	return nil
}

// Whoami calls the protected probe with the stored access token.
func (a *App) Whoami(ctx context.Context) error {
	msg, err := a.authService.Whoami(ctx)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenNotFound) || errors.Is(err, client.ErrNotLoggedIn) {
			a.setUser("")
		}
		return err
	}

	s, err := a.authService.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", s.Email, msg)
	return nil
}

// Logout signs out of every session on the server and forgets the local one.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.setUser("")
	if err != nil {
		if errors.Is(err, client.ErrNotLoggedIn) {
			return err
		}
		a.log.Warn(ctx, "server sign-out failed, local session removed", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// describe turns a command error into a line for the user.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		return "not logged in, use 'login' first"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, common.ErrRefreshTokenNotFound):
		return "session expired, please log in again"
	case errors.Is(err, client.ErrUnauthorized):
		return "unauthorized"
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
