package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newStore(t *testing.T) *metadata.SQLiteStore {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteStore(db)
}

func seed(t *testing.T, store metadata.Store, access, refresh string) {
	t.Helper()
	require.NoError(t, store.Replace(context.Background(), map[string][]byte{
		keyEmail:        []byte("a@b.co"),
		keyDisplayName:  []byte("A B"),
		keyAccessToken:  []byte(access),
		keyRefreshToken: []byte(refresh),
	}))
}

// ---- fake client ----

type fakeClient struct {
	SignUpRet *client.Profile
	SignUpErr error

	SignInRet *client.SignInResult
	SignInErr error

	SignOutErr error

	// RefreshRet is handed out in order, one per call.
	RefreshRet []*client.Tokens
	RefreshErr error

	// ProtectedErrs is consumed one per call; nil once exhausted.
	ProtectedErrs []error

	PingErr  error
	CloseErr error

	LastSignOutToken  string
	LastRefreshToken  string
	ProtectedTokens   []string
	RefreshCalls      int
	LastSignInEmail   string
	LastSignUpRequest client.SignUpRequest
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) SignUp(_ context.Context, req client.SignUpRequest) (*client.Profile, error) {
	f.LastSignUpRequest = req
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeClient) SignIn(_ context.Context, email, _ string) (*client.SignInResult, error) {
	f.LastSignInEmail = email
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) SignOut(_ context.Context, accessToken string) error {
	f.LastSignOutToken = accessToken
	return f.SignOutErr
}

func (f *fakeClient) Refresh(_ context.Context, refreshToken string) (*client.Tokens, error) {
	f.LastRefreshToken = refreshToken
	f.RefreshCalls++
	if f.RefreshErr != nil {
		return nil, f.RefreshErr
	}
	t := f.RefreshRet[0]
	f.RefreshRet = f.RefreshRet[1:]
	return t, nil
}

func (f *fakeClient) Protected(_ context.Context, accessToken string) (string, error) {
	f.ProtectedTokens = append(f.ProtectedTokens, accessToken)
	if len(f.ProtectedErrs) > 0 {
		err := f.ProtectedErrs[0]
		f.ProtectedErrs = f.ProtectedErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return "This is a protected route", nil
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

// ---- tests ----

func TestRegister(t *testing.T) {
	fc := &fakeClient{SignUpRet: &client.Profile{ID: "1", DisplayName: "A B"}}
	svc := NewAuthService(fc, newStore(t))

	p, err := svc.Register(context.Background(), client.SignUpRequest{Email: "a@b.co", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "A B", p.DisplayName)
	assert.Equal(t, "a@b.co", fc.LastSignUpRequest.Email)

	fc.SignUpErr = &client.APIError{StatusCode: 400, Message: "Email is already registered"}
	_, err = svc.Register(context.Background(), client.SignUpRequest{Email: "a@b.co"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "register error")
}

func TestLogin_PersistsSession(t *testing.T) {
	store := newStore(t)
	fc := &fakeClient{SignInRet: &client.SignInResult{
		User:   client.Profile{Email: "a@b.co", DisplayName: "A B"},
		Tokens: client.Tokens{Token: "at1", RefreshToken: "rt1"},
	}}
	svc := NewAuthService(fc, store)
	ctx := context.Background()

	s, err := svc.Login(ctx, "a@b.co", "password123")
	require.NoError(t, err)
	assert.Equal(t, "at1", s.AccessToken)

	// a fresh service over the same store sees the session
	cur, err := NewAuthService(&fakeClient{}, store).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Session{Email: "a@b.co", DisplayName: "A B", AccessToken: "at1", RefreshToken: "rt1"}, cur)
}

func TestLogin_FailureLeavesStoreUntouched(t *testing.T) {
	store := newStore(t)
	seed(t, store, "old-at", "old-rt")
	fc := &fakeClient{SignInErr: &client.APIError{StatusCode: 400, Message: "Invalid credentials"}}
	svc := NewAuthService(fc, store)

	_, err := svc.Login(context.Background(), "a@b.co", "wrong-password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login error")

	cur, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old-at", cur.AccessToken)
}

func TestCurrent_NotLoggedIn(t *testing.T) {
	svc := NewAuthService(&fakeClient{}, newStore(t))

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	assert.ErrorIs(t, svc.Refresh(context.Background()), client.ErrNotLoggedIn)
	assert.ErrorIs(t, svc.Logout(context.Background()), client.ErrNotLoggedIn)
	_, err = svc.Whoami(context.Background())
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestRefresh_RotatesStoredPair(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{RefreshRet: []*client.Tokens{{Token: "at2", RefreshToken: "rt2"}}}
	svc := NewAuthService(fc, store)
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))
	assert.Equal(t, "rt1", fc.LastRefreshToken)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "at2", cur.AccessToken)
	assert.Equal(t, "rt2", cur.RefreshToken)
	assert.Equal(t, "a@b.co", cur.Email)
}

func TestRefresh_UnknownTokenEndsSession(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{RefreshErr: fmt.Errorf("%w: Refresh token not found", common.ErrRefreshTokenNotFound)}
	svc := NewAuthService(fc, store)
	ctx := context.Background()

	err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, common.ErrRefreshTokenNotFound)

	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestRefresh_UnavailableKeepsSession(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{RefreshErr: client.ErrUnavailable}
	svc := NewAuthService(fc, store)

	assert.ErrorIs(t, svc.Refresh(context.Background()), client.ErrUnavailable)

	cur, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rt1", cur.RefreshToken)
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name    string
		remote  error
		wantErr bool
	}{
		{name: "success"},
		{name: "server error still clears", remote: &client.APIError{StatusCode: 500, Message: "Internal server error"}, wantErr: true},
		{name: "unavailable still clears", remote: client.ErrUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			seed(t, store, "at1", "rt1")
			fc := &fakeClient{SignOutErr: tt.remote}
			svc := NewAuthService(fc, store)

			err := svc.Logout(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.remote))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, "at1", fc.LastSignOutToken)

			_, err = svc.Current(context.Background())
			assert.ErrorIs(t, err, client.ErrNotLoggedIn)
		})
	}
}

func TestWhoami_ValidToken(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{}
	svc := NewAuthService(fc, store)

	msg, err := svc.Whoami(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "This is a protected route", msg)
	assert.Equal(t, 0, fc.RefreshCalls)
}

func TestWhoami_RefreshesOnceOn401(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{
		ProtectedErrs: []error{client.ErrUnauthorized},
		RefreshRet:    []*client.Tokens{{Token: "at2", RefreshToken: "rt2"}},
	}
	svc := NewAuthService(fc, store)

	msg, err := svc.Whoami(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "This is a protected route", msg)
	assert.Equal(t, []string{"at1", "at2"}, fc.ProtectedTokens)
	assert.Equal(t, 1, fc.RefreshCalls)
}

func TestWhoami_SecondRejectionIsReturned(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{
		ProtectedErrs: []error{client.ErrUnauthorized, client.ErrUnauthorized},
		RefreshRet:    []*client.Tokens{{Token: "at2", RefreshToken: "rt2"}},
	}
	svc := NewAuthService(fc, store)

	_, err := svc.Whoami(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, fc.RefreshCalls)
}

func TestWhoami_RefreshFailure(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{
		ProtectedErrs: []error{client.ErrUnauthorized},
		RefreshErr:    fmt.Errorf("%w: gone", common.ErrRefreshTokenNotFound),
	}
	svc := NewAuthService(fc, store)

	_, err := svc.Whoami(context.Background())
	assert.ErrorIs(t, err, common.ErrRefreshTokenNotFound)

	_, err = svc.Current(context.Background())
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestPingAndClose(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrUnavailable, CloseErr: errors.New("close")}
	svc := NewAuthService(fc, newStore(t))

	assert.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	assert.EqualError(t, svc.Close(context.Background()), "close")
}

func TestWhoami_RouteNotFoundKeepsSession(t *testing.T) {
	store := newStore(t)
	seed(t, store, "at1", "rt1")
	fc := &fakeClient{
		ProtectedErrs: []error{&client.APIError{StatusCode: 404, Message: "404 page not found"}},
	}
	svc := NewAuthService(fc, store)

	_, err := svc.Whoami(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, fc.RefreshCalls)

	cur, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rt1", cur.RefreshToken)
}
