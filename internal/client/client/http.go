package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const maxResponseBody = 1 << 20

const refreshPath = "/auth/refresh-token"

// HTTPClient talks to the server's JSON API. Tokens are passed per call, so
// one HTTPClient can be shared by concurrent callers.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient validates baseURL (scheme and host are required) and returns
// a client whose requests give up after timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SignUp(ctx context.Context, req SignUpRequest) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodPost, "/auth/sign-up", "", req, http.StatusCreated, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var res SignInResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/sign-in", "", req, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/sign-out", accessToken, nil, http.StatusNoContent)
	return err
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	req := struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken}

	var t Tokens
	if err := c.doJSON(ctx, http.MethodPost, refreshPath, "", req, http.StatusOK, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Protected calls the protected probe and returns its message.
func (c *HTTPClient) Protected(ctx context.Context, accessToken string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/protected", accessToken, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", "", nil, http.StatusOK)
	return err
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in any, want int, out any) error {
	body, err := c.do(ctx, method, path, token, in, want)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in any, want int) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != want {
		return nil, mapStatus(path, resp.StatusCode, body)
	}
	return body, nil
}

// mapStatus turns an unexpected status into an error. Only the refresh route
// reports a revoked session with 404; elsewhere 404 means a wrong server URL
// or route and surfaces as *APIError.
func mapStatus(path string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound && path == refreshPath:
		return fmt.Errorf("%w: %s", common.ErrRefreshTokenNotFound, msg)
	default:
		return &APIError{StatusCode: status, Message: msg}
	}
}
