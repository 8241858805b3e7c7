// Package httpapi exposes the auth service over HTTP using gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthService is the part of services.AuthService the handlers use.
type AuthService interface {
	SignUp(ctx context.Context, req services.SignUpRequest) (*services.Profile, error)
	SignIn(ctx context.Context, email, password string) (*services.SignInResult, error)
	SignOut(ctx context.Context, authHeader string) error
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(token string) (string, error)
}

type Handler struct {
	svc     AuthService
	metrics *Metrics
	log     logging.Logger
}

func NewHandler(svc AuthService, metrics *Metrics, log logging.Logger) *Handler {
	return &Handler{svc: svc, metrics: metrics, log: log.With("module", "httpapi")}
}

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type signUpResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type signInResponse struct {
	User         userView `json:"user"`
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) SignUp(c *gin.Context) {
	start := time.Now()

	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "sign_up", start, common.ErrMissingFields)
		return
	}

	p, err := h.svc.SignUp(c.Request.Context(), services.SignUpRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.fail(c, "sign_up", start, err)
		return
	}

	c.JSON(http.StatusCreated, signUpResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		DisplayName: p.DisplayName,
	})
	h.metrics.Observe("sign_up", http.StatusCreated, time.Since(start))
}

func (h *Handler) SignIn(c *gin.Context) {
	start := time.Now()

	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "sign_in", start, common.ErrMissingFields)
		return
	}

	res, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "sign_in", start, err)
		return
	}

	c.JSON(http.StatusOK, signInResponse{
		User: userView{
			FirstName:   res.User.FirstName,
			LastName:    res.User.LastName,
			Email:       res.User.Email,
			DisplayName: res.User.DisplayName,
		},
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
	h.metrics.Observe("sign_in", http.StatusOK, time.Since(start))
}

func (h *Handler) SignOut(c *gin.Context) {
	start := time.Now()

	if err := h.svc.SignOut(c.Request.Context(), c.GetHeader(common.AuthorizationHeaderName)); err != nil {
		h.fail(c, "sign_out", start, err)
		return
	}

	c.Status(http.StatusNoContent)
	h.metrics.Observe("sign_out", http.StatusNoContent, time.Since(start))
}

func (h *Handler) RefreshToken(c *gin.Context) {
	start := time.Now()

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "refresh", start, common.ErrMissingFields)
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, "refresh", start, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
	h.metrics.Observe("refresh", http.StatusOK, time.Since(start))
}

// Protected is a probe behind RequireAuth.
func (h *Handler) Protected(c *gin.Context) {
	c.String(http.StatusOK, msgProtected)
}

func (h *Handler) fail(c *gin.Context, op string, start time.Time, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "op", op, "error", err)
	}
	c.String(status, body)
	h.metrics.Observe(op, status, time.Since(start))
}
