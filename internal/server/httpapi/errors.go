package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const (
	msgMissingFields       = "Missing fields"
	msgInvalidEmail        = "Invalid email format"
	msgInvalidPassword     = "Password must be between 8-20 characters"
	msgEmailTaken          = "Email is already registered"
	msgInvalidCredentials  = "Invalid credentials"
	msgMissingAuthHeader   = "Authorization header missing"
	msgMissingToken        = "Token missing"
	msgRefreshNotFound     = "Refresh token not found"
	msgUnauthorized        = "Unauthorized"
	msgInternalServerError = "Internal server error"
	msgProtected           = "This is a protected route"
)

var errorResponses = []struct {
	err    error
	status int
	body   string
}{
	{common.ErrMissingFields, http.StatusBadRequest, msgMissingFields},
	{common.ErrInvalidEmailFormat, http.StatusBadRequest, msgInvalidEmail},
	{common.ErrInvalidPasswordLength, http.StatusBadRequest, msgInvalidPassword},
	{common.ErrEmailTaken, http.StatusBadRequest, msgEmailTaken},
	{common.ErrInvalidCredentials, http.StatusBadRequest, msgInvalidCredentials},
	{common.ErrMissingAuthHeader, http.StatusBadRequest, msgMissingAuthHeader},
	{common.ErrMissingToken, http.StatusBadRequest, msgMissingToken},
	{common.ErrRefreshTokenNotFound, http.StatusNotFound, msgRefreshNotFound},
}

// statusFor maps a service error to the HTTP status and plain-text body sent
// to the client. Anything unrecognised, token verification failures included,
// is a 500.
func statusFor(err error) (int, string) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return r.status, r.body
		}
	}
	return http.StatusInternalServerError, msgInternalServerError
}
