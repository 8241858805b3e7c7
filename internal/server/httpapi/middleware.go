package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextUserIDKey is the gin context key RequireAuth stores the caller's id under.
const ContextUserIDKey = "userID"

// Authenticator verifies an access token and returns its user id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// RequireAuth admits requests carrying "Authorization: Bearer <valid access token>"
// and answers 401 otherwise.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader(common.AuthorizationHeaderName))
		if len(parts) != 2 || parts[0] != common.BearerScheme {
			c.String(http.StatusUnauthorized, msgUnauthorized)
			c.Abort()
			return
		}

		userID, err := a.Authenticate(parts[1])
		if err != nil {
			c.String(http.StatusUnauthorized, msgUnauthorized)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// RequestIDHeader carries the request id back to the caller. An incoming
// value is reused, otherwise a new one is generated.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags the request context with a request id, so every log
// line written while serving it carries the id, and logs one line per request.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "request_id", id))

		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
