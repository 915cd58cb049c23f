package rest

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/dmitrijs2005/sociopedia/internal/logging"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/dmitrijs2005/sociopedia/internal/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AccessControl admits a request only with a valid access token.
//
// A missing or blank Authorization header is answered with 403; any
// verification failure with 401. On success the verified identity is put
// into the request context for downstream handlers.
func AccessControl(keys TokenVerifier, l logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	logger := l.With("module", "access_control")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := auth.ExtractToken(c.GetHeader(common.AuthorizationHeaderName))
		if errors.Is(err, common.ErrNoToken) {
			m.ObserveAuth(metrics.OpAccess, metrics.OutcomeDenied)
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Access denied"})
			return
		}

		var subject string
		if err == nil {
			subject, err = keys.Verify(token)
		}
		if err != nil {
			m.ObserveAuth(metrics.OpAccess, metrics.OutcomeInvalid)
			logger.Warn(ctx, "token rejected", "reason", tokenFailure(err), "request_id", c.GetString(requestIDKey))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		m.ObserveAuth(metrics.OpAccess, metrics.OutcomeSuccess)
		c.Request = c.Request.WithContext(auth.WithIdentity(ctx, auth.Identity{Subject: subject}))
		c.Next()
	}
}

func tokenFailure(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrTokenInvalidSignature):
		return "invalid signature"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	}
	return "unknown"
}

// RequestID propagates or assigns an X-Request-Id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs every request and records its latency. Headers and
// bodies are never logged.
func RequestLogger(l logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	logger := l.With("module", "http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, status, latency)

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency.String(),
			"request_id", c.GetString(requestIDKey),
		}
		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "Request completed", args...)
		case status >= 400:
			logger.Warn(ctx, "Request completed", args...)
		default:
			logger.Debug(ctx, "Request completed", args...)
		}
	}
}

// Recovery turns a handler panic into an opaque 500.
func Recovery(l logging.Logger) gin.HandlerFunc {
	logger := l.With("module", "http")

	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error(c.Request.Context(), "Panic recovered",
					"error", fmt.Sprintf("%v", p),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDKey))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
			}
		}()
		c.Next()
	}
}
