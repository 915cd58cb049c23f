package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/logging"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/dmitrijs2005/sociopedia/internal/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = auth.Secret("rest-test-secret-0123456789")

func newKeys(t *testing.T, ttl time.Duration) *auth.Keys {
	t.Helper()
	keys, err := auth.NewKeys(testSecret, ttl)
	require.NoError(t, err)
	return keys
}

// protectedEngine mounts AccessControl in front of a handler that echoes the
// identity it sees.
func protectedEngine(keys TokenVerifier, m *metrics.Metrics) (*gin.Engine, *bool) {
	called := false
	e := gin.New()
	e.Use(RequestID())
	e.GET("/private", AccessControl(keys, logging.NewNop(), m), func(c *gin.Context) {
		called = true
		id, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": id.Subject})
	})
	return e, &called
}

func doGet(e http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAccessControl_MissingHeaderIsForbidden(t *testing.T) {
	e, called := protectedEngine(newKeys(t, time.Hour), nil)

	for _, h := range []string{"", "   "} {
		rec := doGet(e, h)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String())
	}
	assert.False(t, *called, "handler must not run")
}

func TestAccessControl_ValidToken(t *testing.T) {
	keys := newKeys(t, time.Hour)
	e, called := protectedEngine(keys, nil)

	tok, err := keys.Issue("user-7")
	require.NoError(t, err)

	for _, h := range []string{"Bearer " + tok, "bearer " + tok, tok} {
		rec := doGet(e, h)
		require.Equal(t, http.StatusOK, rec.Code, "header %q", h)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "user-7", body["sub"])
	}
	assert.True(t, *called)
}

func TestAccessControl_InvalidTokensAreUnauthorized(t *testing.T) {
	keys := newKeys(t, time.Hour)
	e, called := protectedEngine(keys, nil)

	expired, err := auth.GenerateToken("u1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	foreign, err := auth.GenerateToken("u1", []byte("some-other-secret-0123"), time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, h := range map[string]string{
		"garbage":     "Bearer not-a-token",
		"scheme only": "Bearer",
		"expired":     "Bearer " + expired,
		"wrong key":   "Bearer " + foreign,
		"alg none":    "Bearer " + none,
	} {
		rec := doGet(e, h)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String(), name)
	}
	assert.False(t, *called, "handler must not run")
}

func TestAccessControl_CountsOutcomes(t *testing.T) {
	keys := newKeys(t, time.Hour)
	m := metrics.New()
	e, _ := protectedEngine(keys, m)

	tok, _ := keys.Issue("u1")
	doGet(e, "")
	doGet(e, "Bearer junk")
	doGet(e, "Bearer "+tok)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `sociopedia_auth_outcomes_total{operation="access",outcome="denied"} 1`)
	assert.Contains(t, body, `sociopedia_auth_outcomes_total{operation="access",outcome="invalid"} 1`)
	assert.Contains(t, body, `sociopedia_auth_outcomes_total{operation="access",outcome="success"} 1`)
}

func TestRequestID(t *testing.T) {
	e := gin.New()
	e.Use(RequestID())
	e.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Equal(t, rec.Header().Get(requestIDHeader), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}

func TestRecovery(t *testing.T) {
	e := gin.New()
	e.Use(Recovery(logging.NewNop()))
	e.GET("/boom", func(c *gin.Context) { panic("kaput") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func corsEngine(cfg CORSConfig) (*gin.Engine, *bool) {
	called := false
	e := gin.New()
	e.HandleMethodNotAllowed = true
	e.Use(SecurityHeaders(), CORS(cfg))
	e.POST("/auth/login", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})
	return e, &called
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	e, called := corsEngine(DefaultCORSConfig())

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, *called, "preflight must not reach the handler")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.example"}
	cfg.AllowCredentials = true
	e, called := corsEngine(cfg)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestCORS_NoOriginHeader(t *testing.T) {
	e, called := corsEngine(DefaultCORSConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	e, _ := corsEngine(DefaultCORSConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
