package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetClientFromContext(r.Context())))
})

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth(map[string]string{"mobile": "secret"})(okHandler)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing", "/api/analyze", "", http.StatusUnauthorized, ""},
		{"wrong key", "/api/analyze", "Bearer nope", http.StatusUnauthorized, ""},
		{"bearer", "/api/analyze", "Bearer secret", http.StatusOK, "mobile"},
		{"bare key", "/api/analyze", "secret", http.StatusOK, "mobile"},
		{"public path", "/health", "", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestAPIKeyAuthDisabledWithoutKeys(t *testing.T) {
	h := APIKeyAuth(nil)(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimitMiddleware(NewRateLimiter(2))(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.RemoteAddr = "203.0.113.8:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPMetricsLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, reg)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/language/support/{code}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/language/support/hi", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/language/support/{code}", "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "satyacheck_http_requests_total")
}

func TestLoggingPassesThrough(t *testing.T) {
	h := Logging(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := HealthHandler(map[string]HealthChecker{
		"database": CheckFunc(func(context.Context) error { return nil }),
		"redis":    CheckFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"status":"unhealthy"`)
	assert.Contains(t, body, "connection refused")
}

func TestValidateURL(t *testing.T) {
	require.NoError(t, ValidateURL("https://example.com/news"))

	for _, bad := range []string{"", "ftp://example.com", "http://localhost:8080", "http://127.0.0.1", "http://10.1.2.3/x", "http://192.168.0.1", "http://[::1]/"} {
		assert.Error(t, ValidateURL(bad), bad)
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateLanguageCode("pt-BR"))
	assert.NoError(t, ValidateLanguageCode(""))
	assert.Error(t, ValidateLanguageCode("english!"))

	assert.Error(t, ValidateContent("   ", 10))
	assert.Error(t, ValidateContent(strings.Repeat("a", 11), 10))
	assert.NoError(t, ValidateContent("ok", 10))

	assert.Error(t, ValidateBatchSize(0, 10))
	assert.Error(t, ValidateBatchSize(11, 10))
	assert.NoError(t, ValidateBatchSize(10, 10))

	assert.Equal(t, "a b", SanitizeString(" a\x00 b\x07 "))
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(500))
}
