package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/satyacheck/internal/config"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

func TestNewWithoutBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Models.AutoDiscovery = false

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	h := a.Handler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bulk-analysis/x/outcomes", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	names := make([]string, 0)
	for _, s := range a.Caches.Stats() {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{
		"webContent", "analysisResults", "comprehensiveAnalysis",
		"misinformationAnalysis", "translations", "urlAnalysis",
	}, names)
}

func TestNewWithRedisRegistersHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Models.AutoDiscovery = false
	cfg.Redis.Address = mr.Addr()

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	rec := httptest.NewRecorder()
	a.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis"`)
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Address = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}
