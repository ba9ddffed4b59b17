package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/satyacheck/internal/cache"
	domai "github.com/bryanwahyu/satyacheck/internal/domain/ai"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/bulk"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
	"github.com/bryanwahyu/satyacheck/internal/middleware"
)

const (
	maxContentRunes = 50000
	maxImageBytes   = 10 << 20
	maxBodyBytes    = 16 << 20
)

// FactService is the basic fact-check surface.
type FactService interface {
	AnalyzeText(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error)
	Recent(ctx context.Context, f domain.RecordFilter) ([]*domain.Record, error)
}

// Enhanced is the orchestrated analysis surface.
type Enhanced interface {
	AnalyzeComprehensively(ctx context.Context, content, lang string) (domain.EnhancedAnalysisResult, error)
	AnalyzeMisinformationPatterns(ctx context.Context, content, lang string) (domain.EnhancedAnalysisResult, error)
	AnalyzeURL(ctx context.Context, rawURL string) (web.URLAnalysisResult, error)
	AnalyzeCrossLanguage(ctx context.Context, content string, targets []string) (domain.CrossLanguageResult, error)
	AnalyzeImage(ctx context.Context, image []byte, lang string) (domain.ImageAnalysisResult, error)
}

type BulkProcessor interface {
	AnalyzeContent(ctx context.Context, items []bulk.ContentItem) (bulk.AnalysisResult, error)
	AnalyzeURLs(ctx context.Context, items []bulk.URLItem) (bulk.URLAnalysisResult, error)
}

type ModelAdmin interface {
	CachedModel() (string, bool)
	Refresh(ctx context.Context, apiKey string) string
}

type CacheAdmin interface {
	Stats() []cache.Stats
	Clear(ctx context.Context, name string) bool
	ClearAll(ctx context.Context)
}

// Deps wires the router. Optional fields may be nil; their routes answer 501.
type Deps struct {
	Facts     FactService
	Analysis  Enhanced
	Bulk      BulkProcessor
	Outcomes  domain.OutcomeRepository
	Models    ModelAdmin
	Caches    CacheAdmin
	Detector  domain.Translator
	Metrics   *middleware.HTTPMetrics
	Limiter   *middleware.RateLimiter
	Checkers  map[string]middleware.HealthChecker
	Log       logger.Logger
	AIKey     string
	APIKeys   map[string]string
	Origins   []string
	MaxBatch  int
}

type Router struct {
	d   Deps
	log logger.Logger
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	r := &Router{d: d, log: d.Log.With(logger.String("component", "http"))}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(d.Log))
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.APIKeyAuth(d.APIKeys))
	if d.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(d.Limiter))
	}

	mux.Get("/health", middleware.HealthHandler(d.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))

		rt.Route("/v1", func(v1 chi.Router) {
			v1.Get("/analyses", r.wrap(r.handleRecent))

			v1.Route("/enhanced-analysis", func(ea chi.Router) {
				ea.Post("/comprehensive", r.wrap(r.handleComprehensive))
				ea.Post("/misinformation", r.wrap(r.handleMisinformation))
				ea.Post("/url", r.wrap(r.handleURL))
				ea.Post("/cross-language", r.wrap(r.handleCrossLanguage))
				ea.Post("/image", r.wrap(r.handleImage))
			})

			v1.Route("/bulk-analysis", func(ba chi.Router) {
				ba.Post("/content", r.wrap(r.handleBulkContent))
				ba.Post("/urls", r.wrap(r.handleBulkURLs))
				ba.Get("/{batchId}/outcomes", r.wrap(r.handleBatchOutcomes))
			})

			v1.Route("/language", func(lg chi.Router) {
				lg.Post("/detect", r.wrap(r.handleDetectLanguage))
				lg.Post("/translate", r.wrap(r.handleTranslate))
				lg.Get("/supported", r.wrap(r.handleSupportedLanguages))
				lg.Get("/support/{code}", r.wrap(r.handleLanguageSupport))
			})

			v1.Get("/models/current", r.wrap(r.handleCurrentModel))
			v1.Post("/models/refresh", r.wrap(r.handleRefreshModel))
		})

		rt.Route("/admin/cache", func(ac chi.Router) {
			ac.Get("/stats", r.wrap(r.handleCacheStats))
			ac.Delete("/", r.wrap(r.handleClearCaches))
			ac.Delete("/{name}", r.wrap(r.handleClearCache))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks decoding and validation failures.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func invalid(msg string) error { return badRequest{msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status := statusFor(err)
		if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
			r.log.Error("request failed",
				logger.String("path", req.URL.Path),
				logger.String("request_id", chimw.GetReqID(req.Context())),
				logger.Error(err),
			)
		}
		writeError(w, status, err.Error())
	}
}

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, web.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, req *http.Request, v any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return invalid("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

func langOrDefault(code string) (string, error) {
	code = strings.TrimSpace(code)
	if err := middleware.ValidateLanguageCode(code); err != nil {
		return "", invalid(err.Error())
	}
	if code == "" {
		return "en", nil
	}
	return code, nil
}
