// Package app wires configuration into a running pipeline.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/satyacheck/internal/application"
	appanalysis "github.com/bryanwahyu/satyacheck/internal/application/analysis"
	appbulk "github.com/bryanwahyu/satyacheck/internal/application/bulk"
	"github.com/bryanwahyu/satyacheck/internal/application/modelresolver"
	"github.com/bryanwahyu/satyacheck/internal/cache"
	"github.com/bryanwahyu/satyacheck/internal/config"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/web"
	"github.com/bryanwahyu/satyacheck/internal/infra/ai/catalog"
	"github.com/bryanwahyu/satyacheck/internal/infra/ai/llm"
	aiclient "github.com/bryanwahyu/satyacheck/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/satyacheck/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/satyacheck/internal/infra/db/postgres"
	"github.com/bryanwahyu/satyacheck/internal/infra/feedback"
	"github.com/bryanwahyu/satyacheck/internal/infra/httpserver"
	"github.com/bryanwahyu/satyacheck/internal/infra/storage"
	webinfra "github.com/bryanwahyu/satyacheck/internal/infra/web"
	"github.com/bryanwahyu/satyacheck/internal/logger"
	"github.com/bryanwahyu/satyacheck/internal/middleware"
)

const (
	outcomeBuffer   = 1024
	shutdownTimeout = 30 * time.Second
	sweepInterval   = time.Minute
)

// App owns every long-lived component. Build it with New and release it with Close.
type App struct {
	Config       *config.Config
	Log          logger.Logger
	Caches       *cache.Registry
	Resolver     *modelresolver.Resolver
	Facts        *appanalysis.Service
	Orchestrator *appanalysis.Orchestrator
	Bulk         *appbulk.Processor

	registry *prometheus.Registry
	metrics  *middleware.HTTPMetrics
	db       *sql.DB
	redis    *redis.Client
	outcomes domain.OutcomeRepository
	sink     *feedback.RepositorySink
	llm      *llm.Service
	checkers map[string]middleware.HealthChecker
}

// New connects optional backends and builds the pipeline. Redis, the database
// and MinIO are each skipped when unconfigured.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Log:      log,
		Caches:   cache.NewRegistry(),
		registry: prometheus.NewRegistry(),
		checkers: map[string]middleware.HealthChecker{},
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = middleware.NewHTTPMetrics(a.registry, a.registry)
	clock := application.SystemClock{}

	if err := a.connect(ctx); err != nil {
		a.release()
		return nil, err
	}

	factory := cache.Factory{Registry: a.Caches, MaxEntries: cfg.Cache.MaxEntries, Log: log}
	if a.redis != nil {
		factory.Redis = a.redis
	}

	// model discovery
	rules, err := modelresolver.CompileRules(cfg.Models.Preferred, cfg.Models.Patterns, cfg.Models.Excluded)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("model rules: %w", err)
	}
	lister := catalog.NewLister(cfg.AI.CatalogURL, &http.Client{Timeout: cfg.Models.Timeout})
	a.Resolver = modelresolver.New(lister, modelresolver.NewState(), rules, modelresolver.Config{
		AutoDiscovery: cfg.Models.AutoDiscovery,
		CacheTTL:      cfg.Models.CacheTTL,
		Timeout:       cfg.Models.Timeout,
		Fallback:      cfg.Models.Fallback,
	}, clock, log)

	gen := aiclient.NewClient(aiclient.Config{
		APIKey:            cfg.AI.APIKey,
		BaseURL:           cfg.AI.BaseURL,
		Timeout:           cfg.AI.Timeout,
		MaxTokens:         cfg.AI.MaxTokens,
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		Burst:             cfg.AI.Burst,
	}, a.Resolver, log)
	a.llm = llm.NewService(gen, log)

	fetcher := webinfra.NewFetcher(webinfra.Config{
		UserAgent:    cfg.Fetcher.UserAgent,
		Timeout:      cfg.Fetcher.Timeout,
		MaxBodyBytes: cfg.Fetcher.MaxBodyBytes,
		CacheTTL:     cfg.Cache.DefaultTTL,
		Extractor: webinfra.Extractor{
			MinContentLength: cfg.Fetcher.MinContentLength,
			MaxBodyText:      cfg.Fetcher.MaxBodyText,
		},
	}, nil, cache.NewCache[web.ContentResult](factory, "webContent", cfg.Cache.DefaultTTL), log)

	// feedback
	sinks := feedback.Multi{feedback.NewMetrics(a.registry), feedback.LogSink{Log: log}}
	if a.outcomes != nil {
		a.sink = feedback.NewRepositorySink(a.outcomes, outcomeBuffer, log)
		sinks = append(sinks, a.sink)
	}

	var repo domain.Repository
	switch cfg.Database.Driver {
	case "mysql":
		repo = mysqlp.NewAnalysisRepository(a.db)
	case "postgres":
		repo = pgp.NewAnalysisRepository(a.db)
	}
	a.Facts = appanalysis.NewService(a.llm, repo,
		cache.NewCache[domain.AnalysisResult](factory, "analysisResults", cfg.Cache.FactCheckTTL),
		cfg.Cache.FactCheckTTL, clock, log)

	a.Orchestrator = appanalysis.NewOrchestrator(a.Facts, appanalysis.Providers{
		Categorizer:    a.llm,
		Misinformation: a.llm,
		NLP:            a.llm,
		Translator:     a.llm,
		Vision:         a.llm,
		Fetcher:        fetcher,
	}, appanalysis.Caches{
		Comprehensive:  cache.NewCache[domain.EnhancedAnalysisResult](factory, "comprehensiveAnalysis", cfg.Cache.DefaultTTL),
		Misinformation: cache.NewCache[domain.EnhancedAnalysisResult](factory, "misinformationAnalysis", cfg.Cache.DefaultTTL),
		Translation:    cache.NewCache[string](factory, "translations", cfg.Cache.TranslationTTL),
		URL:            cache.NewCache[web.URLAnalysisResult](factory, "urlAnalysis", cfg.Cache.DefaultTTL),
	}, appanalysis.Config{
		NLPLanguages:      cfg.Analysis.NLPLanguages,
		ReliableThreshold: cfg.Analysis.ReliableThreshold,
		VerifyThreshold:   cfg.Analysis.VerifyThreshold,
		DefaultTTL:        cfg.Cache.DefaultTTL,
		TranslationTTL:    cfg.Cache.TranslationTTL,
	}, sinks, clock, log)

	var archiver appbulk.Archiver
	if cfg.Minio.Enabled {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			a.release()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		archiver = store
	}
	a.Bulk = appbulk.NewProcessor(a.Orchestrator, archiver, sinks, clock, appbulk.Config{
		MaxConcurrency: cfg.Bulk.MaxConcurrency,
		MaxItems:       cfg.Bulk.MaxItems,
		ItemTimeout:    cfg.Bulk.ItemTimeout,
	}, log)

	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		a.redis = client
		a.checkers["redis"] = &middleware.RedisHealthChecker{Client: client}
		a.Log.Info("redis cache enabled", logger.String("address", cfg.Redis.Address))
	}

	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		a.db = db
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("mysql schema: %w", err)
		}
		a.outcomes = mysqlp.NewOutcomeRepository(db)
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		a.db = db
		if err := pgp.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
		a.outcomes = pgp.NewOutcomeRepository(db)
	default:
		a.Log.Warn("no database configured, persistence disabled")
	}
	if a.db != nil {
		a.checkers["database"] = &middleware.DatabaseHealthChecker{DB: a.db}
	}
	return nil
}

// Handler builds the HTTP surface. limiter may be nil.
func (a *App) Handler(limiter *middleware.RateLimiter) http.Handler {
	d := httpserver.Deps{
		Facts:    a.Facts,
		Analysis: a.Orchestrator,
		Bulk:     a.Bulk,
		Models:   a.Resolver,
		Caches:   a.Caches,
		Detector: a.llm,
		Metrics:  a.metrics,
		Limiter:  limiter,
		Checkers: a.checkers,
		Log:      a.Log,
		AIKey:    a.Config.AI.APIKey,
		APIKeys:  a.Config.Server.APIKeys,
		Origins:  a.Config.Server.AllowedOrigins,
		MaxBatch: a.Config.Bulk.MaxItems,
	}
	if a.outcomes != nil {
		d.Outcomes = a.outcomes
	}
	return httpserver.NewRouter(d)
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests and background work.
func (a *App) Serve(ctx context.Context) error {
	limiter := middleware.NewRateLimiter(a.Config.Server.RateLimit)
	go limiter.Run(ctx, sweepInterval)

	addr := fmt.Sprintf(":%d", a.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Handler(limiter),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Log.Error("shutdown error", logger.Error(err))
	}
	return a.Close(shutdownCtx)
}

// Close waits for background persistence and archiving, then releases backends.
func (a *App) Close(ctx context.Context) error {
	if a.Facts != nil {
		a.Facts.Wait()
	}
	if a.Bulk != nil {
		a.Bulk.Wait()
	}
	var errs []error
	if a.sink != nil {
		if err := a.sink.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("outcome sink: %w", err))
		}
	}
	errs = append(errs, a.release()...)
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

func (a *App) release() []error {
	var errs []error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
		a.db = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
		a.redis = nil
	}
	return errs
}
