// Package modelresolver picks the generative model to call, preferring a
// cached answer and never failing.
package modelresolver

import (
	"context"
	"errors"
	"time"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

var errNoCandidates = errors.New("listing contained no usable model")

type Config struct {
	AutoDiscovery bool
	CacheTTL      time.Duration
	Timeout       time.Duration
	Fallback      string
}

type Resolver struct {
	lister ai.ModelLister
	state  *State
	rules  Rules
	cfg    Config
	clock  application.Clock
	log    logger.Logger
}

func New(lister ai.ModelLister, state *State, rules Rules, cfg Config, clock application.Clock, log logger.Logger) *Resolver {
	if state == nil {
		state = NewState()
	}
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Resolver{
		lister: lister,
		state:  state,
		rules:  rules,
		cfg:    cfg,
		clock:  clock,
		log:    log.With(logger.String("component", "model_resolver")),
	}
}

// Resolve returns the model to use for apiKey. Listing failures fall back to
// the last cached model, then the configured fallback.
func (r *Resolver) Resolve(ctx context.Context, apiKey string) string {
	if !r.cfg.AutoDiscovery || r.lister == nil {
		return r.cfg.Fallback
	}

	cached, at, ok := r.state.Snapshot()
	if ok && r.clock.Now().Sub(at) < r.cfg.CacheTTL {
		return cached
	}

	model, err := r.discover(ctx, apiKey)
	if err != nil {
		if ok {
			r.log.Warn("model discovery failed, keeping cached model", logger.String("model", cached), logger.Error(err))
			return cached
		}
		r.log.Warn("model discovery failed, using fallback", logger.String("model", r.cfg.Fallback), logger.Error(err))
		return r.cfg.Fallback
	}

	r.state.set(model, r.clock.Now())
	r.log.Info("model discovered", logger.String("model", model))
	return model
}

func (r *Resolver) discover(ctx context.Context, apiKey string) (string, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	models, err := r.lister.ListModels(ctx, apiKey)
	if err != nil {
		return "", err
	}
	model, ok := r.rules.Select(r.rules.Candidates(models))
	if !ok {
		return "", errNoCandidates
	}
	return model, nil
}

// InvalidateCache drops the cached model unconditionally.
func (r *Resolver) InvalidateCache() {
	r.state.clear()
}

// CachedModel is a non-blocking diagnostic accessor.
func (r *Resolver) CachedModel() (string, bool) {
	model, _, ok := r.state.Snapshot()
	return model, ok
}

// Refresh forces a new discovery.
func (r *Resolver) Refresh(ctx context.Context, apiKey string) string {
	r.InvalidateCache()
	return r.Resolve(ctx, apiKey)
}
