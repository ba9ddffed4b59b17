// Package analysis holds the credibility use-cases: the fact-check service and
// the orchestrator that layers enrichments on top of it.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/application/language"
	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const persistTimeout = 5 * time.Second

// Service implements the base fact-check use-case.
// Service is safe for concurrent use.
type Service struct {
	checker domain.FactChecker
	repo    domain.Repository
	cache   cache.Cache[domain.AnalysisResult]
	ttl     time.Duration
	clock   application.Clock
	log     logger.Logger

	pending sync.WaitGroup
}

// NewService wires the fact-check service. repo and c may be nil.
func NewService(checker domain.FactChecker, repo domain.Repository, c cache.Cache[domain.AnalysisResult], ttl time.Duration, clock application.Clock, log logger.Logger) *Service {
	return &Service{
		checker: checker,
		repo:    repo,
		cache:   c,
		ttl:     ttl,
		clock:   clock,
		log:     log.With(logger.String("component", "fact_check")),
	}
}

// AnalyzeText returns the verdict for one request, from cache when possible.
// Fresh results are written through to the repository in the background;
// persistence failures never reach the caller.
func (s *Service) AnalyzeText(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: content is empty", domain.ErrInvalidInput)
	}
	if req.ContentType == "" {
		req.ContentType = domain.ContentText
	}
	req.Language = language.Normalize(req.Language)

	key := cache.Key("analysisResults", req.Content, req.Language)
	return cache.GetOrCompute(ctx, s.cache, key, s.ttl, func(ctx context.Context) (domain.AnalysisResult, error) {
		res, err := s.checker.CheckFacts(ctx, req.Content, req.Language)
		if err != nil {
			return domain.AnalysisResult{}, err
		}
		s.persist(ctx, req, res)
		return res, nil
	})
}

func (s *Service) persist(ctx context.Context, req domain.AnalysisRequest, res domain.AnalysisResult) {
	if s.repo == nil {
		return
	}
	rec := &domain.Record{
		ID:           domain.RecordID(uuid.NewString()),
		ContentHash:  cache.Hash(req.Content),
		Content:      req.Content,
		ContentType:  req.ContentType,
		Language:     req.Language,
		Verdict:      res.Verdict,
		Explanation:  res.Explanation,
		AnalysisType: "FACT_CHECK",
		CreatedAt:    s.clock.Now().UTC(),
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		// jangan ikut cancel kalau request sudah selesai
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()
		if err := s.repo.Save(pctx, rec); err != nil {
			s.log.Warn("persist analysis failed", logger.String("id", string(rec.ID)), logger.Error(err))
		}
	}()
}

// Wait blocks until background writes issued so far have finished.
func (s *Service) Wait() { s.pending.Wait() }

// Recent lists persisted analyses, newest first.
func (s *Service) Recent(ctx context.Context, f domain.RecordFilter) ([]*domain.Record, error) {
	if s.repo == nil {
		return nil, domain.ErrUnsupported
	}
	if f.Language != "" {
		f.Language = language.Normalize(f.Language)
	}
	return s.repo.FindRecent(ctx, f)
}

// History lists earlier analyses of exactly this content.
func (s *Service) History(ctx context.Context, content string, limit int) ([]*domain.Record, error) {
	if s.repo == nil {
		return nil, domain.ErrUnsupported
	}
	return s.repo.FindByContentHash(ctx, cache.Hash(content), limit)
}
