package feedback

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const saveTimeout = 5 * time.Second

// RepositorySink persists outcomes from a single background worker. Record
// never blocks: when the buffer is full the outcome is dropped and counted.
type RepositorySink struct {
	repo    analysis.OutcomeRepository
	log     logger.Logger
	queue   chan analysis.Outcome
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ analysis.OutcomeSink = (*RepositorySink)(nil)

func NewRepositorySink(repo analysis.OutcomeRepository, buffer int, log logger.Logger) *RepositorySink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &RepositorySink{
		repo:  repo,
		log:   log.With(logger.String("component", "outcome_sink")),
		queue: make(chan analysis.Outcome, buffer),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *RepositorySink) Record(_ context.Context, o analysis.Outcome) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.queue <- o:
	default:
		if s.dropped.Add(1)%100 == 1 {
			s.log.Warn("outcome buffer full, dropping", logger.Int64("dropped_total", int64(s.dropped.Load())))
		}
	}
}

// Dropped reports how many outcomes were discarded.
func (s *RepositorySink) Dropped() uint64 { return s.dropped.Load() }

func (s *RepositorySink) run() {
	defer close(s.done)
	for o := range s.queue {
		o := o
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := s.repo.Save(ctx, &o); err != nil {
			s.log.Warn("persist outcome failed", logger.String("operation", o.Operation), logger.Error(err))
		}
		cancel()
	}
}

// Close stops accepting outcomes and waits for the buffer to drain or ctx to end.
func (s *RepositorySink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
