package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the sweeper runs when no interval is configured.
const DefaultInterval = time.Minute

var ErrAlreadyStarted = errors.New("sweeper already started")

// SweepRunner deletes expired artifacts for every owner that asked for it.
type SweepRunner interface {
	SweepAll(ctx context.Context) (int, error)
}

// Sweeper runs SweepAll on a fixed interval in a single goroutine.
type Sweeper struct {
	runner   SweepRunner
	interval time.Duration
	logger   *zap.Logger

	started atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewSweeper(runner SweepRunner, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled or Stop is
// called. A sweeper can only be started once.
func (s *Sweeper) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	deleted, err := s.runner.SweepAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("sweep failed", zap.Error(err))
		}
		return
	}
	if deleted > 0 {
		s.logger.Info("sweep completed", zap.Int("deleted", deleted))
	}
}
