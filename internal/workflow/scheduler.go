package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentTasks = 4

// WorkFinder produces the tasks due for a named worker.
type WorkFinder[T any] interface {
	FindRequested(ctx context.Context, name string) ([]T, error)
	MarkCompleted(task T)
}

// Worker executes one task.
type Worker[T any] interface {
	Name() string
	Execute(ctx context.Context, task T) error
}

// Scheduler polls a finder on a fixed interval and hands the tasks to its
// workers. A failing task is logged and retried on the next tick; it never
// stops the loop.
type Scheduler[T any] struct {
	finder   WorkFinder[T]
	workers  []Worker[T]
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a stopped Scheduler.
func NewScheduler[T any](finder WorkFinder[T], workers []Worker[T], interval time.Duration, logger *zap.Logger) *Scheduler[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler[T]{
		finder:   finder,
		workers:  workers,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the polling loop. It runs until ctx is cancelled or Stop is
// called. Starting a running scheduler is a no-op.
func (s *Scheduler[T]) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

// Stop cancels the loop and waits for in-flight tasks to return.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler[T]) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("scheduled run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single polling round for every worker and returns the
// first error encountered, after all tasks have finished.
func (s *Scheduler[T]) RunOnce(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(maxConcurrentTasks)

	for _, w := range s.workers {
		tasks, err := s.finder.FindRequested(ctx, w.Name())
		if err != nil {
			s.logger.Error("failed to find work", zap.String("worker", w.Name()), zap.Error(err))
			g.Go(func() error { return fmt.Errorf("find work for %s: %w", w.Name(), err) })
			continue
		}
		for _, task := range tasks {
			g.Go(func() error {
				if err := w.Execute(ctx, task); err != nil {
					s.logger.Error("task failed", zap.String("worker", w.Name()), zap.Error(err))
					return err
				}
				s.finder.MarkCompleted(task)
				return nil
			})
		}
	}
	return g.Wait()
}
