package gui

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Scope runs background writes on behalf of one screen. Closing the scope
// cancels whatever is still running and waits for it to stop.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger

	mu      sync.Mutex
	lastErr error
	closed  bool
}

// NewScope creates a scope bound to parent.
func NewScope(parent context.Context, logger *zap.Logger) *Scope {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(background(parent))
	return &Scope{ctx: ctx, cancel: cancel, logger: logger}
}

// Context returns the scope's context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Launch runs fn in the background. Errors are logged and kept for Err.
// Launching on a closed scope does nothing.
func (s *Scope) Launch(name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := fn(s.ctx); err != nil {
			if s.ctx.Err() == nil {
				s.logger.Warn("background task failed", zap.String("task", name), zap.Error(err))
			}
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
		}
	}()
}

// Wait blocks until every launched task has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Err returns the most recent task error.
func (s *Scope) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close cancels running tasks and waits for them.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
