package events

import (
	"context"
	"strings"
	"sync"
)

// LoadFunc produces a fresh snapshot of a query result.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Subscription is a live query. It emits an initial snapshot and a new one
// after every change to a watched table. It has a single consumer.
type Subscription[T any] struct {
	ch     chan T
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Watch starts a subscription that re-runs load whenever one of tables
// changes. The subscription ends when ctx is cancelled, Cancel is called, or
// load fails. Changes that arrive while a snapshot is waiting to be consumed
// are coalesced into a single reload.
func Watch[T any](ctx context.Context, d *EventDispatcher, tables []string, load LoadFunc[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		ch:     make(chan T),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	obs := newTableObserver("subscription:"+strings.Join(tables, ","), tables)
	d.Register(obs)

	go s.run(ctx, d, obs, load)
	return s
}

func (s *Subscription[T]) run(ctx context.Context, d *EventDispatcher, obs *tableObserver, load LoadFunc[T]) {
	defer close(s.done)
	defer close(s.ch)
	defer d.Unregister(obs)

	for {
		value, err := load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.setErr(err)
			}
			return
		}

		select {
		case s.ch <- value:
		case <-ctx.Done():
			return
		}

		select {
		case <-obs.signal:
		case <-ctx.Done():
			return
		}
	}
}

// C returns the channel of snapshots. It is closed when the subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Cancel ends the subscription and waits for its goroutine to exit.
// Safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.cancel()
	<-s.done
}

// Done is closed once the subscription has fully stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the load error that ended the subscription, if any.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription[T]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Map derives a subscription whose snapshots are fn applied to the parent's.
// Cancelling the derived subscription cancels the parent.
func Map[T, U any](parent *Subscription[T], fn func(T) U) *Subscription[U] {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscription[U]{
		ch:     make(chan U),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.ch)
		defer parent.Cancel()

		for {
			select {
			case v, ok := <-parent.C():
				if !ok {
					s.setErr(parent.Err())
					return
				}
				select {
				case s.ch <- fn(v):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}
