// Package events distributes change notifications from the storage layer to
// interested observers and turns them into live query subscriptions.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event is a notification dispatched to observers.
type Event struct {
	// Type is the event type (e.g., "events:changed", "goals:changed").
	Type string

	// Data is the typed payload, usually a TableChanged.
	Data any

	// Context provides execution context for the event.
	Context context.Context
}

// Observer defines the interface for objects that want to be notified of events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	// Returns an error if the observer fails to handle the event.
	OnEvent(event Event) error

	// GetName returns a human-readable name for this observer.
	GetName() string

	// ShouldHandle returns true if this observer should handle the given event type.
	ShouldHandle(eventType string) bool
}

// Publisher is the write side of the dispatcher, used by the data-access layer.
type Publisher interface {
	Dispatch(event Event)
}

// EventDispatcher implements the Observer pattern for event distribution.
// Thread-safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewEventDispatcher creates a new EventDispatcher. A nil logger disables logging.
func NewEventDispatcher(logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{
		observers: make([]Observer, 0),
		logger:    logger.Named("dispatcher"),
	}
}

// Register adds an observer to the dispatcher.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	d.logger.Debug("registered observer", zap.String("observer", observer.GetName()))
}

// Unregister removes an observer from the dispatcher.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			d.logger.Debug("unregistered observer", zap.String("observer", observer.GetName()))
			return
		}
	}
}

// Dispatch sends an event to all registered observers, sequentially.
// An observer error is logged and does not stop delivery to the others.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			d.logger.Warn("observer failed to handle event",
				zap.String("observer", observer.GetName()),
				zap.String("event", event.Type),
				zap.Error(err))
		}
	}
}

// DispatchAsync sends an event to all observers, each in its own goroutine.
func (d *EventDispatcher) DispatchAsync(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		go func(obs Observer) {
			if err := obs.OnEvent(event); err != nil {
				d.logger.Warn("observer failed to handle event",
					zap.String("observer", obs.GetName()),
					zap.String("event", event.Type),
					zap.Error(err))
			}
		}(observer)
	}
}

func (d *EventDispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	return observers
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all registered observers.
func (d *EventDispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
}

// GetTypedData extracts typed data from an Event.
// Returns the zero value and false if the data is not of the expected type.
func GetTypedData[T any](event Event) (T, bool) {
	var zero T
	if event.Data == nil {
		return zero, false
	}
	typed, ok := event.Data.(T)
	return typed, ok
}

var _ Publisher = (*EventDispatcher)(nil)
