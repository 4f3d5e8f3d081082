package websocket

import (
	"github.com/ramonehamilton/hooplog/internal/events"
)

// WebSocketObserver relays table change events to WebSocket clients.
// Clients receive {"type": "<table>:changed", "data": {table, operation, id}}
// and reload whatever they display from that table.
type WebSocketObserver struct {
	name string
	hub  *Hub
}

// NewWebSocketObserver creates a new observer that forwards events to WebSocket clients.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent forwards the event to all connected WebSocket clients.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		return nil
	}
	o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Data})
	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle accepts table change events only.
func (o *WebSocketObserver) ShouldHandle(eventType string) bool {
	_, ok := events.TableOf(eventType)
	return ok
}

var _ events.Observer = (*WebSocketObserver)(nil)
