package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to subscribers
type EventPublisher interface {
	// Publish delivers an event to every client connected for the user.
	// Delivery is best-effort; failures are logged, never surfaced.
	Publish(userID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting to the user's clients
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when the
// push channel is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}
