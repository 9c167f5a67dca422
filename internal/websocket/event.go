package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event pushed to clients
type EventType string

const (
	EventTypeTotalsUpdated EventType = "totalsUpdated"
)

// TotalsTopic returns the per-user topic name for totals updates.
// Topic names are always derived through this function, never assembled
// at call sites.
func TotalsTopic(userID uuid.UUID) string {
	return string(EventTypeTotalsUpdated) + ":" + userID.String()
}

// Event represents a push message sent to clients
// Format: { topic, type, payload, timestamp }
type Event struct {
	Topic     string      `json:"topic"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event for the given type, topic and payload
func NewEvent(eventType EventType, topic string, payload interface{}) Event {
	return Event{
		Topic:     topic,
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TotalsUpdated creates a totalsUpdated event on the user's topic
func TotalsUpdated(userID uuid.UUID, payload interface{}) Event {
	return NewEvent(EventTypeTotalsUpdated, TotalsTopic(userID), payload)
}
