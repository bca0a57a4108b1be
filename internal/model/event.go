package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a notification emitted by the order desk.
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
	EventOrderReady         EventType = "order.ready"
	EventOrderCompleted     EventType = "order.completed"
	EventOrderRushed        EventType = "order.rushed"
	EventOrderMoved         EventType = "order.moved"
	EventOrderRemoved       EventType = "order.removed"
	EventOrderErased        EventType = "order.erased"
	EventDueDateSet         EventType = "order.due_date_set"
	EventReviewCreated      EventType = "review.created"
	EventTokenIssued        EventType = "token.issued"
	EventTokenRemoved       EventType = "token.removed"
	EventOrdersAttention    EventType = "orders.attention"
)

// Event is a notification for external delivery. Recipient is the
// customer the event concerns, if any.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       EventType      `json:"type"`
	OrderCode  string         `json:"orderCode,omitempty"`
	Recipient  string         `json:"recipient,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Message    string         `json:"message"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with a fresh id.
func NewEvent(eventType EventType, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: at,
	}
}
