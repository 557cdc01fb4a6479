package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	ReviewCreated        = "review.created"
	ReviewUpdated        = "review.updated"
	ReviewDeleted        = "review.deleted"
)

// Event is the envelope published to the broker. Type doubles as the
// routing key.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func New(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type BookingPayload struct {
	BookingID      string `json:"booking_id"`
	ServiceID      string `json:"service_id"`
	CustomerID     string `json:"customer_id"`
	ProviderID     string `json:"provider_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	ChangedBy      string `json:"changed_by,omitempty"`
}

type ReviewPayload struct {
	ReviewID    string  `json:"review_id"`
	ServiceID   string  `json:"service_id"`
	ProviderID  string  `json:"provider_id"`
	CustomerID  string  `json:"customer_id"`
	Rating      int     `json:"rating"`
	ServiceAvg  float64 `json:"service_rating"`
	ReviewCount int     `json:"review_count"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
