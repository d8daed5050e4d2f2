// Package queue defines message payloads exchanged over the message broker.
package queue

// Lifecycle actions carried in TicketLifecycleEvent.
const (
	ActionBooked    = "BOOKED"
	ActionCancelled = "CANCELLED"
)

// TicketLifecycleEvent is published whenever a ticket is booked or
// cancelled.  It contains enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.  Cancellations carry no refund; PriceCents is included so
// a downstream refund policy could be added without a schema change.
type TicketLifecycleEvent struct {
	Action     string `json:"action"`
	TicketID   string `json:"ticket_id"`
	UserID     uint64 `json:"user_id"`
	EventID    uint64 `json:"event_id"`
	EventTitle string `json:"event_title,omitempty"`
	Place      int    `json:"place,omitempty"`
	Category   string `json:"category,omitempty"`
	PriceCents int64  `json:"price_cents,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
