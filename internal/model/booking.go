package model

import "time"

// BookingRow is the flattened (user, ticket) projection produced by the
// paginated booking query: one row per ticket matching an event, before
// event metadata is joined in.
type BookingRow struct {
	TicketID string
	UserID   uint64
	Place    int
	Category Category
}

// BookingView is the denormalized response shape for a booking: the
// ticket joined with its event's display metadata.  Transient, never
// persisted.
type BookingView struct {
	UserID     uint64    `json:"user_id"`
	TicketID   string    `json:"ticket_id"`
	Place      int       `json:"place"`
	Category   Category  `json:"category"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	PriceCents int64     `json:"price_cents"`
	EventID    uint64    `json:"event_id"`
}
