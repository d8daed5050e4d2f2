package model

import "time"

// Event is a bookable event.  Read-only from the booking core's
// perspective; rows are created and maintained by the event management
// endpoints and referenced from tickets by ID only.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – display title.
//  StartsAt   – date and time of the event, UTC.
//  PriceCents – ticket price in cents, non-negative.
//  CreatedAt  – timestamp of creation.
type Event struct {
	ID         uint64
	Title      string
	StartsAt   time.Time
	PriceCents int64
	CreatedAt  time.Time
}
