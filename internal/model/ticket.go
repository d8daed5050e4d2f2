package model

import (
	"strings"
	"time"
)

// Category is the seating class a ticket is sold in.
type Category string

const (
	CategoryPremium  Category = "PREMIUM"
	CategoryStandard Category = "STANDARD"
	CategoryBar      Category = "BAR"
)

// ParseCategory normalizes and validates a category name supplied by a
// client.  Unknown values fail with ErrInvalidCategory.
func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryPremium:
		return CategoryPremium, nil
	case CategoryStandard:
		return CategoryStandard, nil
	case CategoryBar:
		return CategoryBar, nil
	}
	return "", ErrInvalidCategory
}

// Ticket is one successful booking held by a user.  The ID is a UUID
// assigned when the ticket is persisted.  Within a user the tuple
// (EventID, Place, Category) is unique.
//
// Fields:
//  ID        – UUID assigned on persistence.
//  EventID   – event the ticket belongs to.
//  Place     – opaque positive place number.
//  Category  – seating class.
//  CreatedAt – timestamp of booking; part of the stable query order.
type Ticket struct {
	ID        string
	EventID   uint64
	Place     int
	Category  Category
	CreatedAt time.Time
}
