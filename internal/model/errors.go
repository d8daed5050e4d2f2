// Package model holds the booking domain: the user aggregate with its
// embedded account ledger and tickets, events, booking projections and
// the sentinel errors every failure mode maps to.  Handlers translate
// these sentinels into HTTP status codes via errors.Is; the services
// never swallow them.
package model

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrDuplicateBooking  = errors.New("ticket already booked")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidPlace      = errors.New("place must be positive")
	ErrInvalidCategory   = errors.New("unknown ticket category")
	ErrInvalidPage       = errors.New("invalid page parameters")
)
