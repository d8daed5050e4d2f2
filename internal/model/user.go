package model

import "time"

// User is the booking aggregate: profile fields, the embedded account
// ledger and the collection of tickets the user holds.  The ledger and
// the tickets are only ever mutated together, inside a transaction
// scoped to this user, so a booking can never half-apply.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (CUSTOMER or ADMIN).
//  Account      – embedded spendable balance.
//  Tickets      – tickets held by the user, in insertion order.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Account      Account
	Tickets      []Ticket
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Account is the user's ledger.  BalanceCents stays non-negative after
// every successful operation; a debit that would take it below zero
// fails before any state is written.
type Account struct {
	BalanceCents int64
}

// HasBooking reports whether the user already holds a ticket for the
// given (event, place, category) combination.  This is the
// anti-double-booking check; it runs over the aggregate snapshot loaded
// in the same transaction that performs the write.
func (u *User) HasBooking(eventID uint64, place int, category Category) bool {
	for _, t := range u.Tickets {
		if t.EventID == eventID && t.Place == place && t.Category == category {
			return true
		}
	}
	return false
}
