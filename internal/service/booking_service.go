// Package service implements the booking core: the transaction that
// debits a user's ledger and appends a ticket as one unit, the
// cancellation flow and the paginated booking query.  Services depend
// on store interfaces so the data layer can be swapped for fakes in
// tests.
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// BookingStore is the persistence surface the booking engine needs.
// Implementations must guarantee that everything inside WithTx commits
// or rolls back atomically and that UserForUpdate serializes access to
// the user aggregate for the duration of the transaction.
type BookingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	UserForUpdate(ctx context.Context, userID uint64) (*model.User, error)
	EventByID(ctx context.Context, eventID uint64) (*model.Event, error)
	DebitBalance(ctx context.Context, userID uint64, amountCents int64) error
	InsertTicket(ctx context.Context, userID uint64, t *model.Ticket) error
	DeleteTicket(ctx context.Context, ticketID string, userID uint64) (bool, error)
	BookingRowsByEvent(ctx context.Context, eventID uint64, pageSize, pageNum int) ([]model.BookingRow, error)
}

// BookingService orchestrates booking, cancellation and the paginated
// booking listing.
type BookingService struct {
	store BookingStore
}

// NewBookingService constructs a BookingService.  The store must be
// non-nil.
func NewBookingService(store BookingStore) *BookingService {
	if store == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{store: store}
}

// BookTicket reserves (eventID, place, category) for the user,
// contingent on funds.  Precondition gates run in order, each
// fast-failing with its own sentinel: user exists, event exists, no
// duplicate booking, sufficient balance.  On success the debit and the
// ticket insert commit as one transaction; on any failure nothing is
// written.
func (s *BookingService) BookTicket(ctx context.Context, userID, eventID uint64, place int, category model.Category) (*model.BookingView, error) {
	if place <= 0 {
		return nil, model.ErrInvalidPlace
	}
	switch category {
	case model.CategoryPremium, model.CategoryStandard, model.CategoryBar:
	default:
		return nil, model.ErrInvalidCategory
	}

	var view *model.BookingView
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		user, err := s.store.UserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		event, err := s.store.EventByID(ctx, eventID)
		if err != nil {
			return err
		}
		if user.HasBooking(eventID, place, category) {
			return model.ErrDuplicateBooking
		}
		if user.Account.BalanceCents < event.PriceCents {
			return model.ErrInsufficientFunds
		}
		if err := s.store.DebitBalance(ctx, userID, event.PriceCents); err != nil {
			return err
		}
		ticket := &model.Ticket{EventID: eventID, Place: place, Category: category}
		if err := s.store.InsertTicket(ctx, userID, ticket); err != nil {
			return err
		}
		view = &model.BookingView{
			UserID:     userID,
			TicketID:   ticket.ID,
			Place:      ticket.Place,
			Category:   ticket.Category,
			EventTitle: event.Title,
			EventDate:  event.StartsAt,
			PriceCents: event.PriceCents,
			EventID:    event.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("booking: user %d booked ticket %s for event %d (place %d, %s)",
		userID, view.TicketID, eventID, place, category)
	return view, nil
}

// CancelTicket removes the identified ticket from the owning user.
// The balance is not refunded.  Fails with model.ErrTicketNotFound
// when the user holds no such ticket.
func (s *BookingService) CancelTicket(ctx context.Context, ticketID string, userID uint64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.UserForUpdate(ctx, userID); err != nil {
			return err
		}
		removed, err := s.store.DeleteTicket(ctx, ticketID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return model.ErrTicketNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("booking: user %d cancelled ticket %s", userID, ticketID)
	return nil
}

// GetBookedTickets returns one page of booking views for the event.
// A nil event yields an empty page, not an error; so does a valid
// event with no bookings or a page past the end.  Only transport and
// query failures surface as errors.
func (s *BookingService) GetBookedTickets(ctx context.Context, event *model.Event, pageSize, pageNum int) ([]model.BookingView, error) {
	if event == nil {
		return []model.BookingView{}, nil
	}
	if pageSize < 1 || pageNum < 0 {
		return nil, model.ErrInvalidPage
	}
	rows, err := s.store.BookingRowsByEvent(ctx, event.ID, pageSize, pageNum)
	if err != nil {
		return nil, fmt.Errorf("booked tickets for event %d: %w", event.ID, err)
	}
	views := make([]model.BookingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, model.BookingView{
			UserID:     row.UserID,
			TicketID:   row.TicketID,
			Place:      row.Place,
			Category:   row.Category,
			EventTitle: event.Title,
			EventDate:  event.StartsAt,
			PriceCents: event.PriceCents,
			EventID:    event.ID,
		})
	}
	return views, nil
}
