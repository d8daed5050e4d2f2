package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// fakeStore is an in-memory BookingStore/AccountStore.  WithTx snapshots
// the state and restores it when fn fails, mirroring the rollback
// semantics the services rely on.
type fakeStore struct {
	users  map[uint64]*model.User
	events map[uint64]*model.Event
	seq    int
	now    time.Time

	listErr error // injected failure for BookingRowsByEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[uint64]*model.User{},
		events: map[uint64]*model.Event{},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addUser(id uint64, balanceCents int64) {
	f.users[id] = &model.User{
		ID:      id,
		Name:    fmt.Sprintf("user-%d", id),
		Email:   fmt.Sprintf("user%d@example.com", id),
		Role:    "CUSTOMER",
		Account: model.Account{BalanceCents: balanceCents},
	}
}

func (f *fakeStore) addEvent(id uint64, priceCents int64) *model.Event {
	e := &model.Event{
		ID:         id,
		Title:      fmt.Sprintf("event-%d", id),
		StartsAt:   f.now.Add(48 * time.Hour),
		PriceCents: priceCents,
	}
	f.events[id] = e
	return e
}

func (f *fakeStore) snapshot() map[uint64]*model.User {
	cp := make(map[uint64]*model.User, len(f.users))
	for id, u := range f.users {
		uc := *u
		uc.Tickets = append([]model.Ticket(nil), u.Tickets...)
		cp[id] = &uc
	}
	return cp
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	before := f.snapshot()
	if err := fn(ctx); err != nil {
		f.users = before
		return err
	}
	return nil
}

func (f *fakeStore) UserForUpdate(_ context.Context, userID uint64) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) EventByID(_ context.Context, eventID uint64) (*model.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) DebitBalance(_ context.Context, userID uint64, amountCents int64) error {
	u, ok := f.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	if u.Account.BalanceCents < amountCents {
		return model.ErrInsufficientFunds
	}
	u.Account.BalanceCents -= amountCents
	return nil
}

func (f *fakeStore) CreditBalance(_ context.Context, userID uint64, amountCents int64) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	u.Account.BalanceCents += amountCents
	return u.Account.BalanceCents, nil
}

func (f *fakeStore) InsertTicket(_ context.Context, userID uint64, t *model.Ticket) error {
	u, ok := f.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	f.seq++
	t.ID = fmt.Sprintf("tck-%04d", f.seq)
	t.CreatedAt = f.now.Add(time.Duration(f.seq) * time.Second)
	u.Tickets = append(u.Tickets, *t)
	return nil
}

func (f *fakeStore) DeleteTicket(_ context.Context, ticketID string, userID uint64) (bool, error) {
	u, ok := f.users[userID]
	if !ok {
		return false, model.ErrUserNotFound
	}
	for i, t := range u.Tickets {
		if t.ID == ticketID {
			u.Tickets = append(u.Tickets[:i], u.Tickets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) BookingRowsByEvent(_ context.Context, eventID uint64, pageSize, pageNum int) ([]model.BookingRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]uint64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var all []model.BookingRow
	for _, id := range ids {
		for _, t := range f.users[id].Tickets {
			if t.EventID != eventID {
				continue
			}
			all = append(all, model.BookingRow{
				TicketID: t.ID,
				UserID:   id,
				Place:    t.Place,
				Category: t.Category,
			})
		}
	}
	off := pageSize * pageNum
	if off >= len(all) {
		return nil, nil
	}
	end := off + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[off:end], nil
}

func (f *fakeStore) ticketCount(userID uint64) int { return len(f.users[userID].Tickets) }

func TestBookTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("debits balance and records ticket", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		view, err := svc.BookTicket(ctx, 1, 7, 12, model.CategoryPremium)
		require.NoError(t, err)
		require.NotEmpty(t, view.TicketID)
		require.Equal(t, uint64(1), view.UserID)
		require.Equal(t, uint64(7), view.EventID)
		require.Equal(t, 12, view.Place)
		require.Equal(t, model.CategoryPremium, view.Category)
		require.Equal(t, int64(4000), view.PriceCents)
		require.Equal(t, "event-7", view.EventTitle)

		require.Equal(t, int64(6000), store.users[1].Account.BalanceCents)
		require.Equal(t, 1, store.ticketCount(1))
	})

	t.Run("rejects duplicate seat and leaves state untouched", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 12, model.CategoryPremium)
		require.NoError(t, err)

		_, err = svc.BookTicket(ctx, 1, 7, 12, model.CategoryPremium)
		require.ErrorIs(t, err, model.ErrDuplicateBooking)
		require.Equal(t, int64(6000), store.users[1].Account.BalanceCents)
		require.Equal(t, 1, store.ticketCount(1))
	})

	t.Run("same place in another category is a distinct booking", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 12, model.CategoryPremium)
		require.NoError(t, err)
		_, err = svc.BookTicket(ctx, 1, 7, 12, model.CategoryBar)
		require.NoError(t, err)
		require.Equal(t, int64(2000), store.users[1].Account.BalanceCents)
		require.Equal(t, 2, store.ticketCount(1))
	})

	t.Run("insufficient funds leaves no partial effect", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 1, model.CategoryStandard)
		require.NoError(t, err)
		_, err = svc.BookTicket(ctx, 1, 7, 2, model.CategoryStandard)
		require.NoError(t, err)

		// 2000 left, price is 4000.
		_, err = svc.BookTicket(ctx, 1, 7, 3, model.CategoryStandard)
		require.ErrorIs(t, err, model.ErrInsufficientFunds)
		require.Equal(t, int64(2000), store.users[1].Account.BalanceCents)
		require.Equal(t, 2, store.ticketCount(1))
	})

	t.Run("exact balance books to zero", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 4000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 1, model.CategoryStandard)
		require.NoError(t, err)
		require.Equal(t, int64(0), store.users[1].Account.BalanceCents)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := newFakeStore()
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 99, 7, 1, model.CategoryStandard)
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("unknown event", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 99, 1, model.CategoryStandard)
		require.ErrorIs(t, err, model.ErrEventNotFound)
		require.Equal(t, int64(10000), store.users[1].Account.BalanceCents)
	})

	t.Run("invalid place and category fail before any store call", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 0, model.CategoryStandard)
		require.ErrorIs(t, err, model.ErrInvalidPlace)
		_, err = svc.BookTicket(ctx, 1, 7, -3, model.CategoryStandard)
		require.ErrorIs(t, err, model.ErrInvalidPlace)
		_, err = svc.BookTicket(ctx, 1, 7, 1, model.Category("BALCONY"))
		require.ErrorIs(t, err, model.ErrInvalidCategory)
		require.Equal(t, int64(10000), store.users[1].Account.BalanceCents)
	})
}

func TestCancelTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the ticket without refunding", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		view, err := svc.BookTicket(ctx, 1, 7, 5, model.CategoryStandard)
		require.NoError(t, err)

		require.NoError(t, svc.CancelTicket(ctx, view.TicketID, 1))
		require.Equal(t, 0, store.ticketCount(1))
		require.Equal(t, int64(6000), store.users[1].Account.BalanceCents)

		// A second cancel of the same id fails.
		err = svc.CancelTicket(ctx, view.TicketID, 1)
		require.ErrorIs(t, err, model.ErrTicketNotFound)
	})

	t.Run("frees the seat for rebooking", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		view, err := svc.BookTicket(ctx, 1, 7, 5, model.CategoryStandard)
		require.NoError(t, err)
		require.NoError(t, svc.CancelTicket(ctx, view.TicketID, 1))

		_, err = svc.BookTicket(ctx, 1, 7, 5, model.CategoryStandard)
		require.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := newFakeStore()
		svc := NewBookingService(store)
		err := svc.CancelTicket(ctx, "tck-0001", 42)
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("someone else's ticket is not found", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(1, 10000)
		store.addUser(2, 10000)
		store.addEvent(7, 4000)
		svc := NewBookingService(store)

		view, err := svc.BookTicket(ctx, 1, 7, 5, model.CategoryStandard)
		require.NoError(t, err)

		err = svc.CancelTicket(ctx, view.TicketID, 2)
		require.ErrorIs(t, err, model.ErrTicketNotFound)
		require.Equal(t, 1, store.ticketCount(1))
	})
}

func TestGetBookedTickets(t *testing.T) {
	ctx := context.Background()

	t.Run("nil event yields an empty page", func(t *testing.T) {
		svc := NewBookingService(newFakeStore())
		views, err := svc.GetBookedTickets(ctx, nil, 10, 0)
		require.NoError(t, err)
		require.Empty(t, views)
	})

	t.Run("event with no bookings yields an empty page", func(t *testing.T) {
		store := newFakeStore()
		event := store.addEvent(7, 4000)
		svc := NewBookingService(store)

		views, err := svc.GetBookedTickets(ctx, event, 10, 0)
		require.NoError(t, err)
		require.Empty(t, views)
	})

	t.Run("invalid page parameters", func(t *testing.T) {
		store := newFakeStore()
		event := store.addEvent(7, 4000)
		svc := NewBookingService(store)

		_, err := svc.GetBookedTickets(ctx, event, 0, 0)
		require.ErrorIs(t, err, model.ErrInvalidPage)
		_, err = svc.GetBookedTickets(ctx, event, 10, -1)
		require.ErrorIs(t, err, model.ErrInvalidPage)
	})

	t.Run("pages concatenate to the full stable listing", func(t *testing.T) {
		store := newFakeStore()
		event := store.addEvent(7, 1000)
		for uid := uint64(1); uid <= 3; uid++ {
			store.addUser(uid, 100000)
		}
		svc := NewBookingService(store)

		for uid := uint64(1); uid <= 3; uid++ {
			for place := 1; place <= 3; place++ {
				_, err := svc.BookTicket(ctx, uid, 7, place, model.CategoryStandard)
				require.NoError(t, err)
			}
		}

		full, err := svc.GetBookedTickets(ctx, event, 50, 0)
		require.NoError(t, err)
		require.Len(t, full, 9)

		var paged []model.BookingView
		for page := 0; ; page++ {
			views, err := svc.GetBookedTickets(ctx, event, 4, page)
			require.NoError(t, err)
			if len(views) == 0 {
				break
			}
			paged = append(paged, views...)
		}
		require.Equal(t, full, paged)

		// Grouped by user id in ascending order.
		for i := 1; i < len(full); i++ {
			require.LessOrEqual(t, full[i-1].UserID, full[i].UserID)
		}
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		store := newFakeStore()
		event := store.addEvent(7, 1000)
		store.addUser(1, 100000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 1, model.CategoryStandard)
		require.NoError(t, err)

		views, err := svc.GetBookedTickets(ctx, event, 10, 5)
		require.NoError(t, err)
		require.Empty(t, views)
	})

	t.Run("decorates rows with event metadata", func(t *testing.T) {
		store := newFakeStore()
		event := store.addEvent(7, 2500)
		store.addUser(1, 100000)
		svc := NewBookingService(store)

		_, err := svc.BookTicket(ctx, 1, 7, 4, model.CategoryBar)
		require.NoError(t, err)

		views, err := svc.GetBookedTickets(ctx, event, 10, 0)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.Equal(t, event.Title, views[0].EventTitle)
		require.Equal(t, event.StartsAt, views[0].EventDate)
		require.Equal(t, int64(2500), views[0].PriceCents)
	})

	t.Run("store failures surface as errors", func(t *testing.T) {
		store := newFakeStore()
		event := store.addEvent(7, 1000)
		store.listErr = errors.New("connection reset")
		svc := NewBookingService(store)

		_, err := svc.GetBookedTickets(ctx, event, 10, 0)
		require.Error(t, err)
		require.NotErrorIs(t, err, model.ErrInvalidPage)
	})
}
