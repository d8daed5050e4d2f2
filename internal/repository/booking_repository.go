package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// BookingRepo owns every read and write the booking, cancellation and
// refill flows perform against the user aggregate, plus the flattened
// booking query.  Mutations are expected to run inside WithTx so the
// aggregate snapshot the checks observe is the one the write applies
// to.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// WithTx runs fn inside a single database transaction.  The booking
// service uses this to make debit + ticket insert one atomic unit.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// UserForUpdate loads the full user aggregate (profile, ledger and
// tickets in insertion order) and, when called inside a transaction,
// locks the user row so concurrent bookings for the same user
// serialize.  Returns model.ErrUserNotFound when no such user exists.
func (r *BookingRepo) UserForUpdate(ctx context.Context, userID uint64) (*model.User, error) {
	sel := `SELECT id, name, email, role, balance_cents, created_at, updated_at
	        FROM users WHERE id = ?`
	if txFromContext(ctx) != nil {
		sel += ` FOR UPDATE`
	}
	var u model.User
	err := q(ctx, r.db).QueryRowContext(ctx, sel, userID).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Account.BalanceCents,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	const ticketQ = `SELECT id, event_id, place, category, created_at
	                 FROM tickets WHERE user_id = ?
	                 ORDER BY created_at, id`
	rows, err := q(ctx, r.db).QueryContext(ctx, ticketQ, userID)
	if err != nil {
		return nil, fmt.Errorf("load tickets for user %d: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Ticket
		var cat string
		if err := rows.Scan(&t.ID, &t.EventID, &t.Place, &cat, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.Category = model.Category(cat)
		u.Tickets = append(u.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return &u, nil
}

// EventByID returns the event or model.ErrEventNotFound.
func (r *BookingRepo) EventByID(ctx context.Context, eventID uint64) (*model.Event, error) {
	const sel = `SELECT id, title, starts_at, price_cents, created_at FROM events WHERE id = ?`
	var e model.Event
	err := q(ctx, r.db).QueryRowContext(ctx, sel, eventID).Scan(
		&e.ID, &e.Title, &e.StartsAt, &e.PriceCents, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event %d: %w", eventID, err)
	}
	return &e, nil
}

// DebitBalance subtracts amountCents from the user's ledger.  The
// service has already verified sufficiency under the row lock; the
// WHERE guard is a final defense that refuses to ever write a negative
// balance.
func (r *BookingRepo) DebitBalance(ctx context.Context, userID uint64, amountCents int64) error {
	const upd = `UPDATE users SET balance_cents = balance_cents - ?, updated_at = NOW()
	             WHERE id = ? AND balance_cents >= ?`
	res, err := q(ctx, r.db).ExecContext(ctx, upd, amountCents, userID, amountCents)
	if err != nil {
		return fmt.Errorf("debit user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit user %d: %w", userID, err)
	}
	if n == 0 {
		return model.ErrInsufficientFunds
	}
	return nil
}

// CreditBalance adds amountCents to the user's ledger and returns the
// new balance.
func (r *BookingRepo) CreditBalance(ctx context.Context, userID uint64, amountCents int64) (int64, error) {
	const upd = `UPDATE users SET balance_cents = balance_cents + ?, updated_at = NOW() WHERE id = ?`
	if _, err := q(ctx, r.db).ExecContext(ctx, upd, amountCents, userID); err != nil {
		return 0, fmt.Errorf("credit user %d: %w", userID, err)
	}
	var balance int64
	const sel = `SELECT balance_cents FROM users WHERE id = ?`
	if err := q(ctx, r.db).QueryRowContext(ctx, sel, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("read balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// InsertTicket persists a new ticket under the user, assigning its
// UUID and creation time on the way in.
func (r *BookingRepo) InsertTicket(ctx context.Context, userID uint64, t *model.Ticket) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	const ins = `INSERT INTO tickets (id, user_id, event_id, place, category, created_at)
	             VALUES (?, ?, ?, ?, ?, ?)`
	_, err := q(ctx, r.db).ExecContext(ctx, ins,
		t.ID, userID, t.EventID, t.Place, string(t.Category), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket for user %d: %w", userID, err)
	}
	return nil
}

// DeleteTicket removes the ticket with the given ID from the user's
// collection.  It reports whether a row was actually removed so the
// service can distinguish "cancelled" from "never existed".
func (r *BookingRepo) DeleteTicket(ctx context.Context, ticketID string, userID uint64) (bool, error) {
	const del = `DELETE FROM tickets WHERE id = ? AND user_id = ?`
	res, err := q(ctx, r.db).ExecContext(ctx, del, ticketID, userID)
	if err != nil {
		return false, fmt.Errorf("delete ticket %s: %w", ticketID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete ticket %s: %w", ticketID, err)
	}
	return n > 0, nil
}

// BookingRowsByEvent runs the flattening query behind the paginated
// booking listing: every (user, ticket) row for the event, ordered by
// user insertion order then ticket insertion order so page boundaries
// are stable across calls, skipping pageSize*pageNum rows and taking
// the next pageSize.
func (r *BookingRepo) BookingRowsByEvent(ctx context.Context, eventID uint64, pageSize, pageNum int) ([]model.BookingRow, error) {
	const sel = `SELECT t.id, t.user_id, t.place, t.category
	             FROM tickets t
	             JOIN users u ON u.id = t.user_id
	             WHERE t.event_id = ?
	             ORDER BY u.id, t.created_at, t.id
	             LIMIT ? OFFSET ?`
	offset := pageSize * pageNum
	rows, err := q(ctx, r.db).QueryContext(ctx, sel, eventID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings for event %d: %w", eventID, err)
	}
	defer rows.Close()
	out := make([]model.BookingRow, 0, pageSize)
	for rows.Next() {
		var br model.BookingRow
		var cat string
		if err := rows.Scan(&br.TicketID, &br.UserID, &br.Place, &cat); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		br.Category = model.Category(cat)
		out = append(out, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return out, nil
}
