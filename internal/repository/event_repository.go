package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// EventRepo provides CRUD over the events table.  Events are owned by
// the event-management endpoints; the booking core only reads them.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts an event and populates its generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (title, starts_at, price_cents) VALUES (?,?,?)",
		e.Title, e.StartsAt.UTC(), e.PriceCents)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = uint64(id)
	return nil
}

// GetByID returns the event or model.ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, title, starts_at, price_cents, created_at FROM events WHERE id = ?",
		id).Scan(&e.ID, &e.Title, &e.StartsAt, &e.PriceCents, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event %d: %w", id, err)
	}
	return &e, nil
}

// List returns all events ordered by start time.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, title, starts_at, price_cents, created_at FROM events ORDER BY starts_at, id")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.StartsAt, &e.PriceCents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
