// Package handler implements the HTTP layer over the booking,
// account, event and auth services.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/model"
	"github.com/iliyamo/ticket-booking/internal/queue"
	"github.com/iliyamo/ticket-booking/internal/service"
)

// EventLookup resolves an event by ID for the listing endpoint.
// *repository.EventRepo satisfies it.
type EventLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// BookingHandler exposes booking, cancellation and the paginated
// per-event booking listing.  The authenticated user from the JWT is
// the booking party; JWT validation has already happened in
// middleware.
type BookingHandler struct {
	Bookings *service.BookingService
	Events   EventLookup
}

// NewBookingHandler constructs a BookingHandler.  Dependencies must be
// non-nil.
func NewBookingHandler(bookings *service.BookingService, events EventLookup) *BookingHandler {
	if bookings == nil || events == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Events: events}
}

type bookReq struct {
	EventID  uint64 `json:"event_id"`
	Place    int    `json:"place"`
	Category string `json:"category"`
}

// Book handles POST /v1/bookings.  Returns 201 with the booking view,
// 404 for unknown user/event, 409 for a duplicate booking or
// insufficient funds, 400 for malformed input.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	category, err := model.ParseCategory(req.Category)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	ctx := c.Request().Context()
	view, err := h.Bookings.BookTicket(ctx, userID, req.EventID, req.Place, category)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, model.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, model.ErrDuplicateBooking):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already booked"})
		case errors.Is(err, model.ErrInsufficientFunds):
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient funds"})
		case errors.Is(err, model.ErrInvalidPlace):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "place must be positive"})
		}
		log.Printf("booking-handler: book failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	// Broker trouble must not fail a booking that already committed.
	_ = queue.PublishTicketLifecycle(ctx, queue.TicketLifecycleEvent{
		Action:     queue.ActionBooked,
		TicketID:   view.TicketID,
		UserID:     view.UserID,
		EventID:    view.EventID,
		EventTitle: view.EventTitle,
		Place:      view.Place,
		Category:   string(view.Category),
		PriceCents: view.PriceCents,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, view)
}

// Cancel handles DELETE /v1/tickets/:id.  Returns 204 on success and
// 404 when the caller holds no such ticket.  The balance is not
// refunded.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID := c.Param("id")
	if ticketID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx := c.Request().Context()
	if err := h.Bookings.CancelTicket(ctx, ticketID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, model.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		log.Printf("booking-handler: cancel failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	_ = queue.PublishTicketLifecycle(ctx, queue.TicketLifecycleEvent{
		Action:     queue.ActionCancelled,
		TicketID:   ticketID,
		UserID:     userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.NoContent(http.StatusNoContent)
}

// ListByEvent handles GET /v1/events/:id/tickets.  An unknown event
// yields 200 with an empty list, mirroring the query service's
// "absent event is not an error" contract.  page_size defaults to 20,
// page_num to 0.
func (h *BookingHandler) ListByEvent(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	pageSize := 20
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageSize = n
		}
	}
	pageNum := 0
	if v := c.QueryParam("page_num"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageNum = n
		}
	}

	ctx := c.Request().Context()
	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil && !errors.Is(err, model.ErrEventNotFound) {
		log.Printf("booking-handler: load event failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}

	views, err := h.Bookings.GetBookedTickets(ctx, event, pageSize, pageNum)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPage) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page parameters"})
		}
		log.Printf("booking-handler: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}
