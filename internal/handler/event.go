package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/model"
	"github.com/iliyamo/ticket-booking/internal/repository"
)

// EventHandler exposes event management: admin-gated creation plus
// public browsing.  The booking core only ever reads these rows.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(events *repository.EventRepo) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

type createEventReq struct {
	Title      string `json:"title"`
	StartsAt   string `json:"starts_at"` // RFC3339
	PriceCents int64  `json:"price_cents"`
}

type eventResp struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	StartsAt   string `json:"starts_at"`
	PriceCents int64  `json:"price_cents"`
}

func toEventResp(e *model.Event) eventResp {
	return eventResp{
		ID:         e.ID,
		Title:      e.Title,
		StartsAt:   e.StartsAt.UTC().Format(time.RFC3339),
		PriceCents: e.PriceCents,
	}
}

// Create handles POST /v1/events (ADMIN only, enforced in middleware).
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be non-negative"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	e := &model.Event{Title: req.Title, StartsAt: startsAt.UTC(), PriceCents: req.PriceCents}
	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		log.Printf("event-handler: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, toEventResp(e))
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		log.Printf("event-handler: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSON(http.StatusOK, toEventResp(e))
}

// List handles GET /v1/events.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		log.Printf("event-handler: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	items := make([]eventResp, 0, len(events))
	for i := range events {
		items = append(items, toEventResp(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
