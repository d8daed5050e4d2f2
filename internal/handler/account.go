package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/model"
	"github.com/iliyamo/ticket-booking/internal/service"
)

// AccountHandler exposes the prepaid balance: refills and reads.
type AccountHandler struct {
	Accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	if accounts == nil {
		panic("nil service passed to NewAccountHandler")
	}
	return &AccountHandler{Accounts: accounts}
}

type refillReq struct {
	AmountCents int64 `json:"amount_cents"`
}

// Refill handles POST /v1/account/refill.  Returns the new balance,
// 400 for a non-positive amount, 404 for an unknown user.
func (h *AccountHandler) Refill(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req refillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	balance, err := h.Accounts.Refill(c.Request().Context(), userID, req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
		case errors.Is(err, model.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("account-handler: refill failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refill failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"balance_cents": balance})
}

// Balance handles GET /v1/account.
func (h *AccountHandler) Balance(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	balance, err := h.Accounts.Balance(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("account-handler: balance failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load balance"})
	}
	return c.JSON(http.StatusOK, echo.Map{"balance_cents": balance})
}
