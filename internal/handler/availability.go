package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/booking"
)

// AvailabilityHandler serves the public capacity and slot grid endpoints.
type AvailabilityHandler struct {
    Svc *booking.Service
}

func NewAvailabilityHandler(svc *booking.Service) *AvailabilityHandler {
    return &AvailabilityHandler{Svc: svc}
}

// Check answers GET /v1/availability?date=YYYY-MM-DD&slot=HH:MM.  The
// answer is a snapshot; booking re-checks capacity at commit time.
func (h *AvailabilityHandler) Check(c echo.Context) error {
    date := c.QueryParam("date")
    slot := c.QueryParam("slot")
    if date == "" || slot == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and slot are required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    res, err := h.Svc.CheckAvailability(ctx, date, slot)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Slots answers GET /v1/slots with the configured grid so booking forms
// render the same hours the server accepts.
func (h *AvailabilityHandler) Slots(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"slots": h.Svc.Grid().Slots()})
}
