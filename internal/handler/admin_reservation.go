package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/booking"
    "github.com/cafechostito/reservation-api/internal/model"
)

// AdminReservationHandler serves the operator view of reservations.  Route
// middleware guarantees the caller holds the ADMIN role.
type AdminReservationHandler struct {
    Svc *booking.Service
}

func NewAdminReservationHandler(svc *booking.Service) *AdminReservationHandler {
    return &AdminReservationHandler{Svc: svc}
}

// List answers GET /v1/admin/reservations?date=&slot=&status=.  Date is
// required; slot and status narrow the result.
func (h *AdminReservationHandler) List(c echo.Context) error {
    date := c.QueryParam("date")
    if date == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Svc.ListReservations(ctx, date, c.QueryParam("slot"), c.QueryParam("status"))
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Cancel lets an operator cancel any reservation, bypassing the ownership
// check.  The idempotency rules match the customer endpoint.
func (h *AdminReservationHandler) Cancel(c echo.Context) error {
    uid, _ := userID(c)
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Svc.CancelReservation(ctx, id, uid, true); err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": model.StatusCancelled})
}

// Complete marks a finished visit.  The slot interval must be over; a
// cancelled reservation cannot be completed.
func (h *AdminReservationHandler) Complete(c echo.Context) error {
    uid, _ := userID(c)
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Svc.MarkCompleted(ctx, id, uid); err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": model.StatusCompleted})
}
