package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/booking"
    "github.com/cafechostito/reservation-api/internal/model"
)

// ReservationHandler serves the customer-facing reservation endpoints.
type ReservationHandler struct {
    Svc *booking.Service
}

func NewReservationHandler(svc *booking.Service) *ReservationHandler {
    return &ReservationHandler{Svc: svc}
}

type createReservationReq struct {
    Date      string `json:"date" validate:"required"`
    Slot      string `json:"slot" validate:"required"`
    PartySize int    `json:"party_size" validate:"required,min=1"`
    Comments  string `json:"comments"`
}

// Create books a table.  201 with the stored reservation on success, 409
// when the slot is full, 400/422 on validation trouble.
func (h *ReservationHandler) Create(c echo.Context) error {
    uid, ok := userID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rec, err := h.Svc.CreateReservation(ctx, uid, req.Date, req.Slot, req.PartySize, req.Comments)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusCreated, rec)
}

// Mine lists the caller's reservations, newest first.
func (h *ReservationHandler) Mine(c echo.Context) error {
    uid, ok := userID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Svc.ListCustomerReservations(ctx, uid)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get returns one reservation.  Admins can read any; customers only their own.
func (h *ReservationHandler) Get(c echo.Context) error {
    uid, ok := userID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rec, err := h.Svc.GetReservation(ctx, id, uid, isAdmin(c))
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, rec)
}

// Cancel moves a confirmed reservation to CANCELLED.  Repeating the call
// keeps returning 200; a completed reservation yields 409.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    uid, ok := userID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Svc.CancelReservation(ctx, id, uid, isAdmin(c)); err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": model.StatusCancelled})
}
