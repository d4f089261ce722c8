// Package handler contains the Echo HTTP handlers for the reservation API.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/booking"
)

// dbTimeout bounds every database round trip made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a timeout-bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// userID returns the authenticated user's ID placed by the JWT middleware.
func userID(c echo.Context) (uint64, bool) {
    v, ok := c.Get("user_id").(uint64)
    return v, ok
}

// isAdmin reports whether the authenticated user carries the ADMIN role.
func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == "ADMIN"
}

// idParam parses the :id path parameter.
func idParam(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// bookingError translates booking package sentinels into HTTP responses.
// Validation of the request's shape maps to 400, domain rule violations to
// 422, capacity and state conflicts to 409, and transient storage trouble
// to 503 so clients know a retry may help.
func bookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrInvalidDate):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
    case errors.Is(err, booking.ErrInvalidSlot):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot is not on the booking grid"})
    case errors.Is(err, booking.ErrPastDate):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot is in the past"})
    case errors.Is(err, booking.ErrInvalidPartySize):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "party size out of range"})
    case errors.Is(err, booking.ErrCommentTooLong):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "comment too long"})
    case errors.Is(err, booking.ErrNoCapacity):
        return c.JSON(http.StatusConflict, echo.Map{"error": "no capacity left for this slot"})
    case errors.Is(err, booking.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    case errors.Is(err, booking.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
    case errors.Is(err, booking.ErrAlreadyTerminal):
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is in a terminal state"})
    case errors.Is(err, booking.ErrSlotNotOver):
        return c.JSON(http.StatusConflict, echo.Map{"error": "slot has not finished yet"})
    case errors.Is(err, booking.ErrStoreUnavailable):
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
