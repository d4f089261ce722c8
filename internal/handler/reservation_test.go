package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strconv"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cafechostito/reservation-api/internal/audit"
    "github.com/cafechostito/reservation-api/internal/booking"
    "github.com/cafechostito/reservation-api/internal/config"
    "github.com/cafechostito/reservation-api/internal/model"
)

type testClock struct{ t time.Time }

func (c testClock) Now() time.Time { return c.t }

func newBookingService() *booking.Service {
    cfg := config.BookingConfig{
        SeatsPerSlot:  30,
        TablesPerSlot: 10,
        OpenHour:      9,
        CloseHour:     21,
        SlotMinutes:   30,
        PeakRanges:    "12:00-14:00,19:00-21:00",
        MaxPartySize:  12,
        MaxCommentLen: 500,
    }
    clock := testClock{t: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
    return booking.NewService(booking.NewMemStore(), booking.NewGrid(cfg), clock, audit.NopSink{}, cfg)
}

func newEcho() *echo.Echo {
    e := echo.New()
    e.Validator = NewRequestValidator()
    return e
}

func authedJSONContext(e *echo.Echo, method, target, body string, uid uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
    var rd *strings.Reader
    if body == "" {
        rd = strings.NewReader("")
    } else {
        rd = strings.NewReader(body)
    }
    req := httptest.NewRequest(method, target, rd)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("user_id", uid)
    c.Set("role", role)
    return c, rec
}

func TestCreateReservationEndpoint(t *testing.T) {
    e := newEcho()
    h := NewReservationHandler(newBookingService())

    body := `{"date":"2026-09-01","slot":"12:00","party_size":4,"comments":"terrace"}`
    c, rec := authedJSONContext(e, http.MethodPost, "/v1/reservations", body, 5, "CUSTOMER")
    require.NoError(t, h.Create(c))
    require.Equal(t, http.StatusCreated, rec.Code)

    var got model.Reservation
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
    assert.Equal(t, model.StatusConfirmed, got.Status)
    assert.Equal(t, uint64(5), got.UserID)
    assert.NotEmpty(t, got.Code)
    assert.Equal(t, "terrace", got.Comments)
}

func TestCreateReservationEndpointErrors(t *testing.T) {
    e := newEcho()
    svc := newBookingService()
    h := NewReservationHandler(svc)

    // Off-grid slot maps to 400.
    c, rec := authedJSONContext(e, http.MethodPost, "/v1/reservations",
        `{"date":"2026-09-01","slot":"03:00","party_size":2}`, 5, "CUSTOMER")
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    // Oversized party maps to 422.
    c, rec = authedJSONContext(e, http.MethodPost, "/v1/reservations",
        `{"date":"2026-09-01","slot":"12:00","party_size":13}`, 5, "CUSTOMER")
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

    // Missing fields are caught by the validator before the service runs.
    c, _ = authedJSONContext(e, http.MethodPost, "/v1/reservations",
        `{"date":"2026-09-01"}`, 5, "CUSTOMER")
    err := h.Create(c)
    var httpErr *echo.HTTPError
    require.ErrorAs(t, err, &httpErr)
    assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
}

func TestCreateReservationEndpointFullSlot(t *testing.T) {
    e := newEcho()
    svc := newBookingService()
    h := NewReservationHandler(svc)

    for i := 0; i < 10; i++ {
        c, rec := authedJSONContext(e, http.MethodPost, "/v1/reservations",
            `{"date":"2026-09-01","slot":"13:00","party_size":2}`, uint64(i+1), "CUSTOMER")
        require.NoError(t, h.Create(c))
        require.Equal(t, http.StatusCreated, rec.Code)
    }

    c, rec := authedJSONContext(e, http.MethodPost, "/v1/reservations",
        `{"date":"2026-09-01","slot":"13:00","party_size":2}`, 99, "CUSTOMER")
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelReservationEndpoint(t *testing.T) {
    e := newEcho()
    svc := newBookingService()
    h := NewReservationHandler(svc)

    c, rec := authedJSONContext(e, http.MethodPost, "/v1/reservations",
        `{"date":"2026-09-01","slot":"15:00","party_size":2}`, 5, "CUSTOMER")
    require.NoError(t, h.Create(c))
    var created model.Reservation
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
    id := strconv.FormatUint(created.ID, 10)

    cancel := func(uid uint64, role string) *httptest.ResponseRecorder {
        c, rec := authedJSONContext(e, http.MethodPost, "/v1/reservations/"+id+"/cancel", "", uid, role)
        c.SetParamNames("id")
        c.SetParamValues(id)
        require.NoError(t, h.Cancel(c))
        return rec
    }

    // A stranger gets 403; the owner succeeds; retries stay 200.
    assert.Equal(t, http.StatusForbidden, cancel(6, "CUSTOMER").Code)
    assert.Equal(t, http.StatusOK, cancel(5, "CUSTOMER").Code)
    assert.Equal(t, http.StatusOK, cancel(5, "CUSTOMER").Code)

    // Unknown reservation is 404.
    c, rec = authedJSONContext(e, http.MethodPost, "/v1/reservations/999/cancel", "", 5, "CUSTOMER")
    c.SetParamNames("id")
    c.SetParamValues("999")
    require.NoError(t, h.Cancel(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
    e := newEcho()
    h := NewAvailabilityHandler(newBookingService())

    c, rec := authedJSONContext(e, http.MethodGet, "/v1/availability?date=2026-09-01&slot=12:00", "", 0, "")
    require.NoError(t, h.Check(c))
    require.Equal(t, http.StatusOK, rec.Code)

    var res booking.AvailabilityResult
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
    assert.True(t, res.Available)
    assert.Equal(t, 10, res.TablesFree)
    assert.Equal(t, 30, res.SeatsFree)
    assert.True(t, res.IsPeakHour)

    // Missing params and past dates map to 400.
    c, rec = authedJSONContext(e, http.MethodGet, "/v1/availability?date=2026-09-01", "", 0, "")
    require.NoError(t, h.Check(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = authedJSONContext(e, http.MethodGet, "/v1/availability?date=2026-08-20&slot=12:00", "", 0, "")
    require.NoError(t, h.Check(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlotsEndpoint(t *testing.T) {
    e := newEcho()
    h := NewAvailabilityHandler(newBookingService())

    c, rec := authedJSONContext(e, http.MethodGet, "/v1/slots", "", 0, "")
    require.NoError(t, h.Slots(c))
    require.Equal(t, http.StatusOK, rec.Code)

    var body struct {
        Slots []booking.SlotInfo `json:"slots"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    require.Len(t, body.Slots, 26)
    assert.Equal(t, "09:00", body.Slots[0].Slot)
}
