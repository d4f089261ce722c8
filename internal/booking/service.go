package booking

import (
    "context"
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/google/uuid"

    "github.com/cafechostito/reservation-api/internal/audit"
    "github.com/cafechostito/reservation-api/internal/config"
    "github.com/cafechostito/reservation-api/internal/model"
)

// AvailabilityResult answers "can a party be seated at this slot?".
// TablesFree and SeatsFree are clamped at zero.  IsPeakHour is advisory
// only; a peak slot with capacity is still bookable.
type AvailabilityResult struct {
    Available  bool `json:"available"`
    TablesFree int  `json:"tables_free"`
    SeatsFree  int  `json:"seats_free"`
    IsPeakHour bool `json:"is_peak_hour"`
}

// Service implements the availability and booking operations on top of an
// injected Store, Clock and audit sink.  It holds no mutable state of its
// own; all contention is resolved inside the Store's atomic insert.
type Service struct {
    store Store
    grid  *Grid
    clock Clock
    sink  audit.Sink
    cfg   config.BookingConfig
}

// NewService wires a Service.  All dependencies must be non-nil; pass
// audit.NopSink{} when no broker is configured.
func NewService(store Store, grid *Grid, clock Clock, sink audit.Sink, cfg config.BookingConfig) *Service {
    if store == nil || grid == nil || clock == nil || sink == nil {
        panic("nil dependency passed to booking.NewService")
    }
    return &Service{store: store, grid: grid, clock: clock, sink: sink, cfg: cfg}
}

// Grid exposes the slot grid for the public slots endpoint.
func (s *Service) Grid() *Grid { return s.grid }

// CheckAvailability reports remaining capacity for a date and slot.  It is
// a pure read: safe to call repeatedly and concurrently, and its answer is
// only a hint — CreateReservation re-verifies capacity at commit time.
func (s *Service) CheckAvailability(ctx context.Context, date, slot string) (AvailabilityResult, error) {
    if err := s.validateSlot(date, slot); err != nil {
        return AvailabilityResult{}, err
    }
    confirmed, err := s.queryConfirmed(ctx, date, slot)
    if err != nil {
        return AvailabilityResult{}, err
    }
    tablesUsed := len(confirmed)
    seatsUsed := 0
    for _, r := range confirmed {
        seatsUsed += r.PartySize
    }
    tablesFree := s.cfg.TablesPerSlot - tablesUsed
    seatsFree := s.cfg.SeatsPerSlot - seatsUsed
    if tablesFree < 0 {
        tablesFree = 0
    }
    if seatsFree < 0 {
        seatsFree = 0
    }
    return AvailabilityResult{
        Available:  tablesFree > 0 && seatsFree > 0,
        TablesFree: tablesFree,
        SeatsFree:  seatsFree,
        IsPeakHour: s.grid.IsPeak(slot),
    }, nil
}

// CreateReservation validates the request and commits it through the
// Store's atomic capacity-checked insert.  Two concurrent calls competing
// for the last table resolve to exactly one success and one ErrNoCapacity.
// A transport failure is surfaced as ErrStoreUnavailable without retry:
// the insert is not idempotent, so the caller must re-query by code or id
// instead of resubmitting blindly.
func (s *Service) CreateReservation(ctx context.Context, customerID uint64, date, slot string, partySize int, comments string) (model.Reservation, error) {
    if err := s.validateSlot(date, slot); err != nil {
        return model.Reservation{}, err
    }
    if partySize < 1 || partySize > s.cfg.MaxPartySize {
        return model.Reservation{}, ErrInvalidPartySize
    }
    if s.cfg.MaxCommentLen > 0 && len(comments) > s.cfg.MaxCommentLen {
        return model.Reservation{}, ErrCommentTooLong
    }

    rec := model.Reservation{
        Code:      uuid.NewString(),
        UserID:    customerID,
        Date:      date,
        TimeSlot:  slot,
        PartySize: partySize,
        Status:    model.StatusConfirmed,
        Comments:  comments,
    }
    if err := s.store.InsertIfCapacityAvailable(ctx, &rec, s.cfg.SeatsPerSlot, s.cfg.TablesPerSlot); err != nil {
        if errors.Is(err, ErrNoCapacity) {
            return model.Reservation{}, ErrNoCapacity
        }
        return model.Reservation{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
    }

    s.sink.Record(ctx, audit.KindReservationCreated, actor(customerID),
        fmt.Sprintf("code=%s date=%s slot=%s party=%d", rec.Code, date, slot, partySize))
    return rec, nil
}

// CancelReservation transitions a confirmed reservation to CANCELLED.  The
// caller must be the owning customer or an operator.  Cancelling an
// already-cancelled reservation succeeds without effect so clients can
// retry safely; a COMPLETED reservation is immutable.
func (s *Service) CancelReservation(ctx context.Context, id, requestedBy uint64, operator bool) error {
    rec, err := s.getByID(ctx, id)
    if err != nil {
        return err
    }
    if !operator && rec.UserID != requestedBy {
        return ErrForbidden
    }
    switch rec.Status {
    case model.StatusCancelled:
        return nil // idempotent
    case model.StatusCompleted:
        return ErrAlreadyTerminal
    }

    ok, err := s.store.UpdateStatus(ctx, id, model.StatusConfirmed, model.StatusCancelled)
    if err != nil {
        // Safe to retry verbatim: the conditional update is idempotent.
        if ok, err = s.store.UpdateStatus(ctx, id, model.StatusConfirmed, model.StatusCancelled); err != nil {
            return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
        }
    }
    if !ok {
        // Lost a race with another transition; re-read to see which.
        rec, err = s.getByID(ctx, id)
        if err != nil {
            return err
        }
        if rec.Status == model.StatusCancelled {
            return nil
        }
        return ErrAlreadyTerminal
    }

    s.sink.Record(ctx, audit.KindReservationCancelled, actor(requestedBy),
        fmt.Sprintf("code=%s date=%s slot=%s", rec.Code, rec.Date, rec.TimeSlot))
    return nil
}

// MarkCompleted transitions a confirmed reservation to COMPLETED.  Only
// operators reach this path (enforced by route middleware) and only once
// the slot's interval has closed per the Clock.  A cancelled reservation
// cannot be completed; completing twice is a no-op success.
func (s *Service) MarkCompleted(ctx context.Context, id uint64, requestedBy uint64) error {
    rec, err := s.getByID(ctx, id)
    if err != nil {
        return err
    }
    switch rec.Status {
    case model.StatusCompleted:
        return nil // idempotent
    case model.StatusCancelled:
        return ErrAlreadyTerminal
    }
    end, err := s.grid.SlotEnd(rec.Date, rec.TimeSlot)
    if err != nil {
        return err
    }
    if end.After(s.clock.Now()) {
        return ErrSlotNotOver
    }

    ok, err := s.store.UpdateStatus(ctx, id, model.StatusConfirmed, model.StatusCompleted)
    if err != nil {
        return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
    }
    if !ok {
        rec, err = s.getByID(ctx, id)
        if err != nil {
            return err
        }
        if rec.Status == model.StatusCompleted {
            return nil
        }
        return ErrAlreadyTerminal
    }

    s.sink.Record(ctx, audit.KindReservationCompleted, actor(requestedBy),
        fmt.Sprintf("code=%s date=%s slot=%s", rec.Code, rec.Date, rec.TimeSlot))
    return nil
}

// GetReservation returns one reservation.  Unless the caller is an
// operator, reading someone else's reservation is ErrForbidden.
func (s *Service) GetReservation(ctx context.Context, id, requestedBy uint64, operator bool) (model.Reservation, error) {
    rec, err := s.getByID(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    if !operator && rec.UserID != requestedBy {
        return model.Reservation{}, ErrForbidden
    }
    return rec, nil
}

// ListCustomerReservations returns the customer's reservations, newest first.
func (s *Service) ListCustomerReservations(ctx context.Context, customerID uint64) ([]model.Reservation, error) {
    out, err := s.store.ListByCustomer(ctx, customerID)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
    }
    return out, nil
}

// ListReservations is the operator view: all reservations for a date,
// optionally narrowed by slot and status.
func (s *Service) ListReservations(ctx context.Context, date, slot, status string) ([]model.Reservation, error) {
    if _, err := time.ParseInLocation(DateLayout, date, time.UTC); err != nil {
        return nil, ErrInvalidDate
    }
    if slot != "" && !s.grid.Contains(slot) {
        return nil, ErrInvalidSlot
    }
    out, err := s.store.QueryByDateSlot(ctx, date, slot, status)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
    }
    return out, nil
}

// validateSlot checks the grid membership and past-date rules shared by
// reads and writes.
func (s *Service) validateSlot(date, slot string) error {
    start, err := s.grid.SlotStart(date, slot)
    if err != nil {
        return err
    }
    if start.Before(s.clock.Now()) {
        return ErrPastDate
    }
    return nil
}

// queryConfirmed reads the confirmed reservations of a slot, retrying once
// on transport failure since reads are idempotent.
func (s *Service) queryConfirmed(ctx context.Context, date, slot string) ([]model.Reservation, error) {
    recs, err := s.store.QueryByDateSlot(ctx, date, slot, model.StatusConfirmed)
    if err != nil {
        if recs, err = s.store.QueryByDateSlot(ctx, date, slot, model.StatusConfirmed); err != nil {
            return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
        }
    }
    return recs, nil
}

// getByID reads one reservation, retrying once on transport failure.
func (s *Service) getByID(ctx context.Context, id uint64) (model.Reservation, error) {
    rec, err := s.store.GetByID(ctx, id)
    if errors.Is(err, ErrNotFound) {
        return model.Reservation{}, ErrNotFound
    }
    if err != nil {
        if rec, err = s.store.GetByID(ctx, id); err != nil {
            if errors.Is(err, ErrNotFound) {
                return model.Reservation{}, ErrNotFound
            }
            return model.Reservation{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
        }
    }
    return rec, nil
}

func actor(userID uint64) string { return "user:" + strconv.FormatUint(userID, 10) }
