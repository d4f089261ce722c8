package booking

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cafechostito/reservation-api/internal/model"
)

// fixedClock pins "now" so past-date and completion rules are testable.
type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// memSink records audit calls for assertions.
type memSink struct {
    mu    sync.Mutex
    kinds []string
}

func (s *memSink) Record(_ context.Context, kind, _, _ string) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.kinds = append(s.kinds, kind)
}

func (s *memSink) recorded() []string {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]string, len(s.kinds))
    copy(out, s.kinds)
    return out
}

func newTestService(t *testing.T) (*Service, *MemStore, *memSink) {
    t.Helper()
    cfg := defaultBookingConfig()
    store := NewMemStore()
    sink := &memSink{}
    clock := fixedClock{t: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
    return NewService(store, NewGrid(cfg), clock, sink, cfg), store, sink
}

func TestCheckAvailabilityEmptySlot(t *testing.T) {
    svc, _, _ := newTestService(t)

    res, err := svc.CheckAvailability(context.Background(), "2026-09-01", "12:00")
    require.NoError(t, err)
    assert.True(t, res.Available)
    assert.Equal(t, 10, res.TablesFree)
    assert.Equal(t, 30, res.SeatsFree)
    assert.True(t, res.IsPeakHour)
}

func TestCheckAvailabilityValidation(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    _, err := svc.CheckAvailability(ctx, "bogus", "12:00")
    assert.ErrorIs(t, err, ErrInvalidDate)

    _, err = svc.CheckAvailability(ctx, "2026-09-01", "03:00")
    assert.ErrorIs(t, err, ErrInvalidSlot)

    // Clock reads 2026-09-01 08:00, so yesterday's lunch is in the past.
    _, err = svc.CheckAvailability(ctx, "2026-08-31", "12:00")
    assert.ErrorIs(t, err, ErrPastDate)
}

func TestCreateReservationValidation(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    _, err := svc.CreateReservation(ctx, 1, "2026-09-01", "12:00", 0, "")
    assert.ErrorIs(t, err, ErrInvalidPartySize)

    _, err = svc.CreateReservation(ctx, 1, "2026-09-01", "12:00", 13, "")
    assert.ErrorIs(t, err, ErrInvalidPartySize)

    long := make([]byte, 501)
    for i := range long {
        long[i] = 'x'
    }
    _, err = svc.CreateReservation(ctx, 1, "2026-09-01", "12:00", 2, string(long))
    assert.ErrorIs(t, err, ErrCommentTooLong)

    _, err = svc.CreateReservation(ctx, 1, "2026-08-31", "12:00", 2, "")
    assert.ErrorIs(t, err, ErrPastDate)
}

func TestCreateReservationFillsTables(t *testing.T) {
    svc, _, sink := newTestService(t)
    ctx := context.Background()

    // Ten parties of three occupy all ten tables with seats to spare.
    for i := 0; i < 10; i++ {
        rec, err := svc.CreateReservation(ctx, uint64(i+1), "2026-09-01", "13:00", 3, "")
        require.NoError(t, err)
        assert.Equal(t, model.StatusConfirmed, rec.Status)
        assert.NotEmpty(t, rec.Code)
        assert.NotZero(t, rec.ID)
    }

    res, err := svc.CheckAvailability(ctx, "2026-09-01", "13:00")
    require.NoError(t, err)
    assert.False(t, res.Available)
    assert.Equal(t, 0, res.TablesFree)
    assert.Equal(t, 0, res.SeatsFree, "seats free reports 0 once tables are gone")
    assert.True(t, res.IsPeakHour)

    _, err = svc.CreateReservation(ctx, 99, "2026-09-01", "13:00", 2, "")
    assert.ErrorIs(t, err, ErrNoCapacity)

    assert.Len(t, sink.recorded(), 10)
}

func TestCreateReservationFillsSeats(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    // Three parties of twelve leave 30-24=6... use 12+12+6 to hit exactly 30.
    for _, n := range []int{12, 12, 6} {
        _, err := svc.CreateReservation(ctx, 1, "2026-09-01", "18:00", n, "")
        require.NoError(t, err)
    }

    res, err := svc.CheckAvailability(ctx, "2026-09-01", "18:00")
    require.NoError(t, err)
    assert.Equal(t, 7, res.TablesFree)
    assert.Equal(t, 0, res.SeatsFree)
    assert.False(t, res.Available)

    _, err = svc.CreateReservation(ctx, 2, "2026-09-01", "18:00", 1, "")
    assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestConcurrentLastTable(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    // Nine tables taken; twenty goroutines race for the last one.
    for i := 0; i < 9; i++ {
        _, err := svc.CreateReservation(ctx, 1, "2026-09-01", "20:00", 2, "")
        require.NoError(t, err)
    }

    var wg sync.WaitGroup
    var mu sync.Mutex
    won, lost := 0, 0
    for i := 0; i < 20; i++ {
        wg.Add(1)
        go func(uid uint64) {
            defer wg.Done()
            _, err := svc.CreateReservation(ctx, uid, "2026-09-01", "20:00", 2, "")
            mu.Lock()
            defer mu.Unlock()
            switch {
            case err == nil:
                won++
            case err == ErrNoCapacity:
                lost++
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }(uint64(i + 10))
    }
    wg.Wait()

    assert.Equal(t, 1, won)
    assert.Equal(t, 19, lost)
}

func TestConcurrentFullSlot(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    var wg sync.WaitGroup
    var mu sync.Mutex
    won := 0
    for i := 0; i < 30; i++ {
        wg.Add(1)
        go func(uid uint64) {
            defer wg.Done()
            _, err := svc.CreateReservation(ctx, uid, "2026-09-02", "12:30", 3, "")
            if err == nil {
                mu.Lock()
                won++
                mu.Unlock()
            }
        }(uint64(i + 1))
    }
    wg.Wait()

    // Exactly the table limit gets through; 10 parties of 3 fit 30 seats.
    assert.Equal(t, 10, won)
    res, err := svc.CheckAvailability(ctx, "2026-09-02", "12:30")
    require.NoError(t, err)
    assert.False(t, res.Available)
}

func TestCancelReservation(t *testing.T) {
    svc, _, sink := newTestService(t)
    ctx := context.Background()

    rec, err := svc.CreateReservation(ctx, 7, "2026-09-01", "15:00", 4, "birthday")
    require.NoError(t, err)

    // Non-owner may not cancel; operator may.
    assert.ErrorIs(t, svc.CancelReservation(ctx, rec.ID, 8, false), ErrForbidden)

    require.NoError(t, svc.CancelReservation(ctx, rec.ID, 7, false))

    // Idempotent: a second cancel succeeds without effect or extra audit.
    before := len(sink.recorded())
    require.NoError(t, svc.CancelReservation(ctx, rec.ID, 7, false))
    assert.Len(t, sink.recorded(), before)

    // Capacity is released.
    res, err := svc.CheckAvailability(ctx, "2026-09-01", "15:00")
    require.NoError(t, err)
    assert.Equal(t, 10, res.TablesFree)

    assert.ErrorIs(t, svc.CancelReservation(ctx, 999, 7, false), ErrNotFound)
}

func TestMarkCompleted(t *testing.T) {
    cfg := defaultBookingConfig()
    store := NewMemStore()
    sink := &memSink{}
    clk := fixedClock{t: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
    svc := NewService(store, NewGrid(cfg), clk, sink, cfg)
    ctx := context.Background()

    rec, err := svc.CreateReservation(ctx, 3, "2026-09-01", "12:00", 2, "")
    require.NoError(t, err)

    // Slot ends 12:30 but the clock still reads 08:00.
    assert.ErrorIs(t, svc.MarkCompleted(ctx, rec.ID, 1), ErrSlotNotOver)

    // Move past the slot's end and retry.
    late := NewService(store, NewGrid(cfg),
        fixedClock{t: time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)}, sink, cfg)
    require.NoError(t, late.MarkCompleted(ctx, rec.ID, 1))

    // Idempotent second complete; cancel afterwards conflicts.
    require.NoError(t, late.MarkCompleted(ctx, rec.ID, 1))
    assert.ErrorIs(t, late.CancelReservation(ctx, rec.ID, 3, false), ErrAlreadyTerminal)
}

func TestCompleteCancelledConflicts(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    rec, err := svc.CreateReservation(ctx, 3, "2026-09-01", "12:00", 2, "")
    require.NoError(t, err)
    require.NoError(t, svc.CancelReservation(ctx, rec.ID, 3, false))
    assert.ErrorIs(t, svc.MarkCompleted(ctx, rec.ID, 1), ErrAlreadyTerminal)
}

func TestListCustomerReservationsNewestFirst(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    first, err := svc.CreateReservation(ctx, 5, "2026-09-01", "12:00", 2, "")
    require.NoError(t, err)
    second, err := svc.CreateReservation(ctx, 5, "2026-09-02", "13:00", 2, "")
    require.NoError(t, err)
    _, err = svc.CreateReservation(ctx, 6, "2026-09-01", "12:00", 2, "")
    require.NoError(t, err)

    out, err := svc.ListCustomerReservations(ctx, 5)
    require.NoError(t, err)
    require.Len(t, out, 2)
    assert.Equal(t, second.ID, out[0].ID)
    assert.Equal(t, first.ID, out[1].ID)
}

func TestGetReservationOwnership(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    rec, err := svc.CreateReservation(ctx, 5, "2026-09-01", "12:00", 2, "window seat")
    require.NoError(t, err)

    got, err := svc.GetReservation(ctx, rec.ID, 5, false)
    require.NoError(t, err)
    assert.Equal(t, "window seat", got.Comments)

    _, err = svc.GetReservation(ctx, rec.ID, 6, false)
    assert.ErrorIs(t, err, ErrForbidden)

    // Operators read anything.
    _, err = svc.GetReservation(ctx, rec.ID, 6, true)
    assert.NoError(t, err)
}

func TestListReservationsOperatorView(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()

    a, err := svc.CreateReservation(ctx, 1, "2026-09-01", "12:00", 2, "")
    require.NoError(t, err)
    _, err = svc.CreateReservation(ctx, 2, "2026-09-01", "13:00", 2, "")
    require.NoError(t, err)
    require.NoError(t, svc.CancelReservation(ctx, a.ID, 1, false))

    all, err := svc.ListReservations(ctx, "2026-09-01", "", "")
    require.NoError(t, err)
    assert.Len(t, all, 2)

    slot, err := svc.ListReservations(ctx, "2026-09-01", "12:00", "")
    require.NoError(t, err)
    require.Len(t, slot, 1)
    assert.Equal(t, a.ID, slot[0].ID)

    cancelled, err := svc.ListReservations(ctx, "2026-09-01", "", model.StatusCancelled)
    require.NoError(t, err)
    require.Len(t, cancelled, 1)
    assert.Equal(t, model.StatusCancelled, cancelled[0].Status)

    _, err = svc.ListReservations(ctx, "not-a-date", "", "")
    assert.ErrorIs(t, err, ErrInvalidDate)
    _, err = svc.ListReservations(ctx, "2026-09-01", "03:15", "")
    assert.ErrorIs(t, err, ErrInvalidSlot)
}
