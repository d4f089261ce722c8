package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cafechostito/reservation-api/internal/config"
)

func defaultBookingConfig() config.BookingConfig {
    return config.BookingConfig{
        SeatsPerSlot:  30,
        TablesPerSlot: 10,
        OpenHour:      9,
        CloseHour:     21,
        SlotMinutes:   30,
        PeakRanges:    "12:00-14:00,19:00-21:00",
        MaxPartySize:  12,
        MaxCommentLen: 500,
    }
}

func TestGridGeneration(t *testing.T) {
    g := NewGrid(defaultBookingConfig())
    slots := g.Slots()

    // 13 hours (09..21 inclusive) at half-hour granularity.
    require.Len(t, slots, 26)
    assert.Equal(t, "09:00", slots[0].Slot)
    assert.Equal(t, "21:30", slots[len(slots)-1].Slot)

    assert.True(t, g.Contains("09:00"))
    assert.True(t, g.Contains("21:30"))
    assert.False(t, g.Contains("08:30"))
    assert.False(t, g.Contains("22:00"))
    assert.False(t, g.Contains("9:00"), "only zero-padded form is canonical")
    assert.False(t, g.Contains("09:15"), "off-grid minutes rejected")
}

func TestGridPeakRanges(t *testing.T) {
    g := NewGrid(defaultBookingConfig())

    assert.True(t, g.IsPeak("12:00"))
    assert.True(t, g.IsPeak("13:30"))
    assert.True(t, g.IsPeak("14:00"), "range bounds are inclusive")
    assert.True(t, g.IsPeak("19:00"))
    assert.True(t, g.IsPeak("21:00"))
    assert.False(t, g.IsPeak("11:30"))
    assert.False(t, g.IsPeak("14:30"))
    assert.False(t, g.IsPeak("21:30"))
    assert.False(t, g.IsPeak("08:00"), "off-grid slot is never peak")
}

func TestGridPeakParsingSkipsGarbage(t *testing.T) {
    cfg := defaultBookingConfig()
    cfg.PeakRanges = "nonsense,25:00-26:00,14:00-12:00, 18:00-19:00 ,"
    g := NewGrid(cfg)

    // Only the one well-formed range survives.
    assert.True(t, g.IsPeak("18:00"))
    assert.True(t, g.IsPeak("19:00"))
    assert.False(t, g.IsPeak("12:00"))
}

func TestSlotStartEnd(t *testing.T) {
    g := NewGrid(defaultBookingConfig())

    start, err := g.SlotStart("2026-09-15", "12:30")
    require.NoError(t, err)
    assert.Equal(t, time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC), start)

    end, err := g.SlotEnd("2026-09-15", "12:30")
    require.NoError(t, err)
    assert.Equal(t, start.Add(30*time.Minute), end)

    _, err = g.SlotStart("15-09-2026", "12:30")
    assert.ErrorIs(t, err, ErrInvalidDate)

    _, err = g.SlotStart("2026-09-15", "12:15")
    assert.ErrorIs(t, err, ErrInvalidSlot)
}
