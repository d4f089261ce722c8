package config

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestLoadBookingConfigDefaults(t *testing.T) {
    for _, k := range []string{
        "SEATS_PER_SLOT", "TABLES_PER_SLOT", "OPEN_HOUR", "CLOSE_HOUR",
        "SLOT_MINUTES", "PEAK_RANGES", "MAX_PARTY_SIZE", "MAX_COMMENT_LEN",
    } {
        t.Setenv(k, "")
    }

    b := LoadBookingConfig()
    assert.Equal(t, 30, b.SeatsPerSlot)
    assert.Equal(t, 10, b.TablesPerSlot)
    assert.Equal(t, 9, b.OpenHour)
    assert.Equal(t, 21, b.CloseHour)
    assert.Equal(t, 30, b.SlotMinutes)
    assert.Equal(t, "12:00-14:00,19:00-21:00", b.PeakRanges)
    assert.Equal(t, 12, b.MaxPartySize)
    assert.Equal(t, 500, b.MaxCommentLen)
}

func TestLoadBookingConfigClampsNonsense(t *testing.T) {
    t.Setenv("SEATS_PER_SLOT", "-5")
    t.Setenv("TABLES_PER_SLOT", "0")
    t.Setenv("SLOT_MINUTES", "45")
    t.Setenv("OPEN_HOUR", "27")
    t.Setenv("CLOSE_HOUR", "3")
    t.Setenv("MAX_PARTY_SIZE", "0")

    b := LoadBookingConfig()
    assert.Equal(t, 1, b.SeatsPerSlot)
    assert.Equal(t, 1, b.TablesPerSlot)
    assert.Equal(t, 30, b.SlotMinutes, "granularity must divide the hour")
    assert.Equal(t, 9, b.OpenHour)
    assert.Equal(t, 21, b.CloseHour)
    assert.Equal(t, 1, b.MaxPartySize)
}
