package booking

import (
    "fmt"
    "strings"
    "time"

    "github.com/cafechostito/reservation-api/internal/config"
)

// DateLayout is the wire format for reservation dates.
const DateLayout = "2006-01-02"

// SlotLayout is the wire format for time slots.
const SlotLayout = "15:04"

// Grid is the set of reservable time slots for one service day, derived
// from the opening hours and slot granularity in configuration.  A Grid is
// immutable after construction and safe for concurrent use.
type Grid struct {
    slotMinutes int
    slots       []SlotInfo
    index       map[string]int // slot -> minutes from midnight
    peaks       []peakRange
}

// SlotInfo describes one grid entry as exposed on the public slots endpoint.
type SlotInfo struct {
    Slot string `json:"slot"`
    Peak bool   `json:"peak"`
}

// peakRange is a closed interval in minutes from midnight.
type peakRange struct {
    from, to int
}

// NewGrid builds the slot grid.  Slots run from OpenHour:00 through the
// last sub-hour slot of CloseHour (e.g. 09:00–21:30 for 9/21/30min).  Peak
// ranges that fail to parse are skipped; the grid itself must never fail
// to build.
func NewGrid(cfg config.BookingConfig) *Grid {
    g := &Grid{
        slotMinutes: cfg.SlotMinutes,
        index:       make(map[string]int),
    }
    for _, r := range strings.Split(cfg.PeakRanges, ",") {
        r = strings.TrimSpace(r)
        if r == "" {
            continue
        }
        parts := strings.SplitN(r, "-", 2)
        if len(parts) != 2 {
            continue
        }
        from, err1 := minutesOfDay(strings.TrimSpace(parts[0]))
        to, err2 := minutesOfDay(strings.TrimSpace(parts[1]))
        if err1 != nil || err2 != nil || to < from {
            continue
        }
        g.peaks = append(g.peaks, peakRange{from: from, to: to})
    }
    for h := cfg.OpenHour; h <= cfg.CloseHour; h++ {
        for m := 0; m < 60; m += cfg.SlotMinutes {
            slot := fmt.Sprintf("%02d:%02d", h, m)
            g.index[slot] = h*60 + m
            g.slots = append(g.slots, SlotInfo{Slot: slot, Peak: g.peakAt(h*60 + m)})
        }
    }
    return g
}

// Slots returns the full grid in chronological order.
func (g *Grid) Slots() []SlotInfo {
    out := make([]SlotInfo, len(g.slots))
    copy(out, g.slots)
    return out
}

// Contains reports whether slot is exactly one of the configured slots.
// Only the canonical zero-padded "HH:MM" form is accepted.
func (g *Grid) Contains(slot string) bool {
    _, ok := g.index[slot]
    return ok
}

// IsPeak reports whether the slot falls in a configured peak range.  Peak
// status is informational only and never affects capacity.
func (g *Grid) IsPeak(slot string) bool {
    min, ok := g.index[slot]
    return ok && g.peakAt(min)
}

func (g *Grid) peakAt(min int) bool {
    for _, p := range g.peaks {
        if min >= p.from && min <= p.to {
            return true
        }
    }
    return false
}

// SlotStart returns the UTC instant at which the given date and slot begin.
// It fails with ErrInvalidDate or ErrInvalidSlot for malformed input.
func (g *Grid) SlotStart(date, slot string) (time.Time, error) {
    d, err := time.ParseInLocation(DateLayout, date, time.UTC)
    if err != nil {
        return time.Time{}, ErrInvalidDate
    }
    min, ok := g.index[slot]
    if !ok {
        return time.Time{}, ErrInvalidSlot
    }
    return d.Add(time.Duration(min) * time.Minute), nil
}

// SlotEnd returns the instant the slot's interval closes.
func (g *Grid) SlotEnd(date, slot string) (time.Time, error) {
    start, err := g.SlotStart(date, slot)
    if err != nil {
        return time.Time{}, err
    }
    return start.Add(time.Duration(g.slotMinutes) * time.Minute), nil
}

// minutesOfDay parses "HH:MM" into minutes from midnight.
func minutesOfDay(s string) (int, error) {
    t, err := time.Parse(SlotLayout, s)
    if err != nil {
        return 0, err
    }
    return t.Hour()*60 + t.Minute(), nil
}
