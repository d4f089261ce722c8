package model

import "time"

// Reservation status values.  A reservation is CONFIRMED at creation and
// moves to exactly one of the terminal states: CANCELLED (by the owning
// customer or an operator) or COMPLETED (by an operator after the slot has
// passed).  Neither terminal state is ever left.
const (
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
    StatusCompleted = "COMPLETED"
)

// Reservation records a customer's table booking for a specific date and
// time slot.  Date and TimeSlot form the capacity key: the sum of PartySize
// over CONFIRMED reservations sharing one (Date, TimeSlot) is bounded by
// the configured seat count, and their number by the table count.  Date,
// TimeSlot, PartySize and UserID are immutable after creation; only Status
// may change.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – public confirmation code shown to the customer.
//  UserID    – customer who made the reservation.
//  Date      – calendar date in "2006-01-02" form, no time-of-day.
//  TimeSlot  – slot start in "15:04" form.
//  PartySize – number of guests, at least 1.
//  Status    – CONFIRMED, CANCELLED or COMPLETED.
//  Comments  – optional free text from the customer.
//  CreatedAt – creation timestamp (server assigned, UTC).
//  UpdatedAt – last update timestamp (server assigned, UTC).
type Reservation struct {
    ID        uint64    `json:"id"`                 // reservations.id
    Code      string    `json:"code"`               // reservations.code
    UserID    uint64    `json:"user_id"`            // reservations.user_id
    Date      string    `json:"date"`               // reservations.res_date
    TimeSlot  string    `json:"time_slot"`          // reservations.time_slot
    PartySize int       `json:"party_size"`         // reservations.party_size
    Status    string    `json:"status"`             // reservations.status
    Comments  string    `json:"comments,omitempty"` // reservations.comments
    CreatedAt time.Time `json:"created_at"`         // reservations.created_at
    UpdatedAt time.Time `json:"updated_at"`         // reservations.updated_at
}

// Terminal reports whether the reservation can no longer change state.
func (r Reservation) Terminal() bool {
    return r.Status == StatusCancelled || r.Status == StatusCompleted
}
