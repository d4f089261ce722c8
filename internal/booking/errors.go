// Package booking implements the availability and reservation core: a slot
// grid derived from configuration, a Service exposing the check/create/
// cancel/complete operations, and the Store contract those operations need
// from persistence.  The one property everything here protects is that the
// confirmed reservations of a (date, slot) pair never exceed the configured
// seat and table capacity, even under concurrent creates.
package booking

import "errors"

// Sentinel errors returned by the Service and Store implementations.
// Handlers translate them into HTTP statuses; everything that is not one of
// these values is treated as an internal failure.
var (
    // ErrInvalidDate is returned when a date is not a valid YYYY-MM-DD value.
    ErrInvalidDate = errors.New("invalid date")

    // ErrInvalidSlot is returned when a time slot is not on the configured grid.
    ErrInvalidSlot = errors.New("invalid slot")

    // ErrPastDate is returned when the requested date and slot are already
    // behind the clock.
    ErrPastDate = errors.New("date and slot are in the past")

    // ErrInvalidPartySize is returned when the party size is below one or
    // above the configured online maximum.
    ErrInvalidPartySize = errors.New("invalid party size")

    // ErrCommentTooLong is returned when the comment exceeds the configured
    // length bound.
    ErrCommentTooLong = errors.New("comment too long")

    // ErrNoCapacity is returned when the slot has no free table or not
    // enough free seats at commit time.
    ErrNoCapacity = errors.New("no capacity for this slot")

    // ErrNotFound is returned when the reservation does not exist.
    ErrNotFound = errors.New("reservation not found")

    // ErrForbidden is returned when the caller is neither the owner of the
    // reservation nor an operator.
    ErrForbidden = errors.New("forbidden")

    // ErrAlreadyTerminal is returned when a state change is attempted on a
    // reservation that is already in a conflicting terminal state.
    ErrAlreadyTerminal = errors.New("reservation already in a terminal state")

    // ErrSlotNotOver is returned when an operator tries to mark a
    // reservation completed before its slot has passed.
    ErrSlotNotOver = errors.New("slot has not passed yet")

    // ErrStoreUnavailable wraps transport failures against the store.  The
    // outcome of the attempted operation is unknown: callers should
    // re-query state rather than blindly resubmit a create.
    ErrStoreUnavailable = errors.New("reservation store unavailable")
)
