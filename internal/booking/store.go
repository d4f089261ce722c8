package booking

import (
    "context"

    "github.com/cafechostito/reservation-api/internal/model"
)

// Store is the persistence contract the Service depends on.  The MySQL
// implementation lives in internal/repository; an in-process implementation
// backs tests and broker-less development.
//
// InsertIfCapacityAvailable is the one operation that must be atomic with
// respect to concurrent calls for the same (date, slot) key: the capacity
// check and the insert happen as a single unit, via a database transaction
// holding row locks or a per-key mutex held across both steps.  Every
// method may block on I/O and must honor the context.
type Store interface {
    // InsertIfCapacityAvailable persists rec (status CONFIRMED) unless
    // doing so would push the slot beyond maxSeats guests or maxTables
    // reservations.  On success rec's ID and timestamps are populated; on
    // exhaustion it returns ErrNoCapacity and writes nothing.
    InsertIfCapacityAvailable(ctx context.Context, rec *model.Reservation, maxSeats, maxTables int) error

    // QueryByDateSlot lists reservations for a date.  Empty slot or status
    // means no filter on that column.
    QueryByDateSlot(ctx context.Context, date, slot, status string) ([]model.Reservation, error)

    // GetByID fetches one reservation or ErrNotFound.
    GetByID(ctx context.Context, id uint64) (model.Reservation, error)

    // UpdateStatus transitions a reservation from one status to another.
    // It returns (false, nil) when the reservation exists but is no longer
    // in the `from` status, and ErrNotFound when it does not exist.  The
    // conditional form keeps concurrent transitions one-way: a terminal
    // state can never be overwritten.
    UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error)

    // ListByCustomer returns the customer's reservations, newest first.
    ListByCustomer(ctx context.Context, userID uint64) ([]model.Reservation, error)
}
