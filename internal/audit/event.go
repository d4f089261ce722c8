// Package audit defines the activity audit trail: a fire-and-forget sink
// interface used by the business code, a RabbitMQ publisher implementing
// it, and the background consumer that writes events to monthly log files.
package audit

// Event kinds recorded by the system.
const (
    KindReservationCreated   = "reservation.created"
    KindReservationCancelled = "reservation.cancelled"
    KindReservationCompleted = "reservation.completed"
    KindOrderPlaced          = "order.placed"
    KindUserRegistered       = "user.register"
    KindUserLogin            = "user.login"
)

// Event is the payload exchanged over the broker.  At is an RFC3339 UTC
// timestamp assigned when the event is recorded, not when it is consumed.
type Event struct {
    Kind   string `json:"kind"`
    Actor  string `json:"actor"`
    Detail string `json:"detail,omitempty"`
    At     string `json:"at"`
}

// critical kinds are mirrored into a separate log file for quick review,
// matching what operations staff actually look at: bookings, cancellations
// and account activity.
var critical = map[string]bool{
    KindReservationCreated:   true,
    KindReservationCancelled: true,
    KindReservationCompleted: true,
    KindUserRegistered:       true,
    KindUserLogin:            true,
}

// Critical reports whether events of the given kind are mirrored to the
// critical log.
func Critical(kind string) bool { return critical[kind] }
