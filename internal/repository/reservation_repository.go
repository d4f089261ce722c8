package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/cafechostito/reservation-api/internal/booking"
    "github.com/cafechostito/reservation-api/internal/model"
)

// ReservationRepo implements booking.Store on MySQL.  The reservations
// table carries an index on (res_date, time_slot, status) so both the
// capacity aggregate and the admin listings stay on index.  All timestamp
// columns are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to open their own
// transactions (order checkout shares it).
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, code, user_id, res_date, time_slot, party_size, status, comments, created_at, updated_at`

// scanReservation reads one row in reservationCols order.  res_date is a
// DATE column; with parseTime enabled it scans as time.Time and is
// re-rendered in the wire format.
func scanReservation(row interface{ Scan(...interface{}) error }) (model.Reservation, error) {
    var rec model.Reservation
    var resDate time.Time
    var comments sql.NullString
    err := row.Scan(&rec.ID, &rec.Code, &rec.UserID, &resDate, &rec.TimeSlot,
        &rec.PartySize, &rec.Status, &comments, &rec.CreatedAt, &rec.UpdatedAt)
    if err != nil {
        return model.Reservation{}, err
    }
    rec.Date = resDate.UTC().Format(booking.DateLayout)
    if comments.Valid {
        rec.Comments = comments.String
    }
    return rec, nil
}

// InsertIfCapacityAvailable implements booking.Store.  The capacity read
// and the insert run inside one transaction, with the read locking the
// slot's confirmed rows via FOR UPDATE.  Two transactions competing for
// the same slot therefore serialize on the row locks: the second observes
// the first's insert and fails the capacity check instead of overselling.
func (r *ReservationRepo) InsertIfCapacityAvailable(ctx context.Context, rec *model.Reservation, maxSeats, maxTables int) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const usage = `SELECT COUNT(*), COALESCE(SUM(party_size), 0)
                   FROM reservations
                   WHERE res_date = ? AND time_slot = ? AND status = 'CONFIRMED'
                   FOR UPDATE`
    var tables, seats int
    if err := tx.QueryRowContext(ctx, usage, rec.Date, rec.TimeSlot).Scan(&tables, &seats); err != nil {
        return err
    }
    if tables >= maxTables || seats+rec.PartySize > maxSeats {
        return booking.ErrNoCapacity
    }

    const ins = `INSERT INTO reservations (code, user_id, res_date, time_slot, party_size, status, comments)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, ins, rec.Code, rec.UserID, rec.Date, rec.TimeSlot,
        rec.PartySize, rec.Status, nullIfEmpty(rec.Comments))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)

    // Query back the full row to populate server-assigned timestamps.
    const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    got, err := scanReservation(tx.QueryRowContext(ctx, sel, rec.ID))
    if err != nil {
        return err
    }
    *rec = got

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// QueryByDateSlot implements booking.Store.  Empty slot or status skips
// that filter.  Rows come back in creation order so aggregates and admin
// listings are deterministic.
func (r *ReservationRepo) QueryByDateSlot(ctx context.Context, date, slot, status string) ([]model.Reservation, error) {
    query := `SELECT ` + reservationCols + ` FROM reservations WHERE res_date = ?`
    args := []interface{}{date}
    if slot != "" {
        query += ` AND time_slot = ?`
        args = append(args, slot)
    }
    if status != "" {
        query += ` AND status = ?`
        args = append(args, strings.ToUpper(status))
    }
    query += ` ORDER BY id`

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Reservation, 0)
    for rows.Next() {
        rec, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID implements booking.Store.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    rec, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Reservation{}, booking.ErrNotFound
    }
    if err != nil {
        return model.Reservation{}, err
    }
    return rec, nil
}

// UpdateStatus implements booking.Store.  The conditional WHERE keeps the
// transition one-way under concurrency: zero affected rows means another
// caller moved the reservation first (or it never was in `from`).
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`, to, id, from)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    if n > 0 {
        return true, nil
    }
    // Distinguish "wrong current status" from "no such reservation".
    var exists int
    err = r.db.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists)
    if errors.Is(err, sql.ErrNoRows) {
        return false, booking.ErrNotFound
    }
    if err != nil {
        return false, err
    }
    return false, nil
}

// ListByCustomer implements booking.Store.  Newest first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations
               WHERE user_id = ? ORDER BY created_at DESC, id DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Reservation, 0)
    for rows.Next() {
        rec, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func nullIfEmpty(s string) interface{} {
    if s == "" {
        return nil
    }
    return s
}
