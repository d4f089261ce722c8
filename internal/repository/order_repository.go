package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cafechostito/reservation-api/internal/model"
)

// OrderRepo persists checkout orders and their line items.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so checkout can open the transaction
// that CreateTx and GetActiveByIDsTx share.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderCols = `id, user_id, status, total_cents, delivery_address, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (model.Order, error) {
    var o model.Order
    var addr sql.NullString
    err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &addr,
        &o.CreatedAt, &o.UpdatedAt)
    if err != nil {
        return model.Order{}, err
    }
    if addr.Valid {
        o.DeliveryAddress = addr.String
    }
    return o, nil
}

// CreateTx inserts the order header and all line items inside the caller's
// transaction.  The order's ID and its items' IDs are filled in.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
    const insOrder = `INSERT INTO orders (user_id, status, total_cents, delivery_address)
                      VALUES (?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, insOrder, o.UserID, o.Status, o.TotalCents,
        nullIfEmpty(o.DeliveryAddress))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)

    const insItem = `INSERT INTO order_items (order_id, menu_item_id, name, quantity, price_cents)
                     VALUES (?, ?, ?, ?, ?)`
    for i := range o.Items {
        it := &o.Items[i]
        it.OrderID = o.ID
        res, err := tx.ExecContext(ctx, insItem, it.OrderID, it.MenuItemID,
            it.Name, it.Quantity, it.PriceCents)
        if err != nil {
            return err
        }
        itemID, err := res.LastInsertId()
        if err != nil {
            return err
        }
        it.ID = uint64(itemID)
    }
    return nil
}

// GetByID returns one order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
    const q = `SELECT ` + orderCols + ` FROM orders WHERE id = ?`
    o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Order{}, ErrOrderNotFound
    }
    if err != nil {
        return model.Order{}, err
    }
    items, err := r.itemsFor(ctx, []uint64{o.ID})
    if err != nil {
        return model.Order{}, err
    }
    o.Items = items[o.ID]
    if o.Items == nil {
        o.Items = []model.OrderItem{}
    }
    return o, nil
}

// ListByUser returns a user's orders, newest first, items populated.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
    const q = `SELECT ` + orderCols + ` FROM orders
               WHERE user_id = ? ORDER BY created_at DESC, id DESC`
    return r.list(ctx, q, userID)
}

// ListAll returns all orders for the admin panel, newest first.  Empty
// status means no filter.
func (r *OrderRepo) ListAll(ctx context.Context, status string) ([]model.Order, error) {
    query := `SELECT ` + orderCols + ` FROM orders`
    args := []interface{}{}
    if status != "" {
        query += ` WHERE status = ?`
        args = append(args, strings.ToUpper(status))
    }
    query += ` ORDER BY created_at DESC, id DESC`
    return r.list(ctx, query, args...)
}

// UpdateStatus moves an order from one status to another.  It returns
// (false, nil) when the order exists but is not in `from`.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
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
    var exists int
    err = r.db.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, id).Scan(&exists)
    if errors.Is(err, sql.ErrNoRows) {
        return false, ErrOrderNotFound
    }
    if err != nil {
        return false, err
    }
    return false, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Order, 0)
    ids := make([]uint64, 0)
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, o)
        ids = append(ids, o.ID)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return out, nil
    }

    items, err := r.itemsFor(ctx, ids)
    if err != nil {
        return nil, err
    }
    for i := range out {
        out[i].Items = items[out[i].ID]
        if out[i].Items == nil {
            out[i].Items = []model.OrderItem{}
        }
    }
    return out, nil
}

// itemsFor loads the line items of a batch of orders with a single
// IN-clause query and groups them by order ID.
func (r *OrderRepo) itemsFor(ctx context.Context, orderIDs []uint64) (map[uint64][]model.OrderItem, error) {
    placeholders := strings.Repeat("?,", len(orderIDs))
    placeholders = placeholders[:len(placeholders)-1]
    query := `SELECT id, order_id, menu_item_id, name, quantity, price_cents
              FROM order_items WHERE order_id IN (` + placeholders + `) ORDER BY id`
    args := make([]interface{}, len(orderIDs))
    for i, id := range orderIDs {
        args[i] = id
    }

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make(map[uint64][]model.OrderItem, len(orderIDs))
    for rows.Next() {
        var it model.OrderItem
        if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name,
            &it.Quantity, &it.PriceCents); err != nil {
            return nil, err
        }
        out[it.OrderID] = append(out[it.OrderID], it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
