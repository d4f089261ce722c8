package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cafechostito/reservation-api/internal/model"
)

// MenuRepo persists the catalog of sellable items.  Items are soft-deleted
// via is_active so order history keeps valid references.
type MenuRepo struct {
    db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuCols = `id, name, description, category, price_cents, is_active, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }) (model.MenuItem, error) {
    var it model.MenuItem
    var desc sql.NullString
    err := row.Scan(&it.ID, &it.Name, &desc, &it.Category, &it.PriceCents,
        &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
    if err != nil {
        return model.MenuItem{}, err
    }
    if desc.Valid {
        it.Description = desc.String
    }
    return it, nil
}

// List returns catalog items.  Empty category means all categories;
// activeOnly hides soft-deleted items and is what public listings use.
func (r *MenuRepo) List(ctx context.Context, category string, activeOnly bool) ([]model.MenuItem, error) {
    query := `SELECT ` + menuCols + ` FROM menu_items WHERE 1=1`
    args := []interface{}{}
    if category != "" {
        query += ` AND category = ?`
        args = append(args, strings.ToUpper(category))
    }
    if activeOnly {
        query += ` AND is_active = 1`
    }
    query += ` ORDER BY category, name`

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.MenuItem, 0)
    for rows.Next() {
        it, err := scanMenuItem(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID returns one item regardless of is_active.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (model.MenuItem, error) {
    const q = `SELECT ` + menuCols + ` FROM menu_items WHERE id = ?`
    it, err := scanMenuItem(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.MenuItem{}, ErrMenuItemNotFound
    }
    if err != nil {
        return model.MenuItem{}, err
    }
    return it, nil
}

// GetActiveByIDsTx loads active items by ID inside an open transaction.
// Checkout uses it so prices are read under the same snapshot that the
// order rows are written in.  IDs missing from the result were either
// unknown or inactive; the caller decides how to report that.
func (r *MenuRepo) GetActiveByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.MenuItem, error) {
    if len(ids) == 0 {
        return map[uint64]model.MenuItem{}, nil
    }
    placeholders := strings.Repeat("?,", len(ids))
    placeholders = placeholders[:len(placeholders)-1]
    query := `SELECT ` + menuCols + ` FROM menu_items WHERE is_active = 1 AND id IN (` + placeholders + `)`
    args := make([]interface{}, len(ids))
    for i, id := range ids {
        args[i] = id
    }

    rows, err := tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make(map[uint64]model.MenuItem, len(ids))
    for rows.Next() {
        it, err := scanMenuItem(rows)
        if err != nil {
            return nil, err
        }
        out[it.ID] = it
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a catalog item and returns it with server-assigned fields.
func (r *MenuRepo) Create(ctx context.Context, it *model.MenuItem) error {
    const ins = `INSERT INTO menu_items (name, description, category, price_cents, is_active)
                 VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, ins, it.Name, nullIfEmpty(it.Description),
        it.Category, it.PriceCents, it.IsActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    got, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *it = got
    return nil
}

// Update rewrites the mutable fields of an item.
func (r *MenuRepo) Update(ctx context.Context, it *model.MenuItem) error {
    const upd = `UPDATE menu_items
                 SET name = ?, description = ?, category = ?, price_cents = ?, is_active = ?
                 WHERE id = ?`
    res, err := r.db.ExecContext(ctx, upd, it.Name, nullIfEmpty(it.Description),
        it.Category, it.PriceCents, it.IsActive, it.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.GetByID(ctx, it.ID); err != nil {
            return err
        }
    }
    got, err := r.GetByID(ctx, it.ID)
    if err != nil {
        return err
    }
    *it = got
    return nil
}

// Deactivate soft-deletes an item.  Already-inactive items are a no-op.
func (r *MenuRepo) Deactivate(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE menu_items SET is_active = 0 WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists int
        err := r.db.QueryRowContext(ctx, `SELECT 1 FROM menu_items WHERE id = ?`, id).Scan(&exists)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrMenuItemNotFound
        }
        return err
    }
    return nil
}
