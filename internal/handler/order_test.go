package handler

import (
    "encoding/json"
    "net/http"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cafechostito/reservation-api/internal/audit"
    "github.com/cafechostito/reservation-api/internal/model"
    "github.com/cafechostito/reservation-api/internal/repository"
)

func menuRows(t *testing.T) *sqlmock.Rows {
    t.Helper()
    now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
    return sqlmock.NewRows([]string{
        "id", "name", "description", "category", "price_cents", "is_active", "created_at", "updated_at",
    }).
        AddRow(uint64(1), "Cortado", "double shot", model.CategoryMenu, uint32(450), true, now, now).
        AddRow(uint64(2), "Tote bag", "canvas", model.CategoryMerch, uint32(1200), true, now, now)
}

func TestCheckoutComputesTotals(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    orders := repository.NewOrderRepo(db)
    menu := repository.NewMenuRepo(db)
    h := NewOrderHandler(orders, menu, audit.NopSink{})
    e := newEcho()

    now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, name, description, category, price_cents[\s\S]*WHERE is_active = 1 AND id IN \(\?,\?\)`).
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(menuRows(t))
    mock.ExpectExec(`INSERT INTO orders`).
        WithArgs(uint64(5), model.OrderPlaced, uint32(2100), nil).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectExec(`INSERT INTO order_items`).
        WithArgs(uint64(11), uint64(1), "Cortado", 2, uint32(450)).
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectExec(`INSERT INTO order_items`).
        WithArgs(uint64(11), uint64(2), "Tote bag", 1, uint32(1200)).
        WillReturnResult(sqlmock.NewResult(2, 1))
    mock.ExpectCommit()
    // Read-back after commit.
    mock.ExpectQuery(`SELECT id, user_id, status, total_cents[\s\S]*WHERE id = \?`).
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "user_id", "status", "total_cents", "delivery_address", "created_at", "updated_at",
        }).AddRow(uint64(11), uint64(5), model.OrderPlaced, uint32(2100), nil, now, now))
    mock.ExpectQuery(`FROM order_items WHERE order_id IN \(\?\)`).
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "order_id", "menu_item_id", "name", "quantity", "price_cents",
        }).
            AddRow(uint64(1), uint64(11), uint64(1), "Cortado", 2, uint32(450)).
            AddRow(uint64(2), uint64(11), uint64(2), "Tote bag", 1, uint32(1200)))

    body := `{"items":[{"menu_item_id":1,"quantity":2},{"menu_item_id":2,"quantity":1}]}`
    c, rec := authedJSONContext(e, http.MethodPost, "/v1/orders", body, 5, "CUSTOMER")
    require.NoError(t, h.Checkout(c))
    require.Equal(t, http.StatusCreated, rec.Code)

    var got model.Order
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
    assert.Equal(t, uint32(2100), got.TotalCents)
    assert.Equal(t, model.OrderPlaced, got.Status)
    require.Len(t, got.Items, 2)
    assert.Equal(t, 2, got.Items[0].Quantity)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRejectsUnknownItem(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewOrderHandler(repository.NewOrderRepo(db), repository.NewMenuRepo(db), audit.NopSink{})
    e := newEcho()

    mock.ExpectBegin()
    mock.ExpectQuery(`WHERE is_active = 1 AND id IN \(\?\)`).
        WithArgs(uint64(77)).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "description", "category", "price_cents", "is_active", "created_at", "updated_at",
        }))
    mock.ExpectRollback()

    body := `{"items":[{"menu_item_id":77,"quantity":1}]}`
    c, rec := authedJSONContext(e, http.MethodPost, "/v1/orders", body, 5, "CUSTOMER")
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRequiresAddressForDelivery(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewOrderHandler(repository.NewOrderRepo(db), repository.NewMenuRepo(db), audit.NopSink{})
    e := newEcho()

    now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
    mock.ExpectBegin()
    mock.ExpectQuery(`WHERE is_active = 1 AND id IN \(\?\)`).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "description", "category", "price_cents", "is_active", "created_at", "updated_at",
        }).AddRow(uint64(3), "Family paella", "serves 4", model.CategoryDelivery, uint32(3800), true, now, now))
    mock.ExpectRollback()

    body := `{"items":[{"menu_item_id":3,"quantity":1}]}`
    c, rec := authedJSONContext(e, http.MethodPost, "/v1/orders", body, 5, "CUSTOMER")
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
