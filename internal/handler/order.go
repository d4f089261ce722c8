package handler

import (
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/audit"
    "github.com/cafechostito/reservation-api/internal/model"
    "github.com/cafechostito/reservation-api/internal/repository"
)

// OrderHandler serves cart checkout and order listings.
type OrderHandler struct {
    Orders *repository.OrderRepo
    Menu   *repository.MenuRepo
    Sink   audit.Sink
}

func NewOrderHandler(orders *repository.OrderRepo, menu *repository.MenuRepo, sink audit.Sink) *OrderHandler {
    return &OrderHandler{Orders: orders, Menu: menu, Sink: sink}
}

type orderLineReq struct {
    MenuItemID uint64 `json:"menu_item_id" validate:"required"`
    Quantity   int    `json:"quantity" validate:"required,min=1,max=50"`
}
type checkoutReq struct {
    Items           []orderLineReq `json:"items" validate:"required,min=1,max=50,dive"`
    DeliveryAddress string         `json:"delivery_address"`
}

// Checkout turns a cart into an order.  Prices and the total come from the
// current catalog inside the same transaction that writes the order, so a
// stale client cart can never set its own prices.
func (h *OrderHandler) Checkout(c echo.Context) error {
    uid, ok := userID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req checkoutReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    // Merge duplicate lines so the IN query and the inserts stay small.
    qty := make(map[uint64]int, len(req.Items))
    ids := make([]uint64, 0, len(req.Items))
    for _, line := range req.Items {
        if _, seen := qty[line.MenuItemID]; !seen {
            ids = append(ids, line.MenuItemID)
        }
        qty[line.MenuItemID] += line.Quantity
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    tx, err := h.Orders.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    catalog, err := h.Menu.GetActiveByIDsTx(ctx, tx, ids)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }

    order := model.Order{
        UserID:          uid,
        Status:          model.OrderPlaced,
        DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
        Items:           make([]model.OrderItem, 0, len(ids)),
    }
    needsAddress := false
    for _, id := range ids {
        it, ok := catalog[id]
        if !ok {
            return c.JSON(http.StatusUnprocessableEntity,
                echo.Map{"error": fmt.Sprintf("menu item %d is unknown or inactive", id)})
        }
        if it.Category == model.CategoryDelivery {
            needsAddress = true
        }
        order.Items = append(order.Items, model.OrderItem{
            MenuItemID: it.ID,
            Name:       it.Name,
            Quantity:   qty[id],
            PriceCents: it.PriceCents,
        })
        order.TotalCents += it.PriceCents * uint32(qty[id])
    }
    if needsAddress && order.DeliveryAddress == "" {
        return c.JSON(http.StatusUnprocessableEntity,
            echo.Map{"error": "delivery_address required for delivery items"})
    }

    if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }
    committed = true

    h.Sink.Record(ctx, audit.KindOrderPlaced, "user:"+strconv.FormatUint(uid, 10),
        fmt.Sprintf("order=%d items=%d total_cents=%d", order.ID, len(order.Items), order.TotalCents))

    full, err := h.Orders.GetByID(ctx, order.ID)
    if err != nil {
        // Order is committed; return what we have rather than fail.
        return c.JSON(http.StatusCreated, order)
    }
    return c.JSON(http.StatusCreated, full)
}

// Mine lists the caller's orders, newest first.
func (h *OrderHandler) Mine(c echo.Context) error {
    uid, ok := userID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Orders.ListByUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"orders": out})
}

// AdminList answers GET /v1/admin/orders?status=.
func (h *OrderHandler) AdminList(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Orders.ListAll(ctx, c.QueryParam("status"))
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"orders": out})
}

type orderStatusReq struct {
    Status string `json:"status" validate:"required,oneof=DELIVERED CANCELLED delivered cancelled"`
}

// AdminUpdateStatus moves a PLACED order to DELIVERED or CANCELLED.
func (h *OrderHandler) AdminUpdateStatus(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req orderStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    to := strings.ToUpper(req.Status)

    ctx, cancel := reqCtx(c)
    defer cancel()

    ok, err := h.Orders.UpdateStatus(ctx, id, model.OrderPlaced, to)
    if err != nil {
        if errors.Is(err, repository.ErrOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    }
    if !ok {
        return c.JSON(http.StatusConflict, echo.Map{"error": "order is not in PLACED state"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": to})
}
