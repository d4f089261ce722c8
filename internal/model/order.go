package model

import "time"

// Order status values.  Orders are PLACED at checkout; operators mark them
// DELIVERED or CANCELLED from the admin panel.
const (
    OrderPlaced    = "PLACED"
    OrderDelivered = "DELIVERED"
    OrderCancelled = "CANCELLED"
)

// Order groups the line items of one cart checkout.  TotalCents is computed
// server-side from current catalog prices at checkout time; the client's
// cart total is never trusted.
type Order struct {
    ID              uint64      `json:"id"`               // orders.id
    UserID          uint64      `json:"user_id"`          // orders.user_id
    Status          string      `json:"status"`           // orders.status
    TotalCents      uint32      `json:"total_cents"`      // orders.total_cents
    DeliveryAddress string      `json:"delivery_address,omitempty"` // orders.delivery_address
    Items           []OrderItem `json:"items"`            // order_items rows
    CreatedAt       time.Time   `json:"created_at"`       // orders.created_at
    UpdatedAt       time.Time   `json:"updated_at"`       // orders.updated_at
}

// OrderItem is one line of an order.  Name and PriceCents are copied from
// the menu item at checkout so later catalog edits do not rewrite history.
type OrderItem struct {
    ID         uint64 `json:"id"`           // order_items.id
    OrderID    uint64 `json:"order_id"`     // order_items.order_id
    MenuItemID uint64 `json:"menu_item_id"` // order_items.menu_item_id
    Name       string `json:"name"`         // order_items.name
    Quantity   int    `json:"quantity"`     // order_items.quantity
    PriceCents uint32 `json:"price_cents"`  // order_items.price_cents
}
