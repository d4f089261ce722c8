package model

import "time"

// Menu item categories.  MENU covers the dine-in food and drinks page,
// MERCH the merchandising shop, DELIVERY the items orderable for home
// delivery.
const (
    CategoryMenu     = "MENU"
    CategoryMerch    = "MERCH"
    CategoryDelivery = "DELIVERY"
)

// MenuItem is a sellable item from the café's catalog.  Inactive items stay
// in the table so past order lines keep a valid reference, but they are
// hidden from public listings and rejected at checkout.
type MenuItem struct {
    ID          uint64    `json:"id"`          // menu_items.id
    Name        string    `json:"name"`        // menu_items.name
    Description string    `json:"description"` // menu_items.description
    Category    string    `json:"category"`    // menu_items.category
    PriceCents  uint32    `json:"price_cents"` // menu_items.price_cents
    IsActive    bool      `json:"is_active"`   // menu_items.is_active
    CreatedAt   time.Time `json:"created_at"`  // menu_items.created_at
    UpdatedAt   time.Time `json:"updated_at"`  // menu_items.updated_at
}
