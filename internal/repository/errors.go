// Package repository implements MySQL persistence for users, refresh
// tokens, reservations, the menu catalog and orders.  This file defines
// sentinel error values reused across repositories so handlers can
// distinguish failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrMenuItemNotFound is returned when a catalog item does not exist or is
// no longer active.  Handlers translate this into an HTTP 404 or, at
// checkout, a 422 naming the offending item.
var ErrMenuItemNotFound = errors.New("menu item not found")

// ErrOrderNotFound is returned when an order does not exist.  Handlers
// translate this into an HTTP 404 response.
var ErrOrderNotFound = errors.New("order not found")
