// Package router wires HTTP routes to their handlers and middleware.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/handler"
    "github.com/cafechostito/reservation-api/internal/middleware"
)

// Handlers bundles everything the route tables need.  main builds one of
// these after constructing the handlers.
type Handlers struct {
    Auth         *handler.AuthHandler
    Availability *handler.AvailabilityHandler
    Reservations *handler.ReservationHandler
    AdminRes     *handler.AdminReservationHandler
    Menu         *handler.MenuHandler
    Orders       *handler.OrderHandler
    Logs         *handler.ActivityLogHandler
}

// RegisterPublic mounts the endpoints guests can reach: liveness, the slot
// grid, capacity checks and the menu.  Extra middleware (response cache)
// applies only here since these are the read-heavy, cache-safe routes.
func RegisterPublic(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
    e.GET("/healthz", handler.Health)

    g := e.Group("/v1", mw...)
    g.GET("/availability", h.Availability.Check)
    g.GET("/slots", h.Availability.Slots)
    g.GET("/menu", h.Menu.List)
}

// RegisterAuth mounts registration, login and session management under
// /v1/auth, plus the token-protected /v1/me.
func RegisterAuth(e *echo.Echo, h Handlers, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", h.Auth.Register)
    g.POST("/login", h.Auth.Login)
    g.POST("/refresh", h.Auth.Refresh)
    // Logout works with a refresh token in the body, so no JWT middleware.
    g.POST("/logout", h.Auth.Logout)

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", h.Auth.Me)
}

// RegisterCustomer mounts the booking and ordering endpoints.  Any
// authenticated role may use them; admins pass the same routes when
// acting as diners.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("CUSTOMER", "ADMIN"),
    )
    g.POST("/reservations", h.Reservations.Create)
    g.GET("/my-reservations", h.Reservations.Mine)
    g.GET("/reservations/:id", h.Reservations.Get)
    g.POST("/reservations/:id/cancel", h.Reservations.Cancel)

    g.POST("/orders", h.Orders.Checkout)
    g.GET("/my-orders", h.Orders.Mine)
}

// RegisterAdmin mounts the operator endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN"),
    )
    g.GET("/reservations", h.AdminRes.List)
    g.POST("/reservations/:id/cancel", h.AdminRes.Cancel)
    g.POST("/reservations/:id/complete", h.AdminRes.Complete)

    g.GET("/menu", h.Menu.AdminList)
    g.POST("/menu", h.Menu.Create)
    g.PUT("/menu/:id", h.Menu.Update)
    g.DELETE("/menu/:id", h.Menu.Delete)

    g.GET("/orders", h.Orders.AdminList)
    g.POST("/orders/:id/status", h.Orders.AdminUpdateStatus)

    g.GET("/activity-logs", h.Logs.Recent)
}
