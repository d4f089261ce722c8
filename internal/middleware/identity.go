package middleware

// identity.go holds helpers shared across middleware files for identifying
// the caller of a request.  Rate limiting and cache keys both need a stable
// per-user identifier; unauthenticated requests share the "guest" bucket.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string, or "guest"
// when the request carries no valid identity.  JWTAuth stores the subject as
// a uint64; older deployments stored it as a string, so both are accepted.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case uint64:
        if v > 0 {
            return strconv.FormatUint(v, 10)
        }
    case string:
        if v != "" {
            return v
        }
    }
    return "guest"
}
