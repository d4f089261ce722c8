package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/cafechostito/reservation-api/internal/config"
)

// captureWriter captures the response body and status while still writing
// through to the client.  The capture is bounded by limit so an oversized
// payload is simply not cached.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
        cw.buf.Write(b)
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable cache key honoring the configured prefix and
// strategy.  The variable part is hashed so query strings of any length map
// to fixed-size keys.  Availability lookups (route + date/slot query) are
// the main beneficiary.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    route := c.Path()
    query := r.URL.RawQuery

    var tail string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        tail = "route:" + route
    case "method_route":
        tail = "method:" + r.Method + ":route:" + route
    default: // "route_query"
        tail = "route:" + route + ":q:" + query
    }

    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// NewRedisCache caches successful responses for the configured methods.
// Entries store the content type and body; only 200 responses are cached so
// capacity conflicts and validation failures are always recomputed.  When
// Redis is nil the middleware is a no-op.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    ttl := cfg.TTL
    if ttl <= 0 { ttl = 30 * time.Second }
    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            // Entries are "<content-type>\n<body>".
            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if i := bytes.IndexByte(bs, '\n'); i >= 0 {
                    c.Response().Header().Set(echo.HeaderContentType, string(bs[:i]))
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(http.StatusOK)
                    _, _ = c.Response().Write(bs[i+1:])
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK && (maxBody <= 0 || cw.size <= maxBody) {
                ctype := c.Response().Header().Get(echo.HeaderContentType)
                payload := append([]byte(ctype+"\n"), cw.buf.Bytes()...)
                // Request context may already be done; store with a fresh one.
                _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
            }
            return nil
        }
    }
}
