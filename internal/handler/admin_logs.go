package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/audit"
)

// ActivityLogHandler exposes recent audit lines to operators.
type ActivityLogHandler struct {
    Dir string
}

func NewActivityLogHandler(dir string) *ActivityLogHandler {
    return &ActivityLogHandler{Dir: dir}
}

// Recent answers GET /v1/admin/activity-logs?limit=.  Lines come from the
// newest monthly file, newest first, capped at 500.
func (h *ActivityLogHandler) Recent(c echo.Context) error {
    limit := 100
    if s := c.QueryParam("limit"); s != "" {
        n, err := strconv.Atoi(s)
        if err != nil || n < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
        }
        if n > 500 {
            n = 500
        }
        limit = n
    }

    lines, err := audit.RecentLines(h.Dir, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read logs failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"lines": lines})
}
