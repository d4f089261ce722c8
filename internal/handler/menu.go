package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/cafechostito/reservation-api/internal/model"
    "github.com/cafechostito/reservation-api/internal/repository"
)

// MenuHandler serves the public catalog listing and the admin CRUD.
type MenuHandler struct {
    Repo *repository.MenuRepo
}

func NewMenuHandler(repo *repository.MenuRepo) *MenuHandler {
    return &MenuHandler{Repo: repo}
}

type menuItemReq struct {
    Name        string `json:"name" validate:"required"`
    Description string `json:"description"`
    Category    string `json:"category" validate:"required,oneof=MENU MERCH DELIVERY menu merch delivery"`
    PriceCents  uint32 `json:"price_cents" validate:"required,min=1"`
    IsActive    *bool  `json:"is_active"`
}

// List answers GET /v1/menu?category=.  Only active items are shown.
func (h *MenuHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Repo.List(ctx, c.QueryParam("category"), true)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog unavailable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AdminList shows the full catalog including deactivated items.
func (h *MenuHandler) AdminList(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Repo.List(ctx, c.QueryParam("category"), false)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog unavailable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create adds a catalog item.
func (h *MenuHandler) Create(c echo.Context) error {
    var req menuItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    it := model.MenuItem{
        Name:        strings.TrimSpace(req.Name),
        Description: strings.TrimSpace(req.Description),
        Category:    strings.ToUpper(req.Category),
        PriceCents:  req.PriceCents,
        IsActive:    true,
    }
    if req.IsActive != nil {
        it.IsActive = *req.IsActive
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Repo.Create(ctx, &it); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
    }
    return c.JSON(http.StatusCreated, it)
}

// Update rewrites an item's fields.
func (h *MenuHandler) Update(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req menuItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    it := model.MenuItem{
        ID:          id,
        Name:        strings.TrimSpace(req.Name),
        Description: strings.TrimSpace(req.Description),
        Category:    strings.ToUpper(req.Category),
        PriceCents:  req.PriceCents,
        IsActive:    true,
    }
    if req.IsActive != nil {
        it.IsActive = *req.IsActive
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Repo.Update(ctx, &it); err != nil {
        if errors.Is(err, repository.ErrMenuItemNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
    }
    return c.JSON(http.StatusOK, it)
}

// Delete soft-deletes an item so order history keeps its reference.
func (h *MenuHandler) Delete(c echo.Context) error {
    id, err := idParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Repo.Deactivate(ctx, id); err != nil {
        if errors.Is(err, repository.ErrMenuItemNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete item failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
