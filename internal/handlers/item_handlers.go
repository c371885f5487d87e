package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"klimarechner/internal/common"
	"klimarechner/internal/models"
	"klimarechner/internal/repositories"
	"klimarechner/internal/services"
)

// ItemHandlers handles item CRUD and the savings summary.
type ItemHandlers struct {
	items services.ItemService
	audit services.AuditService
}

func NewItemHandlers(items services.ItemService, audit services.AuditService) *ItemHandlers {
	return &ItemHandlers{items: items, audit: audit}
}

type CreateItemRequest struct {
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	BaseCO2    float64 `json:"base_co2"`
}

func (h *ItemHandlers) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Name == "" || req.CategoryID == 0 {
		return common.SendBadRequest(c, "Name and category_id are required", common.CodeMissingFields)
	}
	if req.BaseCO2 < 0 {
		return common.SendBadRequest(c, "base_co2 must not be negative", common.CodeMissingFields)
	}

	item := &models.Item{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		BaseCO2:    req.BaseCO2,
	}
	if err := h.items.Create(c.Request().Context(), item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return common.SendConflict(c, "An item with this name already exists", "NAME_EXISTS")
		}
		return common.SendServerError(c, "Failed to create item")
	}

	h.recordAdminAction(c, "create_item", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandlers) GetItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid item id", common.CodeMissingFields)
	}
	item, err := h.items.Get(c.Request().Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFound(c, "Item not found")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to load item")
	}
	return c.JSON(http.StatusOK, item)
}

// GetItemByName resolves an item by its unique name. The calculator widget
// addresses items by label, not by id.
func (h *ItemHandlers) GetItemByName(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return common.SendBadRequest(c, "Item name is required", common.CodeMissingFields)
	}
	item, err := h.items.GetByName(c.Request().Context(), name)
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFound(c, "Item not found")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to load item")
	}
	return c.JSON(http.StatusOK, item)
}

type UpdateItemRequest struct {
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	BaseCO2    float64 `json:"base_co2"`
}

func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid item id", common.CodeMissingFields)
	}
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Name == "" || req.CategoryID == 0 {
		return common.SendBadRequest(c, "Name and category_id are required", common.CodeMissingFields)
	}

	ctx := c.Request().Context()
	item, err := h.items.Get(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFound(c, "Item not found")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to load item")
	}

	item.CategoryID = req.CategoryID
	item.Name = req.Name
	item.BaseCO2 = req.BaseCO2
	if err := h.items.Update(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return common.SendConflict(c, "An item with this name already exists", "NAME_EXISTS")
		}
		return common.SendServerError(c, "Failed to update item")
	}

	h.recordAdminAction(c, "update_item", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid item id", common.CodeMissingFields)
	}
	if err := h.items.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete item")
	}
	h.recordAdminAction(c, "delete_item", id)
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

type ListItemsRequest struct {
	CategoryID int64 `query:"category_id"`
	Limit      int   `query:"limit"`
	Offset     int   `query:"offset"`
}

func (h *ItemHandlers) ListItems(c echo.Context) error {
	var req ListItemsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid query parameters", common.CodeMissingFields)
	}
	limit, offset := clampPage(req.Limit, req.Offset)

	var (
		items []*models.Item
		err   error
	)
	if req.CategoryID != 0 {
		items, err = h.items.ListByCategory(c.Request().Context(), req.CategoryID, limit, offset)
	} else {
		items, err = h.items.List(c.Request().Context(), limit, offset)
	}
	if err != nil {
		return common.SendServerError(c, "Failed to list items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

type IncrementCountRequest struct {
	Delta int `json:"delta"`
}

// IncrementCount bumps an item's use counter. Delta defaults to 1.
func (h *ItemHandlers) IncrementCount(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid item id", common.CodeMissingFields)
	}
	req := IncrementCountRequest{Delta: 1}
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Delta == 0 {
		req.Delta = 1
	}

	item, err := h.items.IncrementCount(c.Request().Context(), id, req.Delta)
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFound(c, "Item not found")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to update item count")
	}
	return c.JSON(http.StatusOK, item)
}

// Summary returns the cached total savings with transport equivalents.
func (h *ItemHandlers) Summary(c echo.Context) error {
	summary, err := h.items.Summary(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to compute summary")
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ItemHandlers) recordAdminAction(c echo.Context, action string, itemID int64) {
	account := common.AccountFromContext(c)
	if account == nil {
		return
	}
	id := account.ID
	resource := strconv.FormatInt(itemID, 10)
	h.audit.Record(c.Request().Context(), &services.AuditEntry{
		AdminID:      &id,
		Action:       action,
		ResourceType: "item",
		ResourceID:   &resource,
		Request:      requestContext(c),
	})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
