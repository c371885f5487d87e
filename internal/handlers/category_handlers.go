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

// CategoryHandlers handles category CRUD.
type CategoryHandlers struct {
	categories services.CategoryService
	audit      services.AuditService
}

func NewCategoryHandlers(categories services.CategoryService, audit services.AuditService) *CategoryHandlers {
	return &CategoryHandlers{categories: categories, audit: audit}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Name == "" {
		return common.SendBadRequest(c, "Name is required", common.CodeMissingFields)
	}

	category := &models.Category{Name: req.Name}
	if err := h.categories.Create(c.Request().Context(), category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return common.SendConflict(c, "A category with this name already exists", "NAME_EXISTS")
		}
		return common.SendServerError(c, "Failed to create category")
	}

	h.recordAdminAction(c, "create_category", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid category id", common.CodeMissingFields)
	}
	category, err := h.categories.Get(c.Request().Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFound(c, "Category not found")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to load category")
	}
	return c.JSON(http.StatusOK, category)
}

// GetCategoryByName resolves a category by name, items included.
func (h *CategoryHandlers) GetCategoryByName(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return common.SendBadRequest(c, "Category name is required", common.CodeMissingFields)
	}
	category, err := h.categories.GetByName(c.Request().Context(), name)
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFound(c, "Category not found")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to load category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid category id", common.CodeMissingFields)
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Name == "" {
		return common.SendBadRequest(c, "Name is required", common.CodeMissingFields)
	}

	category := &models.Category{ID: id, Name: req.Name}
	if err := h.categories.Update(c.Request().Context(), category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return common.SendConflict(c, "A category with this name already exists", "NAME_EXISTS")
		}
		return common.SendServerError(c, "Failed to update category")
	}

	h.recordAdminAction(c, "update_category", id)
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return common.SendBadRequest(c, "Invalid category id", common.CodeMissingFields)
	}
	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete category")
	}
	h.recordAdminAction(c, "delete_category", id)
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

type ListCategoriesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	var req ListCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid query parameters", common.CodeMissingFields)
	}
	limit, offset := clampPage(req.Limit, req.Offset)

	categories, err := h.categories.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list categories")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *CategoryHandlers) recordAdminAction(c echo.Context, action string, categoryID int64) {
	account := common.AccountFromContext(c)
	if account == nil {
		return
	}
	id := account.ID
	resource := strconv.FormatInt(categoryID, 10)
	h.audit.Record(c.Request().Context(), &services.AuditEntry{
		AdminID:      &id,
		Action:       action,
		ResourceType: "category",
		ResourceID:   &resource,
		Request:      requestContext(c),
	})
}
