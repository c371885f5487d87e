package handlers

import (
	"github.com/labstack/echo/v4"

	"klimarechner/internal/services"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// requestContext extracts request metadata for audit entries.
func requestContext(c echo.Context) *services.RequestContext {
	return &services.RequestContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Method:    c.Request().Method,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
