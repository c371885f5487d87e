package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"klimarechner/internal/config"
	"klimarechner/internal/services"
)

// VerifyHandlers serves the approval and rejection links embedded in
// lifecycle emails. Both redirect to static result pages; the links are
// opened in browsers, not by API clients.
type VerifyHandlers struct {
	accounts services.AccountService
	tokens   services.TokenService
	pages    config.PagesConfig
}

func NewVerifyHandlers(accounts services.AccountService, tokens services.TokenService, pages config.PagesConfig) *VerifyHandlers {
	return &VerifyHandlers{accounts: accounts, tokens: tokens, pages: pages}
}

// Approve verifies the account the token was issued for.
func (h *VerifyHandlers) Approve(c echo.Context) error {
	claims, err := h.decode(c, services.ActionVerify)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, h.pages.InvalidToken)
	}

	_, status, err := h.accounts.Verify(c.Request().Context(), claims.Subject)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Redirect(http.StatusSeeOther, h.pages.NotFound)
	case err != nil:
		return c.Redirect(http.StatusSeeOther, h.pages.InvalidToken)
	case status == services.StatusAlreadyVerified:
		return c.Redirect(http.StatusSeeOther, h.pages.AlreadyApproved)
	}
	return c.Redirect(http.StatusSeeOther, h.pages.Approved)
}

// Reject deletes a pending account. Once verified an account can no longer
// be rejected through a stale link.
func (h *VerifyHandlers) Reject(c echo.Context) error {
	claims, err := h.decode(c, services.ActionReject)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, h.pages.InvalidToken)
	}

	status, err := h.accounts.Reject(c.Request().Context(), claims.Subject)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Redirect(http.StatusSeeOther, h.pages.NotFound)
	case err != nil:
		return c.Redirect(http.StatusSeeOther, h.pages.InvalidToken)
	case status == services.StatusAlreadyVerified:
		return c.Redirect(http.StatusSeeOther, h.pages.AlreadyApproved)
	}
	return c.Redirect(http.StatusSeeOther, h.pages.Rejected)
}

func (h *VerifyHandlers) decode(c echo.Context, action string) (*services.TokenClaims, error) {
	token := c.QueryParam("token")
	if token == "" {
		return nil, services.ErrInvalidToken
	}
	claims, err := h.tokens.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.Action != action {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}
