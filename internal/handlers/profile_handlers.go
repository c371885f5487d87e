package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"klimarechner/internal/common"
	"klimarechner/internal/models"
	"klimarechner/internal/services"
)

// ProfileHandlers serves the client-only company profile and dashboard.
type ProfileHandlers struct {
	profiles services.ProfileService
	items    services.ItemService
}

func NewProfileHandlers(profiles services.ProfileService, items services.ItemService) *ProfileHandlers {
	return &ProfileHandlers{profiles: profiles, items: items}
}

func (h *ProfileHandlers) GetProfile(c echo.Context) error {
	account, err := h.clientAccount(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.Request().Context(), account.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
}

func (h *ProfileHandlers) UpdateProfile(c echo.Context) error {
	account, err := h.clientAccount(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}

	profile, err := h.profiles.Update(c.Request().Context(), &models.UserProfile{
		UserID:      account.ID,
		CompanyName: req.CompanyName,
		Location:    req.Location,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// Dashboard combines the account, the profile and the current savings
// summary into one payload for the landing view.
func (h *ProfileHandlers) Dashboard(c echo.Context) error {
	account, err := h.clientAccount(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.profiles.Get(ctx, account.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to load profile")
	}
	summary, err := h.items.Summary(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to compute summary")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":    account.FullName(),
		"email":   account.Email,
		"company": profile.CompanyName,
		"savings": summary,
	})
}

func (h *ProfileHandlers) clientAccount(c echo.Context) (*models.Account, error) {
	account := common.AccountFromContext(c)
	if account == nil {
		return nil, common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
	}
	if account.IsAdmin() {
		return nil, common.SendForbidden(c, "Profiles are only available for client accounts")
	}
	return account, nil
}
