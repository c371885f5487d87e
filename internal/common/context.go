package common

import (
	"github.com/labstack/echo/v4"

	"klimarechner/internal/models"
)

// AccountKey is the echo context key the auth gate stores the loaded
// account under.
const AccountKey = "account"

// AccountFromContext returns the authenticated account, or nil when the
// request passed no gate.
func AccountFromContext(c echo.Context) *models.Account {
	account, _ := c.Get(AccountKey).(*models.Account)
	return account
}
