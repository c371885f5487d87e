package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"klimarechner/internal/common"
	"klimarechner/internal/models"
	"klimarechner/internal/obs"
	"klimarechner/internal/repositories"
	"klimarechner/internal/services"
)

const authCookieName = "access_token"

// AuthHandlers handles registration, login and password management.
type AuthHandlers struct {
	accounts services.AccountService
	audit    services.AuditService
}

func NewAuthHandlers(accounts services.AccountService, audit services.AuditService) *AuthHandlers {
	return &AuthHandlers{accounts: accounts, audit: audit}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a client account. The account stays unverified until the
// emailed confirmation link is followed.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return common.SendBadRequest(c, "Email, password, first name and last name are required", common.CodeMissingFields)
	}

	account, err := h.accounts.Register(c.Request().Context(), &services.RegisterInput{
		Role:      models.RoleClient,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		return common.SendBadRequest(c, "Password must be at least 8 characters with upper and lower case letters, a digit and a symbol", common.CodeWeakPassword)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return common.SendConflict(c, "An account with this email already exists", common.CodeUserExists)
	case err != nil:
		return common.SendServerError(c, "Registration failed")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Registration successful, please confirm your email address",
		"account": account,
	})
}

type AdminRegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AdminRegister creates a pending admin account. No password is taken; one
// is generated when an operator approves the request.
func (h *AuthHandlers) AdminRegister(c echo.Context) error {
	var req AdminRegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return common.SendBadRequest(c, "Email, first name and last name are required", common.CodeMissingFields)
	}

	account, err := h.accounts.Register(c.Request().Context(), &services.RegisterInput{
		Role:      models.RoleAdmin,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	switch {
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return common.SendConflict(c, "An account with this email already exists", common.CodeUserExists)
	case err != nil:
		return common.SendServerError(c, "Registration failed")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Registration received, awaiting approval",
		"account": account,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Email == "" {
		return common.SendBadRequest(c, "Email is required", common.CodeMissingEmail)
	}
	if req.Password == "" {
		return common.SendBadRequest(c, "Password is required", common.CodeMissingPassword)
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password, requestContext(c))
	switch {
	case errors.Is(err, services.ErrNotFound):
		obs.CountLogin("user_not_found")
		return common.SendUnauthorized(c, "No account with this email", common.CodeUserNotFound)
	case errors.Is(err, services.ErrNotVerified):
		obs.CountLogin("not_verified")
		return common.SendUnauthorized(c, "Account is not verified yet", common.CodeUserNotVerified)
	case errors.Is(err, services.ErrInvalidPassword):
		obs.CountLogin("invalid_password")
		return common.SendUnauthorized(c, "Invalid password", common.CodeInvalidPassword)
	case errors.Is(err, services.ErrPasswordChangeRequired):
		obs.CountLogin("password_change_required")
		return common.SendUnauthorized(c, "Password change required before login", common.CodePasswordChangeRequired)
	case err != nil:
		obs.CountLogin("error")
		return common.SendServerError(c, "Login failed")
	}

	obs.CountLogin("success")
	setAuthCookie(c, result.Token)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"account": result.Account,
		"token":   result.Token,
	})
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	clearAuthCookie(c)

	if account := common.AccountFromContext(c); account != nil {
		entry := &services.AuditEntry{
			Action:       "logout",
			ResourceType: "account",
			Request:      requestContext(c),
		}
		id := account.ID
		if account.IsAdmin() {
			entry.AdminID = &id
		} else {
			entry.UserID = &id
		}
		h.audit.Record(c.Request().Context(), entry)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	account := common.AccountFromContext(c)
	if account == nil {
		return common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return common.SendBadRequest(c, "Old, new and confirm passwords are required", common.CodeMissingFields)
	}
	if req.NewPassword != req.ConfirmPassword {
		return common.SendBadRequest(c, "New passwords do not match", common.CodePasswordMismatch)
	}

	ctx := c.Request().Context()
	match, err := h.accounts.ConfirmPassword(ctx, account.Email, req.OldPassword)
	if err != nil {
		return common.SendServerError(c, "Password change failed")
	}
	if match == nil {
		return common.SendBadRequest(c, "Old password is incorrect", common.CodeInvalidOldPassword)
	}

	if err := h.accounts.ChangePassword(ctx, account.Email, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrWeakPassword) {
			return common.SendBadRequest(c, "Password must be at least 8 characters with upper and lower case letters, a digit and a symbol", common.CodeWeakPassword)
		}
		return common.SendServerError(c, "Password change failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed",
	})
}

// Me returns the authenticated account.
func (h *AuthHandlers) Me(c echo.Context) error {
	account := common.AccountFromContext(c)
	if account == nil {
		return common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"account": account,
	})
}

type ListAccountsRequest struct {
	Role   string `query:"role"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListAccounts returns accounts of one role for the admin dashboard.
func (h *AuthHandlers) ListAccounts(c echo.Context) error {
	var req ListAccountsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid query parameters", common.CodeMissingFields)
	}
	if req.Role == "" {
		req.Role = models.RoleClient
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleClient {
		return common.SendBadRequest(c, "Role must be admin or client", common.CodeMissingFields)
	}
	limit, offset := clampPage(req.Limit, req.Offset)

	accounts, err := h.accounts.List(c.Request().Context(), req.Role, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list accounts")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"limit":    limit,
		"offset":   offset,
	})
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword sets a new password without a session. It is the only way
// out of the forced-change state, since login refuses to issue a token
// until the one-time password is replaced. The old password gates it.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendBadRequest(c, "Invalid request format", common.CodeMissingFields)
	}
	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return common.SendBadRequest(c, "Email, old, new and confirm passwords are required", common.CodeMissingFields)
	}
	if req.NewPassword != req.ConfirmPassword {
		return common.SendBadRequest(c, "New passwords do not match", common.CodePasswordMismatch)
	}

	ctx := c.Request().Context()
	account, err := h.accounts.ConfirmPassword(ctx, req.Email, req.OldPassword)
	if err != nil {
		return common.SendServerError(c, "Password change failed")
	}
	if account == nil {
		// Unknown email and wrong password answer alike
		return common.SendBadRequest(c, "Old password is incorrect", common.CodeInvalidOldPassword)
	}

	if err := h.accounts.ChangePassword(ctx, req.Email, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrWeakPassword) {
			return common.SendBadRequest(c, "Password must be at least 8 characters with upper and lower case letters, a digit and a symbol", common.CodeWeakPassword)
		}
		return common.SendServerError(c, "Password change failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed, you can sign in now",
	})
}

func setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
