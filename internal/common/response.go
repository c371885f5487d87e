package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes shared across the auth endpoints. Clients key their UI on
// these, not on messages.
const (
	CodeMissingFields          = "MISSING_FIELDS"
	CodeMissingEmail           = "MISSING_EMAIL"
	CodeMissingPassword        = "MISSING_PASSWORD"
	CodeUserExists             = "USER_EXISTS"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeUserNotVerified        = "USER_NOT_VERIFIED"
	CodeInvalidPassword        = "INVALID_PASSWORD"
	CodeInvalidOldPassword     = "INVALID_OLD_PASSWORD"
	CodePasswordMismatch       = "PASSWORD_MISMATCH"
	CodeWeakPassword           = "WEAK_PASSWORD"
	CodePasswordChangeRequired = "PASSWORD_CHANGE_REQUIRED"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeServerError            = "SERVER_ERROR"
)

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func SendError(c echo.Context, status int, message, errorCode string) error {
	return c.JSON(status, &ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: errorCode,
	})
}

func SendBadRequest(c echo.Context, message, errorCode string) error {
	return SendError(c, http.StatusBadRequest, message, errorCode)
}

func SendUnauthorized(c echo.Context, message, errorCode string) error {
	return SendError(c, http.StatusUnauthorized, message, errorCode)
}

func SendForbidden(c echo.Context, message string) error {
	return SendError(c, http.StatusForbidden, message, CodeForbidden)
}

func SendNotFound(c echo.Context, message string) error {
	return SendError(c, http.StatusNotFound, message, CodeNotFound)
}

func SendConflict(c echo.Context, message, errorCode string) error {
	return SendError(c, http.StatusConflict, message, errorCode)
}

func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message, CodeServerError)
}
