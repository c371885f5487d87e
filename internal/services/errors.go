package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes and error_code strings.
var (
	ErrNotFound               = errors.New("record not found")
	ErrWeakPassword           = errors.New("password does not meet strength requirements")
	ErrNotVerified            = errors.New("account is not verified")
	ErrInvalidPassword        = errors.New("invalid password")
	ErrPasswordChangeRequired = errors.New("password change required")
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("token expired")
)
