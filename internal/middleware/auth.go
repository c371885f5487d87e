package middleware

import (
	"context"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"klimarechner/internal/common"
	"klimarechner/internal/services"
)

// UserGate authenticates requests with a login token taken from the
// access_token cookie, the Authorization header or the token query
// parameter, in that priority order.
func UserGate(tokens services.TokenService) echo.MiddlewareFunc {
	return gate(tokens, "cookie:access_token,header:Authorization:Bearer ,query:token")
}

// AdminGate accepts the cookie only. Admin sessions never ride on headers
// or URLs.
func AdminGate(tokens services.TokenService) echo.MiddlewareFunc {
	return gate(tokens, "cookie:access_token")
}

func gate(tokens services.TokenService, lookup string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: lookup,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.VerifyLoginToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
		},
	})
}

// RequireAccount resolves the token subject to a stored account and rejects
// sessions whose account has disappeared or lost verification since the
// token was issued.
func RequireAccount(accounts services.AccountService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*services.TokenClaims)
			if !ok {
				return common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
			}
			account, err := accounts.GetByEmail(c.Request().Context(), claims.Subject)
			if err != nil || !account.IsVerified {
				return common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
			}
			c.Set(common.AccountKey, account)
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin accounts with 403 and records the denial.
func RequireAdmin(audit services.AuditService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := common.AccountFromContext(c)
			if account == nil {
				return common.SendUnauthorized(c, "Authentication required", common.CodeUnauthorized)
			}
			if !account.IsAdmin() {
				userID := account.ID
				audit.Record(context.WithoutCancel(c.Request().Context()), &services.AuditEntry{
					UserID:       &userID,
					Action:       "admin_access_denied",
					ResourceType: "account",
					Status:       "failure",
					Request: &services.RequestContext{
						IPAddress: c.RealIP(),
						UserAgent: c.Request().UserAgent(),
						Method:    c.Request().Method,
					},
				})
				return common.SendForbidden(c, "Administrator access required")
			}
			return next(c)
		}
	}
}
