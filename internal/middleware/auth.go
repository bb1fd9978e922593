package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movies-api/internal/utils"
)

// ContextKeySubject is where BearerAuth stores the token subject.
const ContextKeySubject = "subject"

// BearerAuth rejects requests without a valid HS256 bearer token signed
// with secret.  The token subject is stored under ContextKeySubject.
func BearerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(auth, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				return reject(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			}

			claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return reject(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			}
			c.Set(ContextKeySubject, claims.Subject)
			return next(c)
		}
	}
}
