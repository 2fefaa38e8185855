/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package auth

import (
	"github.com/labstack/echo/v4"
)

// CookieName carries the session token, matching the original web client.
const CookieName = "user"

// ContextKey is where the middleware stores the authenticated account id.
const ContextKey = "authenticatedUser"

// Middleware decodes the session cookie and exposes the caller id to
// handlers. Requests without a valid cookie pass through unauthenticated;
// handlers that require a caller use RequireUser.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				if userID, verifyErr := issuer.Verify(cookie.Value); verifyErr == nil {
					c.Set(ContextKey, userID)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated account id, or empty when the request
// carried no valid session.
func UserID(c echo.Context) string {
	if id, ok := c.Get(ContextKey).(string); ok {
		return id
	}
	return ""
}
