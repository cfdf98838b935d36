package middleware

// identity.go defines helper functions shared across middleware files. It
// provides the user-id string used when building per-user cache and rate
// limit keys. When no user is authenticated, "guest" is returned so
// unauthenticated traffic shares one bucket per IP/route.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from the request context as a
// string. It returns "guest" when no user is authenticated.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		if v != "" {
			return v
		}
	}
	return "guest"
}
