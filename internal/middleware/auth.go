package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/model"
	"github.com/iliyamo/task-management-system/internal/repository"
	"github.com/iliyamo/task-management-system/internal/utils"
)

// IdentityKey is the echo.Context key under which Authenticate stores the
// resolved model.User for the current request.
const IdentityKey = "identity"

// Authenticate returns an Echo middleware that validates a Bearer access
// token and resolves the FULL user record behind it.  The flow is:
//
//  1. No Authorization header / no Bearer prefix -> 401 without ever
//     touching the token parser.
//  2. Signature and expiry are checked by utils.ParseAccessToken.
//  3. The subject id is re-read from the user store.  A user deleted or
//     deactivated after the token was issued fails closed here; claims are
//     never trusted for role or email.
//
// On success the user is stored in the context for this single request
// (never cached across requests) under IdentityKey, plus "user_id" and
// "role" for key-building middleware.  Every failure path produces the
// same 401 body so callers cannot distinguish why a token was rejected;
// the reason is only logged.
func Authenticate(secret string, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return unauthenticated(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			userID, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				// Malformed vs bad signature vs expired matters for
				// operators, never for the client.
				log.Printf("auth: token rejected: %v", err)
				return unauthenticated(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, userID)
			if err != nil {
				if err != repository.ErrNotFound {
					log.Printf("auth: identity lookup failed: %v", err)
				}
				return unauthenticated(c)
			}
			if !u.IsActive {
				return unauthenticated(c)
			}

			c.Set(IdentityKey, u)
			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by Authenticate for this request.
// The second return is false when the middleware did not run.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(IdentityKey).(model.User)
	return u, ok
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
