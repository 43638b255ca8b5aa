package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avoskan/taskboard/internal/model"
	"github.com/avoskan/taskboard/internal/repository"
	"github.com/avoskan/taskboard/internal/utils"
)

// userContextKey is where the resolved user is stored in the echo
// context for downstream handlers.
const userContextKey = "user"

// AccessAuth returns an Echo middleware that resolves the caller's
// identity from a Bearer access token. It runs before any business
// logic on every protected route: the token is decoded with the access
// secret, its subject is looked up by username-or-email, and the
// resulting user is stored in the request context. Failures are always
// 401 with a WWW-Authenticate: Bearer header; an expired token and a
// soft-deleted account get distinguishable messages, everything else is
// reported generically so callers cannot probe which identifiers exist.
func AccessAuth(accessSecret string, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "could not validate credentials")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			subject, err := utils.ParseSubject(accessSecret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return unauthorized(c, "token expired")
				}
				// Malformed, wrong-key and subject-less tokens are
				// indistinguishable to the client.
				return unauthorized(c, "could not validate credentials")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByUsernameOrEmail(ctx, subject)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return unauthorized(c, "could not validate credentials")
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			if u.IsDeleted {
				return unauthorized(c, "user is not active")
			}

			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// UserFrom extracts the user resolved by AccessAuth from the context.
func UserFrom(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userContextKey).(*model.User)
	return u, ok
}

// unauthorized writes a 401 with the bearer challenge header.
func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}
