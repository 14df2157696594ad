package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/domain/user"
	"library-circulation/internal/usecase/auth"
)

const actorKey = "actor"

// RequireAuth accepts "Authorization: Bearer <token>" and stores the actor on the context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			a, err := auth.ParseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			SetActor(c, a)
			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			for _, r := range roles {
				if a.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
		}
	}
}

func SetActor(c echo.Context, a *auth.Actor) { c.Set(actorKey, a) }

func ActorFrom(c echo.Context) (*auth.Actor, bool) {
	a, ok := c.Get(actorKey).(*auth.Actor)
	return a, ok && a != nil
}
