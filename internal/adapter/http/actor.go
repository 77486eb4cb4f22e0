package http

import (
	"net/http"
	"strings"

	"pawnshop-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

// Identity is resolved by the gateway in front of this service.
const (
	HeaderUserID = "Ax-User-Id"
	HeaderRole   = "Ax-Role"

	roleAdmin = "admin"
	actorKey  = "ledger.actor"
)

// ActorMiddleware turns the gateway headers into a ledger.Actor.
func ActorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
		if userID == "" {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + HeaderUserID})
		}
		if !reHex32.MatchString(userID) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid " + HeaderUserID})
		}
		role := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderRole)))
		c.Set(actorKey, ledger.Actor{UserID: userID, Admin: role == roleAdmin})
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !actorOf(c).Admin {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
		}
		return next(c)
	}
}

func actorOf(c echo.Context) ledger.Actor {
	a, _ := c.Get(actorKey).(ledger.Actor)
	return a
}
