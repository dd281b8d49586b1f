package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// RoleAny means any authenticated session may perform the action.
const RoleAny = "*"

// policy is the single authorization table: resource → action →
// required role. Every route group goes through Authorize, so access
// rules live here and nowhere else.
var policy = map[string]map[Action]string{
	"programmes": {ActionRead: RoleAny, ActionWrite: "admin"},
	"students":   {ActionRead: "admin", ActionWrite: "admin"},
	"units":      {ActionRead: RoleAny, ActionWrite: "admin"},
	"marks":      {ActionRead: RoleAny, ActionWrite: "admin"},
	"self":       {ActionRead: "student"},
}

// Allowed reports whether a role may perform action on resource.
// Unknown resource/action pairs deny.
func Allowed(role, resource string, action Action) bool {
	actions, ok := policy[resource]
	if !ok {
		return false
	}
	need, ok := actions[action]
	if !ok {
		return false
	}
	if need == RoleAny {
		return role != ""
	}
	return strings.EqualFold(role, need)
}

// Authorize gates a route on the policy table. RequireAuth must run
// first so the role is on the context.
func Authorize(resource string, action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !Allowed(role, resource, action) {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}
