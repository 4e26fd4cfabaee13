package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// roleMiddleware only lets actors holding one of the given roles through. A role
// ending in ":" matches as a prefix, so core.RoleInstitution covers all
// institution kinds.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := getContextActor(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context actor")
			}
			for _, role := range roles {
				if actor.Role == role {
					return next(ctx)
				}
				if strings.HasSuffix(role, ":") && strings.HasPrefix(actor.Role, role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}
