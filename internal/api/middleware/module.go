package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// RequireModule restricts a route to users whose capability set covers every
// named module. Administrators always pass; staff must hold all of them in
// the modules claim. It expects Auth to have run first.
func RequireModule(modules ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == domain.RoleAdministrator {
				return next(c)
			}
			if role != domain.RoleStaff {
				return domain.ErrForbidden
			}

			granted, _ := c.Get("modules").([]string)
			held := make(map[string]struct{}, len(granted))
			for _, m := range granted {
				held[m] = struct{}{}
			}
			for _, m := range modules {
				if _, ok := held[m]; !ok {
					return domain.ErrForbidden
				}
			}
			return next(c)
		}
	}
}
