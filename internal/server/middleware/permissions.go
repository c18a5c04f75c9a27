package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// routePermissions maps "METHOD path" of each API route to the
// permissions that grant access to it. Holding any one of them is enough.
var routePermissions = map[string][]string{
	http.MethodPost + " /api/extract":                {PermExtract},
	http.MethodGet + " /api/documents":               {PermDocumentList, PermView},
	http.MethodPost + " /api/documents":              {PermDocumentCreate},
	http.MethodDelete + " /api/documents/:id":        {PermDocumentDelete},
	http.MethodGet + " /api/documents/:id/portraits": {PermView},
	http.MethodGet + " /api/documents/:id/source":    {PermView},
}

// Can reports whether u holds at least one of permissions.
func (u *AppUser) Can(permissions ...string) bool {
	if u == nil {
		return false
	}
	return slices.ContainsFunc(permissions, func(p string) bool {
		return slices.Contains(u.Permissions, p)
	})
}

// Authorize checks the authenticated user against routePermissions. It
// must run after AuthMiddleware. Paths without an entry are not part of
// the API and answer 404.
func Authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.(*AppContext).User
		if user == nil {
			return unauthorized(c, "Unauthorized")
		}

		required, ok := routePermissions[c.Request().Method+" "+c.Path()]
		if !ok {
			return echo.ErrNotFound
		}
		if !user.Can(required...) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: missing permission " + required[0]})
		}
		return next(c)
	}
}
