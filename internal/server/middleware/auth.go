package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	PermExtract        = "portrait.extract"
	PermView           = "portrait.view"
	PermDocumentCreate = "document.create"
	PermDocumentDelete = "document.delete"
	PermDocumentList   = "document.list"
)

var allPermissions = []string{
	PermExtract,
	PermView,
	PermDocumentCreate,
	PermDocumentDelete,
	PermDocumentList,
}

var errInvalidUserID = errors.New("token carries no user id")

// MasterSubject identifies requests authenticated with the master API key.
const MasterSubject = "master"

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
}

// AuthMiddleware accepts either the master API key or a JWT signed by the
// configured key set as bearer token.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, "Unauthorized")
		}

		ac := c.(*AppContext)
		if ac.App.MasterAPIKey != "" && token == ac.App.MasterAPIKey {
			ac.User = &AppUser{
				Subject:     MasterSubject,
				Role:        "admin",
				Permissions: allPermissions,
			}
			return next(c)
		}

		if ac.App.Keyfunc == nil {
			return unauthorized(c, "Unauthorized")
		}
		parsed, err := jwt.Parse(token, ac.App.Keyfunc)
		if err != nil || !parsed.Valid {
			return unauthorized(c, "Unauthorized")
		}
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}

		user, err := userFromClaims(claims)
		if err != nil {
			return unauthorized(c, "Invalid user ID")
		}
		ac.User = user
		return next(c)
	}
}

func userFromClaims(claims jwt.MapClaims) (*AppUser, error) {
	var subject string
	switch id := claims["id"].(type) {
	case string:
		subject = id
	case float64:
		subject = fmt.Sprintf("%d", int64(id))
	default:
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return nil, errInvalidUserID
		}
		subject = sub
	}

	role := "user"
	if r, ok := claims["role"].(string); ok {
		role = r
	}

	var permissions []string
	if perms, ok := claims["permissions"].([]any); ok {
		for _, p := range perms {
			if s, ok := p.(string); ok {
				permissions = append(permissions, s)
			}
		}
	}
	if role == "admin" && len(permissions) == 0 {
		permissions = allPermissions
	}

	return &AppUser{Subject: subject, Role: role, Permissions: permissions}, nil
}
