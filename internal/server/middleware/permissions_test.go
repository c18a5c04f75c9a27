package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		user   *AppUser
		want   int
	}{
		{name: "no user", method: http.MethodGet, path: "/api/documents/:id/portraits", want: http.StatusUnauthorized},
		{
			name:   "view portraits",
			method: http.MethodGet,
			path:   "/api/documents/:id/portraits",
			user:   &AppUser{Subject: "alice", Permissions: []string{PermView}},
			want:   http.StatusNoContent,
		},
		{
			name:   "list with view",
			method: http.MethodGet,
			path:   "/api/documents",
			user:   &AppUser{Subject: "alice", Permissions: []string{PermView}},
			want:   http.StatusNoContent,
		},
		{
			name:   "delete without permission",
			method: http.MethodDelete,
			path:   "/api/documents/:id",
			user:   &AppUser{Subject: "alice", Permissions: []string{PermView, PermExtract}},
			want:   http.StatusForbidden,
		},
		{
			name:   "unknown route",
			method: http.MethodGet,
			path:   "/api/*",
			user:   &AppUser{Subject: MasterSubject, Permissions: allPermissions},
			want:   http.StatusNotFound,
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/", nil), rec)
			c.SetPath(tt.path)

			h := Authorize(func(c echo.Context) error {
				return c.NoContent(http.StatusNoContent)
			})
			if err := h(&AppContext{Context: c, User: tt.user}); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAppUserCan(t *testing.T) {
	var nobody *AppUser
	if nobody.Can(PermView) {
		t.Fatal("nil user must not have permissions")
	}
	u := &AppUser{Permissions: []string{PermDocumentList}}
	if !u.Can(PermView, PermDocumentList) {
		t.Fatal("expected any-of match")
	}
	if u.Can(PermDocumentDelete) {
		t.Fatal("unexpected permission")
	}
}
