package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dockside/truck-management/internal/core/domain"
)

func runRequireRole(t *testing.T, min, role string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	called := false
	handler := RequireRole(min)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRequireRole_Hierarchy(t *testing.T) {
	cases := []struct {
		min     string
		role    string
		allowed bool
	}{
		{domain.RoleViewer, domain.RoleViewer, true},
		{domain.RoleViewer, domain.RoleUser, true},
		{domain.RoleViewer, domain.RoleAdmin, true},
		{domain.RoleUser, domain.RoleViewer, false},
		{domain.RoleUser, domain.RoleUser, true},
		{domain.RoleUser, domain.RoleAdmin, true},
		{domain.RoleAdmin, domain.RoleViewer, false},
		{domain.RoleAdmin, domain.RoleUser, false},
		{domain.RoleAdmin, domain.RoleAdmin, true},
	}

	for _, tc := range cases {
		rec, called := runRequireRole(t, tc.min, tc.role)
		if tc.allowed && (!called || rec.Code != http.StatusOK) {
			t.Fatalf("min=%s role=%s: expected allow, got code %d", tc.min, tc.role, rec.Code)
		}
		if !tc.allowed && (called || rec.Code != http.StatusForbidden) {
			t.Fatalf("min=%s role=%s: expected 403, got code %d", tc.min, tc.role, rec.Code)
		}
	}
}

func TestRequireRole_UnknownRole(t *testing.T) {
	rec, called := runRequireRole(t, domain.RoleViewer, "superuser")
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("unknown role must be rejected even at viewer level, got code %d", rec.Code)
	}
}

func TestRequireRole_MissingRole(t *testing.T) {
	rec, called := runRequireRole(t, domain.RoleViewer, "")
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("missing role must be rejected, got code %d", rec.Code)
	}
}
