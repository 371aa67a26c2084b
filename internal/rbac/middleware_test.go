package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/shared"
)

func requestWithSession(t *testing.T, target string, sess *shared.Session) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func signedIn(role string) *shared.Session {
	sess := &shared.Session{ID: "s1"}
	sess.SignIn(shared.Identity{UserID: "7", Name: "Rina", Role: role}, "token")
	return sess
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	sess := &shared.Session{ID: "s1"}
	rr := httptest.NewRecorder()
	Middleware{}.RequireLogin(okHandler()).ServeHTTP(rr, requestWithSession(t, "/visits?page=2", sess))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, LoginPath, rr.Header().Get("Location"))
	assert.Equal(t, "/visits?page=2", sess.Get(shared.ReturnToKey))
}

func TestRequireLoginPassesSignedIn(t *testing.T) {
	rr := httptest.NewRecorder()
	Middleware{}.RequireLogin(okHandler()).ServeHTTP(rr, requestWithSession(t, "/visits", signedIn(RoleSales)))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequireRole(t *testing.T) {
	mw := Middleware{}.RequireRole(RoleAdmin)

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithSession(t, "/admin/careers", signedIn(RoleSales)))
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithSession(t, "/admin/careers", signedIn(" Admin ")))
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAllowedWithoutRestriction(t *testing.T) {
	assert.True(t, Allowed("anything"))
	assert.False(t, Allowed("", RoleAdmin))
}
