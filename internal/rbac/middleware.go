package rbac

import (
	"log/slog"
	"net/http"

	"github.com/fieldsales/backoffice/internal/shared"
)

// LoginPath receives users without a usable session.
const LoginPath = "/login"

// Middleware wires authorization helpers for HTTP handlers. The role comes
// from the upstream login response stored in the session.
type Middleware struct {
	Logger *slog.Logger
}

// RequireLogin redirects to the login page when the session holds no token.
func (m Middleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if !sess.SignedIn() {
			if sess != nil && r.Method == http.MethodGet {
				sess.Set(shared.ReturnToKey, r.URL.RequestURI())
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the current user holds one of roles.
func (m Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if !sess.SignedIn() {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			identity := sess.Identity()
			if Allowed(identity.Role, roles...) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac role denied", slog.String("user", identity.UserID), slog.String("role", identity.Role), slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
