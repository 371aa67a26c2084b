package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/auth"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen/screentest"
	"github.com/fieldsales/backoffice/internal/shared"
	_ "github.com/fieldsales/backoffice/internal/testing/guard"
)

type forgetRecorder struct{ ids []string }

func (f *forgetRecorder) Forget(id string) { f.ids = append(f.ids, id) }

type authEnv struct {
	handler  *auth.Handler
	sessions *shared.SessionManager
	forget   *forgetRecorder
	calls    *atomic.Int32
}

func newAuthEnv(t *testing.T, upstream http.HandlerFunc) authEnv {
	t.Helper()
	calls := &atomic.Int32{}
	env := screentest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)
	forget := &forgetRecorder{}
	api, err := apiclient.NewFactory(apiclient.Options{BaseURL: env.Upstream.URL})
	require.NoError(t, err)
	handler := auth.NewHandler(env.Base, auth.NewService(auth.NewRepository(api)), sessions, forget)
	return authEnv{handler: handler, sessions: sessions, forget: forget, calls: calls}
}

func loginUpstream(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "upstream-token",
			"user":  map[string]any{"id": 7, "name": "Rina", "email": body["email"], "role": role},
		})
	}
}

func credentials(password string) url.Values {
	return url.Values{"email": {"rina@example.com"}, "password": {password}}
}

func TestLoginPage(t *testing.T) {
	env := newAuthEnv(t, loginUpstream("admin"))
	rr := screentest.Serve(env.handler.MountRoutes, &shared.Session{ID: "s"}, screentest.Get("/login"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/login"`)
}

func TestLoginValidationSkipsUpstream(t *testing.T) {
	env := newAuthEnv(t, loginUpstream("admin"))
	sess := &shared.Session{ID: "s"}

	rr := screentest.Serve(env.handler.MountRoutes, sess, screentest.PostForm("/login", url.Values{"email": {"not-an-email"}}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email must be a valid email")
	assert.Contains(t, rr.Body.String(), "password is required")
	assert.Zero(t, env.calls.Load())
	assert.False(t, sess.SignedIn())
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newAuthEnv(t, loginUpstream("admin"))
	sess := &shared.Session{ID: "s"}

	rr := screentest.Serve(env.handler.MountRoutes, sess, screentest.PostForm("/login", credentials("wrong")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email or password.")
	assert.False(t, sess.SignedIn())
}

func TestLoginStoresTokenAndReturns(t *testing.T) {
	env := newAuthEnv(t, loginUpstream("Sales"))
	sess := &shared.Session{ID: "s"}
	sess.Set(shared.ReturnToKey, "/visits?page=2")

	rr := screentest.Serve(env.handler.MountRoutes, sess, screentest.PostForm("/login", credentials("correct-horse")))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/visits?page=2", rr.Header().Get("Location"))
	assert.Equal(t, "upstream-token", sess.AccessToken())
	assert.Equal(t, shared.Identity{UserID: "7", Name: "Rina", Role: "sales"}, sess.Identity())
	assert.Empty(t, sess.Get(shared.ReturnToKey))
	assert.Contains(t, screentest.Flash(sess), "Welcome back")
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	env := newAuthEnv(t, loginUpstream("customer"))
	sess := &shared.Session{ID: "s"}

	rr := screentest.Serve(env.handler.MountRoutes, sess, screentest.PostForm("/login", credentials("correct-horse")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot use the back office")
	assert.False(t, sess.SignedIn())
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newAuthEnv(t, loginUpstream("admin"))
	ctx := context.Background()

	sess, err := env.sessions.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SignIn(shared.Identity{UserID: "7", Role: "admin"}, "tok")
	require.NoError(t, env.sessions.Commit(ctx, httptest.NewRecorder(), sess))

	rr := screentest.Serve(env.handler.MountRoutes, sess, screentest.PostForm("/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, []string{sess.ID}, env.forget.ids)

	out := httptest.NewRecorder()
	require.NoError(t, env.sessions.Commit(ctx, out, sess))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: env.sessions.CookieName(), Value: sess.ID})
	reloaded, err := env.sessions.Load(ctx, req)
	require.NoError(t, err)
	assert.False(t, reloaded.SignedIn())
	assert.NotEqual(t, sess.ID, reloaded.ID)
}
