package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SignIn(Identity{UserID: "7", Name: "Rina", Role: "admin"}, "tok-1")
	sess.AddFlash(FlashMessage{Kind: FlashSuccess, Message: "hello"})
	require.NoError(t, sess.SetJSON("draft", map[string]int{"n": 2}))

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", loaded.AccessToken())
	assert.Equal(t, "admin", loaded.Identity().Role)
	assert.Equal(t, "hello", loaded.PopFlash().Message)
	assert.Nil(t, loaded.PopFlash())

	var draft map[string]int
	ok, err := loaded.GetJSON("draft", &draft)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, draft["n"])
}

func TestSessionLogoutClearsCredentialsOnly(t *testing.T) {
	sess := newSession()
	sess.SignIn(Identity{UserID: "1", Role: "sales"}, "tok")
	sess.AddFlash(FlashMessage{Kind: FlashError, Message: "expired"})

	sess.Logout()

	assert.False(t, sess.SignedIn())
	assert.Empty(t, sess.User())
	assert.Equal(t, "expired", sess.PopFlash().Message)
}

func TestSessionDestroyExpiresCookie(t *testing.T) {
	sm := newTestManager(t)
	sess := newSession()
	sm.Destroy(sess)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCSRFTokenVerification(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := newSession()
	ctx := context.Background()

	token, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	again, _ := m.EnsureToken(ctx, sess)
	assert.Equal(t, token, again)

	assert.NoError(t, m.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, "other"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
}
