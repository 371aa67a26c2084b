package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/admin/announcements"
	"github.com/fieldsales/backoffice/internal/admin/attendance"
	"github.com/fieldsales/backoffice/internal/admin/careers"
	"github.com/fieldsales/backoffice/internal/admin/customers"
	"github.com/fieldsales/backoffice/internal/admin/hookcategories"
	"github.com/fieldsales/backoffice/internal/admin/partners"
	"github.com/fieldsales/backoffice/internal/admin/returns"
	"github.com/fieldsales/backoffice/internal/admin/shipments"
	"github.com/fieldsales/backoffice/internal/admin/unbilled"
	"github.com/fieldsales/backoffice/internal/auth"
	"github.com/fieldsales/backoffice/internal/field/hooks"
	"github.com/fieldsales/backoffice/internal/field/reorders"
	"github.com/fieldsales/backoffice/internal/field/visits"
	"github.com/fieldsales/backoffice/internal/home"
	"github.com/fieldsales/backoffice/internal/picker"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/rbac"
	"github.com/fieldsales/backoffice/internal/screen/screentest"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/jobs"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := screentest.New(t, screentest.NewFakeAPI())
	base := env.Base
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := picker.NewRegistry(picker.Options{}, time.Minute)
	pickers := pickerhttp.NewHandler(base, registry)
	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)

	return NewRouter(RouterParams{
		Logger:                logger,
		Config:                &Config{AppEnv: "test"},
		SessionManager:        sessions,
		CSRFManager:           base.CSRF,
		RBACMiddleware:        rbac.Middleware{Logger: logger},
		AuthHandler:           auth.NewHandler(base, auth.NewService(nil), sessions, registry),
		HomeHandler:           home.NewHandler(base),
		PickerHandler:         pickers,
		JobHandler:            jobs.NewHandler(base, nil, nil),
		AnnouncementsHandler:  announcements.NewHandler(base),
		CareersHandler:        careers.NewHandler(base),
		CustomersHandler:      customers.NewHandler(base),
		PartnersHandler:       partners.NewHandler(base),
		HookCategoriesHandler: hookcategories.NewHandler(base),
		ReturnsHandler:        returns.NewHandler(base),
		ShipmentsHandler:      shipments.NewHandler(base),
		AttendanceHandler:     attendance.NewHandler(base, nil),
		UnbilledHandler:       unbilled.NewHandler(base, nil),
		VisitsHandler:         visits.NewHandler(base, pickers),
		ReordersHandler:       reorders.NewHandler(base, pickers),
		HooksHandler:          hooks.NewHandler(base, pickers),
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestScreensRequireLogin(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/", "/visits", "/admin/customers", "/admin/hooks/categories", "/exports/abc"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusSeeOther, rr.Code, path)
		assert.Equal(t, rbac.LoginPath, rr.Header().Get("Location"), path)
	}
}

func TestLoginPageIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Result().Cookies())
}

func TestPostWithoutCSRFTokenIsForbidden(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{"email": {"a@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStaticAssetsAreCached(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
}
