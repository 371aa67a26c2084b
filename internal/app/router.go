package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

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
	"github.com/fieldsales/backoffice/internal/observability"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/rbac"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/jobs"
	"github.com/fieldsales/backoffice/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics

	AuthHandler   *auth.Handler
	HomeHandler   *home.Handler
	PickerHandler *pickerhttp.Handler
	JobHandler    *jobs.Handler

	AnnouncementsHandler  *announcements.Handler
	CareersHandler        *careers.Handler
	CustomersHandler      *customers.Handler
	PartnersHandler       *partners.Handler
	HookCategoriesHandler *hookcategories.Handler
	ReturnsHandler        *returns.Handler
	ShipmentsHandler      *shipments.Handler
	AttendanceHandler     *attendance.Handler
	UnbilledHandler       *unbilled.Handler

	VisitsHandler   *visits.Handler
	ReordersHandler *reorders.Handler
	HooksHandler    *hooks.Handler
}

// NewRouter constructs the chi.Router with back-office defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	params.AuthHandler.MountRoutes(r)

	rb := params.RBACMiddleware
	r.Group(func(r chi.Router) {
		r.Use(rb.RequireLogin)

		r.Method(http.MethodGet, "/", params.HomeHandler)
		r.Route("/pickers", params.PickerHandler.MountRoutes)
		r.Route("/exports", params.JobHandler.MountExportRoutes)
		r.With(rb.RequireRole(rbac.RoleAdmin)).Route("/jobs", params.JobHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(rb.RequireRole(rbac.RoleSales, rbac.RoleAdmin))
			r.Route("/visits", params.VisitsHandler.MountRoutes)
			r.Route("/reorders", params.ReordersHandler.MountRoutes)
			r.Route("/hooks", params.HooksHandler.MountRoutes)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(rb.RequireRole(rbac.RoleAdmin))
			r.Route("/announcements", params.AnnouncementsHandler.MountRoutes)
			r.Route("/careers", params.CareersHandler.MountRoutes)
			r.Route("/customers", params.CustomersHandler.MountRoutes)
			r.Route("/partners", params.PartnersHandler.MountRoutes)
			r.Route("/hooks/categories", params.HookCategoriesHandler.MountRoutes)
			r.Route("/returns", params.ReturnsHandler.MountRoutes)
			r.Route("/shipments", params.ShipmentsHandler.MountRoutes)
			r.Route("/attendance", params.AttendanceHandler.MountRoutes)
			r.Route("/unbilled", params.UnbilledHandler.MountRoutes)
		})
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
// Static assets are cached for 1 hour in browser.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
