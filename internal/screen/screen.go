// Package screen carries the plumbing every back-office screen shares:
// rendering with flash toasts, upstream error handling and form validation.
package screen

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/internal/view"
)

// LoginPath is where expired sessions are sent.
const LoginPath = "/login"

// Base is embedded by screen handlers.
type Base struct {
	Logger    *slog.Logger
	Templates *view.Engine
	CSRF      *shared.CSRFManager
	API       *apiclient.Factory
	Validate  *validator.Validate
}

// NewBase bundles the shared screen dependencies.
func NewBase(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager, api *apiclient.Factory) Base {
	if logger == nil {
		logger = slog.Default()
	}
	return Base{
		Logger:    logger,
		Templates: templates,
		CSRF:      csrf,
		API:       api,
		Validate:  NewValidator(),
	}
}

// Client returns an upstream client bound to the request session.
func (b Base) Client(r *http.Request) *apiclient.Client {
	sess := shared.RequestSession(r)
	if sess == nil {
		return b.API.For(nil)
	}
	return b.API.For(sess)
}

// Render writes a full page with the session's pending toast.
func (b Base) Render(w http.ResponseWriter, r *http.Request, status int, tmpl, title string, data any) {
	sess := shared.RequestSession(r)
	csrfToken := ""
	var flash *shared.FlashMessage
	if sess != nil {
		csrfToken, _ = b.CSRF.EnsureToken(r.Context(), sess)
		flash = sess.PopFlash()
	}
	err := b.Templates.Render(w, status, tmpl, view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Identity:    sess.Identity(),
		Data:        data,
	})
	if err != nil {
		b.Logger.Error("render template", slog.String("template", tmpl), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Redirect queues a toast and redirects with 303.
func (b Base) Redirect(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	if sess := shared.RequestSession(r); sess != nil && message != "" {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Fail reports an upstream failure. An expired session is sent to the login
// page; anything else becomes an error toast on back, leaving prior state alone.
func (b Base) Fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		b.Redirect(w, r, LoginPath, shared.FlashError, apiclient.UserMessage(err))
		return
	}
	b.Logger.Error("upstream call failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	b.Redirect(w, r, back, shared.FlashError, apiclient.UserMessage(err))
}

// Expired reports whether err requires a fresh login, redirecting if so.
func (b Base) Expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		return false
	}
	b.Redirect(w, r, LoginPath, shared.FlashError, apiclient.UserMessage(err))
	return true
}

// Flash queues a toast without redirecting.
func (b Base) Flash(r *http.Request, kind, message string) {
	if sess := shared.RequestSession(r); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
}

// PathID parses the {id} route parameter.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// FieldErrors validates v and returns messages keyed by the form field name.
func (b Base) FieldErrors(v any) map[string]string {
	err := b.Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"general": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required", "required_without":
		return label + " is required"
	case "max":
		return label + " must be at most " + fe.Param() + " characters"
	case "min":
		return label + " must be at least " + fe.Param()
	case "gte":
		return label + " must be " + fe.Param() + " or more"
	case "gt":
		return label + " must be greater than " + fe.Param()
	case "ltefield":
		return label + " must not exceed " + strings.ReplaceAll(fe.Param(), "_", " ")
	case "oneof":
		return label + " must be one of: " + fe.Param()
	case "email":
		return label + " must be a valid email"
	case "url":
		return label + " must be a valid URL"
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	default:
		return label + " is invalid"
	}
}
