package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

// SessionForgetter drops per-session state kept outside the session store.
type SessionForgetter interface {
	Forget(sessionID string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	screen.Base
	service  *Service
	sessions *shared.SessionManager
	forget   []SessionForgetter
}

// NewHandler constructs a Handler instance.
func NewHandler(base screen.Base, service *Service, sessions *shared.SessionManager, forget ...SessionForgetter) *Handler {
	return &Handler{Base: base, service: service, sessions: sessions, forget: forget}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type loginPageData struct {
	Email  string
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if shared.RequestSession(r).SignedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/login.html", "Sign in", loginPageData{})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if errs := h.FieldErrors(form); len(errs) > 0 {
		h.Render(w, r, http.StatusBadRequest, "pages/login.html", "Sign in", loginPageData{Email: form.Email, Errors: errs})
		return
	}

	identity, token, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		msg := "Invalid email or password."
		switch {
		case errors.Is(err, ErrInvalidCredentials):
		case errors.Is(err, ErrRoleNotAllowed):
			msg = "This account cannot use the back office."
		default:
			h.Logger.Error("login failed", slog.Any("error", err))
			msg = "Sign in is unavailable right now. Please try again."
		}
		h.Render(w, r, http.StatusBadRequest, "pages/login.html", "Sign in", loginPageData{Email: form.Email, Errors: map[string]string{"general": msg}})
		return
	}

	sess := shared.RequestSession(r)
	if sess == nil {
		h.Logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sess.SignIn(identity, token)
	target := sess.Get(shared.ReturnToKey)
	sess.Delete(shared.ReturnToKey)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/"
	}
	h.Logger.Info("user signed in", slog.String("user", identity.UserID), slog.String("role", identity.Role))
	h.Redirect(w, r, target, shared.FlashSuccess, "Welcome back, "+identity.Name+".")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.RequestSession(r); sess != nil {
		for _, f := range h.forget {
			f.Forget(sess.ID)
		}
		h.sessions.Destroy(sess)
	}
	http.Redirect(w, r, screen.LoginPath, http.StatusSeeOther)
}
