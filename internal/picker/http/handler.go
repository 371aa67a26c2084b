// Package pickerhttp serves the customer picker to the editor screens.
package pickerhttp

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/picker"
	"github.com/fieldsales/backoffice/internal/platform/httpx"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

// SelectPath receives the candidate the user clicked.
const SelectPath = "/pickers/customers/select"

// Handler exposes the per-session pickers.
type Handler struct {
	screen.Base
	registry *picker.Registry
}

func NewHandler(base screen.Base, registry *picker.Registry) *Handler {
	return &Handler{Base: base, registry: registry}
}

// MountRoutes registers the picker endpoints under /pickers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers", h.search)
	r.Post("/customers/select", h.selectCustomer)
}

type searchResponse struct {
	Query      string             `json:"query"`
	Candidates []picker.Candidate `json:"candidates"`
}

// Picker returns the named picker of the request session.
func (h *Handler) Picker(r *http.Request, name string) *picker.Picker {
	return h.registry.Get(shared.RequestSession(r).ID, name)
}

// View builds the template model of the named picker. Selected customers
// return to back.
func (h *Handler) View(r *http.Request, name, back string) View {
	sel := h.Picker(r, name).Selection()
	q := url.Values{"return": {back}}
	return View{
		Name:      name,
		SelectURL: SelectPath + "?" + q.Encode(),
		Customer:  sel.Customer,
		Addresses: sel.Addresses,
		AddressID: sel.AddressID,
	}
}

// Lookup returns the upstream lookup for the request session.
func (h *Handler) Lookup(r *http.Request) picker.Lookup {
	return NewLookup(h.Client(r))
}

// View is the picker partial's model.
type View struct {
	Name      string
	SelectURL string
	Customer  *picker.Candidate
	Addresses []picker.Address
	AddressID int64
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "picker name is required")
		return
	}
	p := h.Picker(r, name)
	found, err := p.Search(r.Context(), h.Lookup(r), r.URL.Query().Get("q"))
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, searchResponse{Query: p.Query(), Candidates: found})
	case errors.Is(err, picker.ErrQueryTooShort), errors.Is(err, picker.ErrSuperseded), errors.Is(err, picker.ErrStale),
		errors.Is(err, context.Canceled):
		w.WriteHeader(http.StatusNoContent)
	default:
		httpx.RespondError(w, err)
	}
}

// safeReturn keeps redirects on this site.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func (h *Handler) selectCustomer(w http.ResponseWriter, r *http.Request) {
	back := safeReturn(r.URL.Query().Get("return"))
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	name := r.FormValue("picker")
	id := screen.FormInt(r, "customer_id")
	if name == "" || id <= 0 {
		h.Redirect(w, r, back, shared.FlashError, "Choose a customer from the list.")
		return
	}
	sel, err := h.Picker(r, name).SelectByID(r.Context(), h.Lookup(r), id)
	if errors.Is(err, picker.ErrNoCustomer) {
		h.Redirect(w, r, back, shared.FlashError, "That customer is no longer in the search results. Search again.")
		return
	}
	if errors.Is(err, picker.ErrStale) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.Fail(w, r, err, back)
		return
	}
	h.Redirect(w, r, back, shared.FlashInfo, sel.Customer.Name+" selected.")
}
