package customers

import "github.com/go-chi/chi/v5"

// MountRoutes registers the customer screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/status", h.setStatus)
}
