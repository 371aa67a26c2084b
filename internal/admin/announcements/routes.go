package announcements

import "github.com/go-chi/chi/v5"

// MountRoutes registers the announcement screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/toggle", h.toggle)
	r.Get("/{id}/audio", h.showAudio)
	r.Post("/{id}/audio", h.uploadAudio)
}
