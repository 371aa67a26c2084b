package careers

import "github.com/go-chi/chi/v5"

// MountRoutes registers the career screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/edit", h.showEdit)
		r.Post("/edit", h.update)
		r.Post("/toggle", h.toggle)
		r.Get("/video", h.showVideo)
		r.Post("/video", h.uploadVideo)
	})
}
