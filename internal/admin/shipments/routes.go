package shipments

import "github.com/go-chi/chi/v5"

// MountRoutes registers the shipment screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Get("/edit", h.showEdit)
		r.Post("/edit", h.update)
		r.Post("/delete", h.delete)
		r.Post("/images", h.uploadImages)
		r.Post("/images/{idx}/delete", h.deleteImage)
	})
}
