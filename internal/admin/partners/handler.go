package partners

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/partners"

var vehicleOptions = []screen.Option{
	{Value: "motorcycle", Label: "Motorcycle"},
	{Value: "car", Label: "Car"},
	{Value: "van", Label: "Van"},
	{Value: "truck", Label: "Truck"},
}

// Handler serves the delivery partner screens.
type Handler struct {
	screen.Base
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base}
}

// MountRoutes registers the partner screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}/edit", h.update)
}

func editURL(id int64) string {
	return listPath + "/" + strconv.FormatInt(id, 10) + "/edit"
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	pager := h.ListPager(r)
	filters := screen.FilterValues(r.URL.Query(), "search")
	page, err := NewRepository(h.Client(r)).List(r.Context(), apiclient.PageQuery(pager, filters))
	if err != nil {
		if h.ListFailed(w, r, err) {
			return
		}
	} else {
		pager.Apply(page.Meta)
	}
	table := screen.Table{
		Heading:  "Delivery partners",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "New partner",
		Columns:  []string{"Name", "Phone", "Vehicle", "Plate", "Status"},
		Pager:    pager,
		Query:    filters,
		Filters:  []screen.Filter{{Name: "search", Label: "Search", Value: filters.Get("search")}},
	}
	for _, p := range page.Data {
		table.Rows = append(table.Rows, screen.Row{
			Cells:   []string{p.Name, p.Phone, p.Vehicle, p.PlateNumber, screen.ActiveLabel(p.Active)},
			Actions: []screen.Action{{Label: "Edit", URL: editURL(p.ID)}},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Delivery partners", table)
}

func partnerForm(action, heading string, p Partner) screen.Form {
	return screen.Form{
		Heading: heading,
		Action:  action,
		Back:    listPath,
		Fields: []screen.Field{
			{Name: "name", Label: "Name", Value: p.Name, Required: true},
			{Name: "phone", Label: "Phone", Type: "tel", Value: p.Phone, Required: true},
			{Name: "vehicle_type", Label: "Vehicle", Type: "select", Value: p.Vehicle, Options: vehicleOptions, Required: true},
			{Name: "plate_number", Label: "Plate number", Value: p.PlateNumber},
			{Name: "is_active", Label: "Active", Type: "checkbox", Value: strconv.FormatBool(p.Active)},
		},
	}
}

func (h *Handler) readForm(w http.ResponseWriter, r *http.Request, form screen.Form) (PartnerInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return PartnerInput{}, false
	}
	in := PartnerInput{
		Name:        screen.FormString(r, "name"),
		Phone:       screen.FormString(r, "phone"),
		Vehicle:     screen.FormString(r, "vehicle_type"),
		PlateNumber: screen.FormString(r, "plate_number"),
		Active:      screen.FormBool(r, "is_active"),
	}
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form = form.WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", form.Heading, form)
		return PartnerInput{}, false
	}
	return in, true
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "pages/form.html", "New partner", partnerForm(listPath, "New partner", Partner{Active: true, Vehicle: "motorcycle"}))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readForm(w, r, partnerForm(listPath, "New partner", Partner{}))
	if !ok {
		return
	}
	if err := NewRepository(h.Client(r)).Create(r.Context(), in); err != nil {
		h.Fail(w, r, err, listPath+"/new")
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Partner added.")
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	p, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit partner", partnerForm(editURL(id), "Edit partner", p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	in, ok := h.readForm(w, r, partnerForm(editURL(id), "Edit partner", Partner{}))
	if !ok {
		return
	}
	if err := NewRepository(h.Client(r)).Update(r.Context(), id, in); err != nil {
		h.Fail(w, r, err, editURL(id))
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Partner updated.")
}
