package reorders

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/picker"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const (
	listPath   = "/reorders"
	pickerName = "reorder"
)

// Pickers gives access to the session's customer pickers.
type Pickers interface {
	Picker(r *http.Request, name string) *picker.Picker
	View(r *http.Request, name, back string) pickerhttp.View
}

// Handler serves the expected reorder screens.
type Handler struct {
	screen.Base
	pickers Pickers
	now     func() time.Time
}

func NewHandler(base screen.Base, pickers Pickers) *Handler {
	return &Handler{Base: base, pickers: pickers, now: time.Now}
}

// MountRoutes registers the reorder screens.
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
		Heading:  "Expected reorders",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "New reorder",
		Columns:  []string{"Customer", "Product", "Quantity", "Expected"},
		Pager:    pager,
		Query:    filters,
		Filters:  []screen.Filter{{Name: "search", Label: "Search", Value: filters.Get("search")}},
	}
	for _, o := range page.Data {
		table.Rows = append(table.Rows, screen.Row{
			Cells:   []string{o.CustomerName, o.ProductName, strconv.Itoa(o.Quantity), o.ExpectedDate},
			Actions: []screen.Action{{Label: "Edit", URL: editURL(o.ID)}},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Expected reorders", table)
}

// reorderForm builds the form. A customer chosen in the picker replaces the
// stored one.
func (h *Handler) reorderForm(r *http.Request, action, heading string, o Reorder) screen.Form {
	view := h.pickers.View(r, pickerName, r.URL.Path)
	customerHint := "Search and select a customer above."
	if view.Customer != nil {
		o.CustomerID, o.CustomerName = view.Customer.ID, view.Customer.Name
	}
	if o.CustomerName != "" {
		customerHint = "Customer: " + o.CustomerName
	}
	customerID := ""
	if o.CustomerID > 0 {
		customerID = strconv.FormatInt(o.CustomerID, 10)
	}
	quantity := ""
	if o.Quantity > 0 {
		quantity = strconv.Itoa(o.Quantity)
	}
	return screen.Form{
		Heading: heading,
		Action:  action,
		Back:    listPath,
		Picker:  view,
		Fields: []screen.Field{
			{Name: "customer_id", Label: "Customer", Type: "hidden", Value: customerID},
			{Name: "product_name", Label: "Product", Value: o.ProductName, Required: true, Hint: customerHint},
			{Name: "quantity", Label: "Quantity", Type: "number", Value: quantity, Required: true},
			{Name: "expected_date", Label: "Expected date", Type: "date", Value: o.ExpectedDate, Required: true},
			{Name: "notes", Label: "Notes", Type: "textarea", Value: o.Notes},
		},
	}
}

func (h *Handler) readForm(w http.ResponseWriter, r *http.Request, form screen.Form) (ReorderInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return ReorderInput{}, false
	}
	in := ReorderInput{
		CustomerID:   screen.FormInt(r, "customer_id"),
		ProductName:  screen.FormString(r, "product_name"),
		Quantity:     int(screen.FormInt(r, "quantity")),
		ExpectedDate: screen.FormString(r, "expected_date"),
		Notes:        screen.FormString(r, "notes"),
	}
	errs := h.FieldErrors(in)
	if _, bad := errs["expected_date"]; !bad {
		if err := in.CheckDate(h.now()); err != nil {
			if errs == nil {
				errs = map[string]string{}
			}
			errs["expected_date"] = err.Error()
		}
	}
	if len(errs) > 0 {
		if _, ok := errs["customer_id"]; ok {
			errs["general"] = "Select a customer first."
		}
		form = form.WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", form.Heading, form)
		return ReorderInput{}, false
	}
	return in, true
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	blank := Reorder{ExpectedDate: screen.FormatDay(screen.Today(h.now()))}
	h.Render(w, r, http.StatusOK, "pages/form.html", "New reorder", h.reorderForm(r, listPath, "New reorder", blank))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readForm(w, r, h.reorderForm(r, listPath, "New reorder", Reorder{}))
	if !ok {
		return
	}
	if err := NewRepository(h.Client(r)).Create(r.Context(), in); err != nil {
		h.Fail(w, r, err, listPath+"/new")
		return
	}
	h.pickers.Picker(r, pickerName).Reset()
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Reorder recorded.")
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	o, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit reorder", h.reorderForm(r, editURL(id), "Edit reorder", o))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	in, ok := h.readForm(w, r, h.reorderForm(r, editURL(id), "Edit reorder", Reorder{}))
	if !ok {
		return
	}
	if err := NewRepository(h.Client(r)).Update(r.Context(), id, in); err != nil {
		h.Fail(w, r, err, editURL(id))
		return
	}
	h.pickers.Picker(r, pickerName).Reset()
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Reorder updated.")
}
