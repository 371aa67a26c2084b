package customers

import (
	"net/http"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/customers"

var (
	statusOptions = []screen.Option{{Value: StatusActive, Label: "Active"}, {Value: StatusInactive, Label: "Inactive"}}
	tierOptions   = []screen.Option{{Value: "", Label: "None"}, {Value: "gold", Label: "Gold"}, {Value: "silver", Label: "Silver"}, {Value: "bronze", Label: "Bronze"}}
)

// Handler serves the customer screens.
type Handler struct {
	screen.Base
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base}
}

func editURL(id int64) string {
	return listPath + "/" + strconv.FormatInt(id, 10) + "/edit"
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	pager := h.ListPager(r)
	filters := screen.FilterValues(r.URL.Query(), "search", "status")
	page, err := NewRepository(h.Client(r)).List(r.Context(), apiclient.PageQuery(pager, filters))
	if err != nil {
		if h.ListFailed(w, r, err) {
			return
		}
	} else {
		pager.Apply(page.Meta)
	}

	table := screen.Table{
		Heading:  "Customers",
		BasePath: listPath,
		Columns:  []string{"Name", "Shop", "Phone", "Tier", "Status"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Search", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: screen.StatusOptions},
		},
	}
	for _, c := range page.Data {
		label := "Deactivate"
		if !c.Active() {
			label = "Activate"
		}
		table.Rows = append(table.Rows, screen.Row{
			Cells: []string{c.Name, c.ShopName, c.Phone, c.Tier, screen.ActiveLabel(c.Active())},
			Actions: []screen.Action{
				{Label: "Edit", URL: editURL(c.ID)},
				{
					Label:   label,
					URL:     listPath + "/" + strconv.FormatInt(c.ID, 10) + "/status",
					Post:    true,
					Confirm: label + " " + c.Name + "?",
					Fields:  map[string]string{"status": NextStatus(c.Status)},
				},
			},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Customers", table)
}

func customerForm(id int64, c Customer) screen.Form {
	return screen.Form{
		Heading: "Edit customer",
		Action:  editURL(id),
		Back:    listPath,
		Fields: []screen.Field{
			{Name: "name", Label: "Name", Value: c.Name, Required: true},
			{Name: "email", Label: "Email", Type: "email", Value: c.Email},
			{Name: "phone", Label: "Phone", Type: "tel", Value: c.Phone, Required: true},
			{Name: "shop_name", Label: "Shop name", Value: c.ShopName},
			{Name: "tier", Label: "Tier", Type: "select", Value: c.Tier, Options: tierOptions},
			{Name: "status", Label: "Status", Type: "select", Value: c.Status, Options: statusOptions, Required: true},
		},
	}
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit customer", customerForm(id, c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := CustomerInput{
		Name:     screen.FormString(r, "name"),
		Email:    screen.FormString(r, "email"),
		Phone:    screen.FormString(r, "phone"),
		ShopName: screen.FormString(r, "shop_name"),
		Tier:     screen.FormString(r, "tier"),
		Status:   screen.FormString(r, "status"),
	}
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form := customerForm(id, Customer{}).WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", "Edit customer", form)
		return
	}
	if err := NewRepository(h.Client(r)).Update(r.Context(), id, in); err != nil {
		h.Fail(w, r, err, editURL(id))
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Customer updated.")
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	status := r.FormValue("status")
	if status != StatusActive && status != StatusInactive {
		h.Redirect(w, r, listPath, shared.FlashError, "Unknown status.")
		return
	}
	if err := NewRepository(h.Client(r)).SetStatus(r.Context(), id, status); err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	msg := "Customer activated."
	if status == StatusInactive {
		msg = "Customer deactivated."
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, msg)
}
