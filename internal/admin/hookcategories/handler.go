package hookcategories

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/hooks/categories"

// Handler serves the hook category screens.
type Handler struct {
	screen.Base
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base}
}

// MountRoutes registers the category screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/toggle", h.toggle)
}

func itemURL(id int64, suffix string) string {
	return listPath + "/" + strconv.FormatInt(id, 10) + suffix
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
		Heading:  "Hook categories",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "New category",
		Columns:  []string{"Name", "Description", "Status"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Search", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: screen.StatusOptions},
		},
	}
	for _, c := range page.Data {
		toggle := "Deactivate"
		if !c.Active {
			toggle = "Activate"
		}
		table.Rows = append(table.Rows, screen.Row{
			Cells: []string{c.Name, c.Description, screen.ActiveLabel(c.Active)},
			Actions: []screen.Action{
				{Label: "Edit", URL: itemURL(c.ID, "/edit")},
				{Label: toggle, URL: itemURL(c.ID, "/toggle"), Post: true, Confirm: toggle + " this category?"},
			},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Hook categories", table)
}

func categoryForm(action, heading string, c Category) screen.Form {
	return screen.Form{
		Heading: heading,
		Action:  action,
		Back:    listPath,
		Fields: []screen.Field{
			{Name: "name", Label: "Name", Value: c.Name, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: c.Description},
			{Name: "is_active", Label: "Active", Type: "checkbox", Value: strconv.FormatBool(c.Active)},
		},
	}
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, form screen.Form, back string, persist func(CategoryInput) error, done string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := CategoryInput{
		Name:        screen.FormString(r, "name"),
		Description: screen.FormString(r, "description"),
		Active:      screen.FormBool(r, "is_active"),
	}
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form = form.WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", form.Heading, form)
		return
	}
	if err := persist(in); err != nil {
		h.Fail(w, r, err, back)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, done)
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "pages/form.html", "New category", categoryForm(listPath, "New category", Category{Active: true}))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	repo := NewRepository(h.Client(r))
	h.save(w, r, categoryForm(listPath, "New category", Category{}), listPath+"/new", func(in CategoryInput) error {
		return repo.Create(r.Context(), in)
	}, "Category created.")
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
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit category", categoryForm(itemURL(id, "/edit"), "Edit category", c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	repo := NewRepository(h.Client(r))
	h.save(w, r, categoryForm(itemURL(id, "/edit"), "Edit category", Category{}), itemURL(id, "/edit"), func(in CategoryInput) error {
		return repo.Update(r.Context(), id, in)
	}, "Category updated.")
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := NewRepository(h.Client(r)).Toggle(r.Context(), id); err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Category status changed.")
}
