package careers

import (
	"net/http"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/careers"

// Handler serves the career screens.
type Handler struct {
	screen.Base
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base}
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
		Heading:  "Careers",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "New posting",
		Columns:  []string{"Title", "Location", "Video", "Status"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Search", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: screen.StatusOptions},
		},
		Empty: "No job postings yet.",
	}
	for _, c := range page.Data {
		video := "None"
		if c.VideoURL != "" {
			video = "Attached"
		}
		toggle := "Deactivate"
		if !c.Active {
			toggle = "Activate"
		}
		table.Rows = append(table.Rows, screen.Row{
			Cells: []string{c.Title, c.Location, video, screen.ActiveLabel(c.Active)},
			Actions: []screen.Action{
				{Label: "Edit", URL: itemURL(c.ID, "/edit")},
				{Label: "Video", URL: itemURL(c.ID, "/video")},
				{Label: toggle, URL: itemURL(c.ID, "/toggle"), Post: true, Confirm: toggle + " this posting?"},
			},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Careers", table)
}

func careerForm(action, heading string, c Career) screen.Form {
	return screen.Form{
		Heading: heading,
		Action:  action,
		Back:    listPath,
		Fields: []screen.Field{
			{Name: "title", Label: "Title", Value: c.Title, Required: true},
			{Name: "location", Label: "Location", Value: c.Location, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: c.Description, Required: true},
			{Name: "requirements", Label: "Requirements", Type: "textarea", Value: c.Requirements},
			{Name: "is_active", Label: "Active", Type: "checkbox", Value: strconv.FormatBool(c.Active)},
		},
	}
}

func readInput(r *http.Request) CareerInput {
	return CareerInput{
		Title:        screen.FormString(r, "title"),
		Location:     screen.FormString(r, "location"),
		Description:  screen.FormString(r, "description"),
		Requirements: screen.FormString(r, "requirements"),
		Active:       screen.FormBool(r, "is_active"),
	}
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "pages/form.html", "New posting", careerForm(listPath, "New posting", Career{Active: true}))
}

// save validates the submitted form and hands it to persist. It re-renders
// the form on validation errors and reports upstream errors as a toast.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, form screen.Form, persist func(CareerInput) error, done string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := readInput(r)
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form = form.WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", form.Heading, form)
		return
	}
	if err := persist(in); err != nil {
		back := form.Action
		if back == listPath {
			back = listPath + "/new"
		}
		h.Fail(w, r, err, back)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, done)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	repo := NewRepository(h.Client(r))
	h.save(w, r, careerForm(listPath, "New posting", Career{}), func(in CareerInput) error {
		return repo.Create(r.Context(), in)
	}, "Posting created.")
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
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit posting", careerForm(itemURL(id, "/edit"), "Edit posting", c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	repo := NewRepository(h.Client(r))
	h.save(w, r, careerForm(itemURL(id, "/edit"), "Edit posting", Career{}), func(in CareerInput) error {
		return repo.Update(r.Context(), id, in)
	}, "Posting updated.")
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
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Posting status changed.")
}

func videoForm(id int64) screen.Form {
	return screen.Form{
		Heading:   "Upload training video",
		Action:    itemURL(id, "/video"),
		Back:      listPath,
		Submit:    "Upload",
		Multipart: true,
		Fields: []screen.Field{
			{Name: "video", Label: "Video", Type: "file", Accept: "video/*", Required: true, Hint: "Up to 100 MB. Replaces the current video."},
		},
	}
}

func (h *Handler) showVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/form.html", "Upload training video", videoForm(id))
}

func (h *Handler) uploadVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := videoForm(id)
	if err := screen.ParseUpload(w, r); err != nil {
		form.Errors = map[string]string{"video": screen.UploadMessage(err)}
		h.Render(w, r, http.StatusBadRequest, "pages/form.html", form.Heading, form)
		return
	}
	files, err := screen.FormFiles(r, "video", "video/")
	if err != nil {
		form.Errors = map[string]string{"video": screen.UploadMessage(err)}
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", form.Heading, form)
		return
	}
	if err := NewRepository(h.Client(r)).UploadVideo(r.Context(), id, files[0]); err != nil {
		h.Fail(w, r, err, form.Action)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Video uploaded.")
}
