package announcements

import (
	"net/http"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/announcements"

// Handler serves the announcement screens.
type Handler struct {
	screen.Base
}

// NewHandler builds the handler.
func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base}
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
		Heading:  "Announcements",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "New announcement",
		Columns:  []string{"Title", "Audio", "Status", "Created"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Search", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: screen.StatusOptions},
		},
	}
	for _, a := range page.Data {
		id := strconv.FormatInt(a.ID, 10)
		audio := "None"
		if a.AudioURL != "" {
			audio = "Attached"
		}
		toggle := "Deactivate"
		if !a.Active {
			toggle = "Activate"
		}
		table.Rows = append(table.Rows, screen.Row{
			Cells: []string{a.Title, audio, screen.ActiveLabel(a.Active), screen.FormatDay(a.CreatedAt)},
			Actions: []screen.Action{
				{Label: "Edit", URL: listPath + "/" + id + "/edit"},
				{Label: "Audio", URL: listPath + "/" + id + "/audio"},
				{Label: toggle, URL: listPath + "/" + id + "/toggle", Post: true, Confirm: toggle + " this announcement?"},
			},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Announcements", table)
}

func announcementForm(action, heading string, a Announcement) screen.Form {
	return screen.Form{
		Heading: heading,
		Action:  action,
		Back:    listPath,
		Fields: []screen.Field{
			{Name: "title", Label: "Title", Value: a.Title, Required: true},
			{Name: "content", Label: "Content", Type: "textarea", Value: a.Content, Required: true},
			{Name: "is_active", Label: "Active", Type: "checkbox", Value: strconv.FormatBool(a.Active)},
		},
	}
}

func readInput(r *http.Request) AnnouncementInput {
	return AnnouncementInput{
		Title:   screen.FormString(r, "title"),
		Content: screen.FormString(r, "content"),
		Active:  screen.FormBool(r, "is_active"),
	}
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "pages/form.html", "New announcement", announcementForm(listPath, "New announcement", Announcement{Active: true}))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := readInput(r)
	form := announcementForm(listPath, "New announcement", Announcement{})
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form = form.WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", "New announcement", form)
		return
	}
	if err := NewRepository(h.Client(r)).Create(r.Context(), in); err != nil {
		h.Fail(w, r, err, listPath+"/new")
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Announcement created.")
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	a, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	action := listPath + "/" + strconv.FormatInt(id, 10) + "/edit"
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit announcement", announcementForm(action, "Edit announcement", a))
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
	action := listPath + "/" + strconv.FormatInt(id, 10) + "/edit"
	in := readInput(r)
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form := announcementForm(action, "Edit announcement", Announcement{}).WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", "Edit announcement", form)
		return
	}
	if err := NewRepository(h.Client(r)).Update(r.Context(), id, in); err != nil {
		h.Fail(w, r, err, action)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Announcement updated.")
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
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Announcement status changed.")
}

func audioForm(id int64) screen.Form {
	return screen.Form{
		Heading:   "Upload audio",
		Action:    listPath + "/" + strconv.FormatInt(id, 10) + "/audio",
		Back:      listPath,
		Submit:    "Upload",
		Multipart: true,
		Fields: []screen.Field{
			{Name: "audio", Label: "Recording", Type: "file", Accept: "audio/*", Required: true, Hint: "Replaces the current recording."},
		},
	}
}

func (h *Handler) showAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/form.html", "Upload audio", audioForm(id))
}

func (h *Handler) uploadAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := audioForm(id)
	if err := screen.ParseUpload(w, r); err != nil {
		form.Errors = map[string]string{"audio": screen.UploadMessage(err)}
		h.Render(w, r, http.StatusBadRequest, "pages/form.html", "Upload audio", form)
		return
	}
	files, err := screen.FormFiles(r, "audio", "audio/")
	if err != nil {
		form.Errors = map[string]string{"audio": screen.UploadMessage(err)}
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", "Upload audio", form)
		return
	}
	if err := NewRepository(h.Client(r)).UploadAudio(r.Context(), id, files[0]); err != nil {
		h.Fail(w, r, err, form.Action)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Audio uploaded.")
}
