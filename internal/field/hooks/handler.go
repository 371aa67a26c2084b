package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/admin/hookcategories"
	"github.com/fieldsales/backoffice/internal/listedit"
	"github.com/fieldsales/backoffice/internal/picker"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const (
	listPath   = "/hooks"
	draftPath  = "/hooks/draft"
	pickerName = "hooks"
)

// Pickers gives access to the session's customer pickers.
type Pickers interface {
	Picker(r *http.Request, name string) *picker.Picker
	View(r *http.Request, name, back string) pickerhttp.View
}

// Handler serves the hook tracking screens.
type Handler struct {
	screen.Base
	pickers Pickers
}

func NewHandler(base screen.Base, pickers Pickers) *Handler {
	return &Handler{Base: base, pickers: pickers}
}

// MountRoutes registers the hook screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.startNew)
	r.Get("/{id}/edit", h.startEdit)
	r.Post("/{id}/toggle", h.toggle)
	r.Route("/draft", func(r chi.Router) {
		r.Get("/", h.showDraft)
		r.Post("/customer", h.useCustomer)
		r.Post("/entries", h.addEntry)
		r.Post("/entries/{idx}/save", h.saveEntry)
		r.Post("/entries/{idx}/{op}", h.applyEntry)
		r.Post("/submit", h.submit)
		r.Post("/discard", h.discard)
	})
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
		Heading:  "Hooks",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "Record hooks",
		Columns:  []string{"Customer", "Categories", "Installed", "Status"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Customer", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: screen.StatusOptions},
		},
	}
	for _, hk := range page.Data {
		totals := hk.Totals()
		toggle := "Deactivate"
		if !hk.Active {
			toggle = "Activate"
		}
		table.Rows = append(table.Rows, screen.Row{
			Cells: []string{
				hk.CustomerName,
				strconv.Itoa(len(hk.Entries)),
				fmt.Sprintf("%d / %d", totals.Installed, totals.Available),
				screen.ActiveLabel(hk.Active),
			},
			Actions: []screen.Action{
				{Label: "Edit", URL: itemURL(hk.ID, "/edit")},
				{Label: toggle, URL: itemURL(hk.ID, "/toggle"), Post: true, Confirm: toggle + " this hook record?"},
			},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Hooks", table)
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
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Hook record status changed.")
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request, d Draft) bool {
	if err := SaveDraft(shared.RequestSession(r), d); err != nil {
		h.Logger.Error("save hook draft", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	d, ok, err := LoadDraft(shared.RequestSession(r))
	if err != nil {
		h.Logger.Warn("discarding unreadable hook draft", slog.Any("error", err))
		DiscardDraft(shared.RequestSession(r))
	}
	if !ok {
		http.Redirect(w, r, listPath+"/new", http.StatusSeeOther)
		return Draft{}, false
	}
	return d, true
}

// storeAndShow saves d and sends the browser back to the editor.
func (h *Handler) storeAndShow(w http.ResponseWriter, r *http.Request, d Draft) {
	if h.store(w, r, d) {
		http.Redirect(w, r, draftPath, http.StatusSeeOther)
	}
}

func (h *Handler) startNew(w http.ResponseWriter, r *http.Request) {
	if d, ok, _ := LoadDraft(shared.RequestSession(r)); ok && d.HookID == 0 {
		http.Redirect(w, r, draftPath, http.StatusSeeOther)
		return
	}
	h.pickers.Picker(r, pickerName).Reset()
	h.storeAndShow(w, r, Draft{Entries: listedit.New[Entry]()})
}

func (h *Handler) startEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	hk, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.pickers.Picker(r, pickerName).Reset()
	h.storeAndShow(w, r, Draft{
		HookID:       hk.ID,
		CustomerID:   hk.CustomerID,
		CustomerName: hk.CustomerName,
		Entries:      listedit.New(hk.Entries...),
	})
}

type entryView struct {
	Index      int
	Position   int
	Editing    bool
	CategoryID int64
	Category   string
	Available  int
	Installed  int
	First      bool
	Last       bool
}

type editorPage struct {
	Heading    string
	Base       string
	Back       string
	Customer   string
	CanPick    bool
	Entries    []entryView
	Categories []screen.Option
	Picker     pickerhttp.View
}

func (h *Handler) categories(r *http.Request) ([]hookcategories.Category, error) {
	return hookcategories.NewRepository(h.Client(r)).Active(r.Context())
}

func categoryName(cats []hookcategories.Category, id int64) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (h *Handler) showDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	cats, err := h.categories(r)
	if err != nil {
		if h.Expired(w, r, err) {
			return
		}
		h.Logger.Warn("load hook categories", slog.Any("error", err))
		h.Flash(r, shared.FlashError, "Hook categories could not be loaded: "+apiclient.UserMessage(err))
	}
	page := editorPage{
		Heading:  "Record hooks",
		Base:     draftPath,
		Back:     listPath,
		Customer: d.CustomerName,
		CanPick:  d.HookID == 0,
		Picker:   h.pickers.View(r, pickerName, draftPath),
	}
	if d.HookID > 0 {
		page.Heading = "Edit hooks for " + d.CustomerName
	}
	for _, c := range cats {
		page.Categories = append(page.Categories, screen.Option{Value: strconv.FormatInt(c.ID, 10), Label: c.Name})
	}
	items := d.Entries.Items()
	for i, item := range items {
		name := item.Value.CategoryName
		if n := categoryName(cats, item.Value.CategoryID); n != "" {
			name = n
		}
		page.Entries = append(page.Entries, entryView{
			Index:      i,
			Position:   i + 1,
			Editing:    item.Editing,
			CategoryID: item.Value.CategoryID,
			Category:   name,
			Available:  item.Value.Available,
			Installed:  item.Value.Installed,
			First:      i == 0,
			Last:       i == len(items)-1,
		})
	}
	h.Render(w, r, http.StatusOK, "pages/hook_editor.html", page.Heading, page)
}

// useCustomer moves the picker's customer into a new draft.
func (h *Handler) useCustomer(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	if d.HookID > 0 {
		h.Redirect(w, r, draftPath, shared.FlashError, "The customer of an existing hook record cannot change.")
		return
	}
	p := h.pickers.Picker(r, pickerName)
	sel := p.Selection()
	if sel.Customer == nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "Search for a customer first.")
		return
	}
	d.CustomerID, d.CustomerName = sel.Customer.ID, sel.Customer.Name
	p.Reset()
	h.storeAndShow(w, r, d)
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	d.Entries.Add(Entry{})
	h.storeAndShow(w, r, d)
}

func entryIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	return idx, err == nil
}

func formCount(r *http.Request, name string) int {
	return int(screen.FormInt(r, name))
}

// saveEntry writes the edited fields of one entry and closes it when they
// are valid.
func (h *Handler) saveEntry(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	idx, ok := entryIndex(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := listedit.Update(d.Entries, idx, categoryField, screen.FormInt(r, "category_id")); err != nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "That entry no longer exists.")
		return
	}
	counts := Counts{Available: formCount(r, "available"), Installed: formCount(r, "installed")}
	if _, err := listedit.Update(d.Entries, idx, countsField, counts); err != nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "That entry no longer exists.")
		return
	}
	entry, _ := d.Entries.At(idx)
	if err := d.Check(idx, entry.Value); err != nil {
		if !h.store(w, r, d) {
			return
		}
		h.Redirect(w, r, draftPath, shared.FlashError, fmt.Sprintf("Entry %d: %v.", idx+1, err))
		return
	}
	if entry.Editing {
		_ = d.Entries.ToggleEdit(idx)
	}
	h.storeAndShow(w, r, d)
}

func (h *Handler) applyEntry(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	idx, ok := entryIndex(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := d.Entries.Apply(chi.URLParam(r, "op"), idx); err != nil {
		if errors.Is(err, listedit.ErrUnknownOp) {
			http.NotFound(w, r)
			return
		}
		h.Redirect(w, r, draftPath, shared.FlashError, "That entry no longer exists.")
		return
	}
	h.storeAndShow(w, r, d)
}

// SubmitMessage renders a rejected submit for the user.
func SubmitMessage(err error) string {
	var itemErr *listedit.ItemError
	if errors.As(err, &itemErr) {
		return fmt.Sprintf("Entry %d: %v.", itemErr.Position(), itemErr.Err)
	}
	return err.Error()
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	if d.CustomerID == 0 {
		h.Redirect(w, r, draftPath, shared.FlashError, "Select a customer first.")
		return
	}
	if d.Entries.Len() == 0 {
		h.Redirect(w, r, draftPath, shared.FlashError, "Add at least one hook entry.")
		return
	}
	repo := NewRepository(h.Client(r))
	persist := func(ctx context.Context, entries []Entry) error {
		in := HookInput{CustomerID: d.CustomerID, Entries: entries}
		if d.HookID > 0 {
			return repo.Update(ctx, d.HookID, in)
		}
		return repo.Create(ctx, in)
	}
	if err := d.Entries.Submit(r.Context(), d.Check, persist); err != nil {
		var itemErr *listedit.ItemError
		if errors.As(err, &itemErr) {
			h.Redirect(w, r, draftPath, shared.FlashError, SubmitMessage(err))
			return
		}
		h.Fail(w, r, err, draftPath)
		return
	}
	DiscardDraft(shared.RequestSession(r))
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Hooks saved.")
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	DiscardDraft(shared.RequestSession(r))
	h.pickers.Picker(r, pickerName).Reset()
	h.Redirect(w, r, listPath, shared.FlashInfo, "Draft discarded.")
}
