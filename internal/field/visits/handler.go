package visits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/listedit"
	"github.com/fieldsales/backoffice/internal/picker"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const (
	listPath   = "/visits"
	draftPath  = "/visits/draft"
	pickerName = "visit"
)

var tierOptions = []screen.Option{
	{Value: "", Label: "Unknown"},
	{Value: "gold", Label: "Gold"},
	{Value: "silver", Label: "Silver"},
	{Value: "bronze", Label: "Bronze"},
}

// Pickers gives access to the session's customer pickers.
type Pickers interface {
	Picker(r *http.Request, name string) *picker.Picker
	View(r *http.Request, name, back string) pickerhttp.View
}

// Handler serves the daily visit screens.
type Handler struct {
	screen.Base
	pickers Pickers
	now     func() time.Time
}

func NewHandler(base screen.Base, pickers Pickers) *Handler {
	return &Handler{Base: base, pickers: pickers, now: time.Now}
}

// MountRoutes registers the visit screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/new", h.startNew)
	r.Get("/{id}/edit", h.startEdit)
	r.Route("/draft", func(r chi.Router) {
		r.Get("/", h.showDraft)
		r.Post("/customer", h.addCustomer)
		r.Post("/prospect", h.addProspect)
		r.Post("/items/{idx}/save", h.saveItem)
		r.Post("/items/{idx}/{op}", h.applyItem)
		r.Post("/submit", h.submit)
		r.Post("/discard", h.discard)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	pager := h.ListPager(r)
	filters := screen.FilterValues(r.URL.Query(), "date")
	page, err := NewRepository(h.Client(r)).List(r.Context(), apiclient.PageQuery(pager, filters))
	if err != nil {
		if h.ListFailed(w, r, err) {
			return
		}
	} else {
		pager.Apply(page.Meta)
	}
	table := screen.Table{
		Heading:  "Daily visits",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "Record visits",
		Columns:  []string{"Date", "Salesperson", "Stops", "Shops"},
		Pager:    pager,
		Query:    filters,
		Filters:  []screen.Filter{{Name: "date", Label: "Date", Type: "date", Value: filters.Get("date")}},
	}
	for _, v := range page.Data {
		labels := make([]string, 0, len(v.Shops))
		for _, s := range v.Shops {
			if s.Target != nil {
				labels = append(labels, s.Target.Label())
			}
		}
		table.Rows = append(table.Rows, screen.Row{
			Cells:   []string{v.VisitDate, v.SalesName, strconv.Itoa(len(v.Shops)), strings.Join(labels, ", ")},
			Actions: []screen.Action{{Label: "Edit", URL: listPath + "/" + strconv.FormatInt(v.ID, 10) + "/edit"}},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Daily visits", table)
}

func (h *Handler) session(r *http.Request) *shared.Session {
	return shared.RequestSession(r)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request, d Draft) bool {
	if err := SaveDraft(h.session(r), d); err != nil {
		h.Logger.Error("save visit draft", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

// draft loads the session draft, sending the user to a fresh one when none exists.
func (h *Handler) draft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	d, ok, err := LoadDraft(h.session(r))
	if err != nil {
		h.Logger.Warn("discarding unreadable visit draft", slog.Any("error", err))
		DiscardDraft(h.session(r))
	}
	if !ok {
		http.Redirect(w, r, listPath+"/new", http.StatusSeeOther)
		return Draft{}, false
	}
	return d, true
}

func (h *Handler) startNew(w http.ResponseWriter, r *http.Request) {
	if d, ok, _ := LoadDraft(h.session(r)); ok && d.VisitID == 0 {
		http.Redirect(w, r, draftPath, http.StatusSeeOther)
		return
	}
	h.pickers.Picker(r, pickerName).Reset()
	d := Draft{VisitDate: screen.FormatDay(screen.Today(h.now())), Shops: listedit.New[Shop]()}
	if !h.store(w, r, d) {
		return
	}
	http.Redirect(w, r, draftPath, http.StatusSeeOther)
}

func (h *Handler) startEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	v, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.pickers.Picker(r, pickerName).Reset()
	if !h.store(w, r, Draft{VisitID: v.ID, VisitDate: v.VisitDate, Shops: listedit.New(v.Shops...)}) {
		return
	}
	http.Redirect(w, r, draftPath, http.StatusSeeOther)
}

type stopView struct {
	Index    int
	Position int
	Editing  bool
	Prospect bool
	Title    string
	Address  string
	Tier     string
	Reason   string
	First    bool
	Last     bool
}

type editorPage struct {
	Heading     string
	Base        string
	Back        string
	VisitDate   string
	NeedsSelfie bool
	Stops       []stopView
	Picker      pickerhttp.View
	Tiers       []screen.Option
}

func stopViews(items []listedit.Entry[Shop]) []stopView {
	out := make([]stopView, 0, len(items))
	for i, item := range items {
		v := stopView{
			Index:    i,
			Position: i + 1,
			Editing:  item.Editing,
			Reason:   item.Value.Reason,
			First:    i == 0,
			Last:     i == len(items)-1,
		}
		switch t := item.Value.Target.(type) {
		case CustomerTarget:
			v.Title, v.Address = t.CustomerName, t.Address
		case ProspectTarget:
			v.Prospect = true
			v.Title, v.Address, v.Tier = t.Name, t.Address, t.Tier
		}
		out = append(out, v)
	}
	return out
}

func (h *Handler) showDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	heading := "Record visits"
	if d.VisitID > 0 {
		heading = "Edit visit " + d.VisitDate
	}
	h.Render(w, r, http.StatusOK, "pages/visit_editor.html", heading, editorPage{
		Heading:     heading,
		Base:        draftPath,
		Back:        listPath,
		VisitDate:   d.VisitDate,
		NeedsSelfie: d.VisitID == 0,
		Stops:       stopViews(d.Shops.Items()),
		Picker:      h.pickers.View(r, pickerName, draftPath),
		Tiers:       tierOptions,
	})
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	p := h.pickers.Picker(r, pickerName)
	sel := p.Selection()
	if sel.Customer == nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "Search for a customer first.")
		return
	}
	addressID := screen.FormInt(r, "address_id")
	if err := p.ChooseAddress(addressID); err != nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "Choose one of "+sel.Customer.Name+"'s addresses.")
		return
	}
	target := CustomerTarget{CustomerID: sel.Customer.ID, CustomerName: sel.Customer.Name, AddressID: addressID}
	for _, a := range sel.Addresses {
		if a.ID == addressID {
			target.Address = a.Line
		}
	}
	d.Shops.Add(Shop{Target: target, Reason: screen.FormString(r, "reason")})
	p.Reset()
	if !h.store(w, r, d) {
		return
	}
	http.Redirect(w, r, draftPath, http.StatusSeeOther)
}

func (h *Handler) addProspect(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	d.Shops.Add(Shop{
		Target: ProspectTarget{
			Name:    screen.FormString(r, "name"),
			Address: screen.FormString(r, "address"),
			Tier:    screen.FormString(r, "tier"),
		},
		Reason: screen.FormString(r, "reason"),
	})
	if !h.store(w, r, d) {
		return
	}
	http.Redirect(w, r, draftPath, http.StatusSeeOther)
}

func itemIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	return idx, err == nil
}

// saveItem writes the edited fields of one stop and closes it.
func (h *Handler) saveItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	idx, ok := itemIndex(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	entry, err := d.Shops.At(idx)
	if err != nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "That stop no longer exists.")
		return
	}
	if _, err := listedit.Update(d.Shops, idx, reasonField, screen.FormString(r, "reason")); err != nil {
		h.Redirect(w, r, draftPath, shared.FlashError, "That stop no longer exists.")
		return
	}
	if _, isProspect := entry.Value.Target.(ProspectTarget); isProspect {
		next := ProspectTarget{
			Name:    screen.FormString(r, "name"),
			Address: screen.FormString(r, "address"),
			Tier:    screen.FormString(r, "tier"),
		}
		if _, err := listedit.Update(d.Shops, idx, prospectField, next); err != nil {
			h.Redirect(w, r, draftPath, shared.FlashError, "That stop no longer exists.")
			return
		}
	}
	if entry.Editing {
		_ = d.Shops.ToggleEdit(idx)
	}
	if !h.store(w, r, d) {
		return
	}
	http.Redirect(w, r, draftPath, http.StatusSeeOther)
}

func (h *Handler) applyItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	idx, ok := itemIndex(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := d.Shops.Apply(chi.URLParam(r, "op"), idx); err != nil {
		if errors.Is(err, listedit.ErrUnknownOp) {
			http.NotFound(w, r)
			return
		}
		h.Redirect(w, r, draftPath, shared.FlashError, "That stop no longer exists.")
		return
	}
	if !h.store(w, r, d) {
		return
	}
	http.Redirect(w, r, draftPath, http.StatusSeeOther)
}

// SubmitMessage renders a rejected submit for the user.
func SubmitMessage(err error) string {
	var itemErr *listedit.ItemError
	if errors.As(err, &itemErr) {
		return fmt.Sprintf("Stop %d: %v.", itemErr.Position(), itemErr.Err)
	}
	return err.Error()
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	if err := screen.ParseUpload(w, r); err != nil {
		h.Redirect(w, r, draftPath, shared.FlashError, screen.UploadMessage(err))
		return
	}
	if date := screen.FormString(r, "visit_date"); date != "" {
		if _, err := time.Parse(screen.DateLayout, date); err != nil {
			h.Redirect(w, r, draftPath, shared.FlashError, "Visit date must be in YYYY-MM-DD format.")
			return
		}
		d.VisitDate = date
	}
	if d.Shops.Len() == 0 {
		h.Redirect(w, r, draftPath, shared.FlashError, "Add at least one stop.")
		return
	}

	repo := NewRepository(h.Client(r))
	persist := func(ctx context.Context, shops []Shop) error {
		return repo.Update(ctx, d.VisitID, shops)
	}
	if d.VisitID == 0 {
		files, err := screen.FormFiles(r, "selfie", "image/")
		if err != nil {
			msg := screen.UploadMessage(err)
			if errors.Is(err, screen.ErrNoFile) {
				msg = "A selfie is required."
			}
			h.Redirect(w, r, draftPath, shared.FlashError, msg)
			return
		}
		persist = func(ctx context.Context, shops []Shop) error {
			return repo.Create(ctx, d.VisitDate, shops, files[0])
		}
	}

	check := func(_ int, s Shop) error { return s.Validate() }
	if err := d.Shops.Submit(r.Context(), check, persist); err != nil {
		var itemErr *listedit.ItemError
		if errors.As(err, &itemErr) {
			h.Redirect(w, r, draftPath, shared.FlashError, SubmitMessage(err))
			return
		}
		h.Fail(w, r, err, draftPath)
		return
	}
	DiscardDraft(h.session(r))
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Visit saved.")
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	DiscardDraft(h.session(r))
	h.pickers.Picker(r, pickerName).Reset()
	h.Redirect(w, r, listPath, shared.FlashInfo, "Draft discarded.")
}
