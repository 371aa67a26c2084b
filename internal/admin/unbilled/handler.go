package unbilled

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/jobs"
)

const listPath = "/admin/unbilled"

// Exporter queues report exports.
type Exporter interface {
	Start(ctx context.Context, req jobs.ExportRequest) (string, error)
}

// Handler serves the unbilled customers report.
type Handler struct {
	screen.Base
	exports Exporter
	now     func() time.Time
}

func NewHandler(base screen.Base, exports Exporter) *Handler {
	return &Handler{Base: base, exports: exports, now: time.Now}
}

// MountRoutes registers the report screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/export", h.export)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	pager := h.ListPager(r)
	q := r.URL.Query()
	rng, rangeErr := ParseRange(q.Get("from"), q.Get("to"), DefaultRange(h.now()))
	query := rng.Values()
	table := screen.Table{
		Heading:  "Unbilled customers",
		BasePath: listPath,
		Columns:  []string{"Customer", "Phone", "Salesperson", "Last invoice"},
		Query:    query,
		Filters: []screen.Filter{
			{Name: "from", Label: "From", Type: "date", Value: query.Get("from")},
			{Name: "to", Label: "To", Type: "date", Value: query.Get("to")},
		},
		Exports: []screen.Action{{
			Label:  "Export XLSX",
			URL:    listPath + "/export",
			Post:   true,
			Fields: map[string]string{"from": query.Get("from"), "to": query.Get("to")},
		}},
		Empty: "Every active customer was invoiced in this period.",
	}
	if rangeErr != nil {
		h.Flash(r, shared.FlashError, Message(rangeErr))
		table.Pager = pager
		table.Exports = nil
		h.Render(w, r, http.StatusOK, "pages/table.html", "Unbilled customers", table)
		return
	}

	page, err := NewRepository(h.Client(r)).List(r.Context(), apiclient.PageQuery(pager, query))
	if err != nil {
		if h.ListFailed(w, r, err) {
			return
		}
	} else {
		pager.Apply(page.Meta)
	}
	table.Pager = pager
	for _, c := range page.Data {
		last := c.LastInvoiceDate
		if last == "" {
			last = "Never"
		}
		table.Rows = append(table.Rows, screen.Row{Cells: []string{c.Name, c.Phone, c.SalesName, last}})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Unbilled customers", table)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	rng, err := ParseRange(r.FormValue("from"), r.FormValue("to"), DefaultRange(h.now()))
	if err != nil {
		h.Redirect(w, r, listPath, shared.FlashError, Message(err))
		return
	}
	sess := shared.RequestSession(r)
	id, err := h.exports.Start(r.Context(), jobs.ExportRequest{
		Kind:   jobs.KindUnbilled,
		Params: rng.Values(),
		Token:  sess.AccessToken(),
		Owner:  sess.User(),
	})
	if err != nil {
		h.Logger.Error("start unbilled export", slog.Any("error", err))
		h.Redirect(w, r, listPath+"?"+rng.Values().Encode(), shared.FlashError, "The export could not be started. Please try again.")
		return
	}
	h.Redirect(w, r, "/exports/"+id, shared.FlashInfo, "Preparing the unbilled customers report.")
}
