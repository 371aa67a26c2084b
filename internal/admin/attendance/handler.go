package attendance

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/jobs"
)

const listPath = "/admin/attendance"

const badDate = "Date must be in YYYY-MM-DD format."

// Exporter queues report exports.
type Exporter interface {
	Start(ctx context.Context, req jobs.ExportRequest) (string, error)
}

// Handler serves the attendance report.
type Handler struct {
	screen.Base
	exports Exporter
}

func NewHandler(base screen.Base, exports Exporter) *Handler {
	return &Handler{Base: base, exports: exports}
}

// MountRoutes registers the attendance screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/export", h.export)
}

// readFilters returns the name and date filters. Each filter change is a
// fresh GET, so the table always shows the last submitted query.
func readFilters(r *http.Request) (url.Values, bool) {
	out := url.Values{}
	if name := screen.FormString(r, "name"); name != "" {
		out.Set("name", name)
	}
	if date := screen.FormString(r, "date"); date != "" {
		if _, err := time.Parse(screen.DateLayout, date); err != nil {
			return out, false
		}
		out.Set("date", date)
	}
	return out, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	pager := h.ListPager(r)
	query, ok := readFilters(r)
	fields := make(map[string]string, len(query))
	for k := range query {
		fields[k] = query.Get(k)
	}
	table := screen.Table{
		Heading:  "Attendance",
		BasePath: listPath,
		Columns:  []string{"Staff", "Date", "Check in", "Check out", "Late (min)", "Location"},
		Query:    query,
		Filters: []screen.Filter{
			{Name: "name", Label: "Name", Value: r.URL.Query().Get("name")},
			{Name: "date", Label: "Date", Type: "date", Value: r.URL.Query().Get("date")},
		},
		Exports: []screen.Action{{Label: "Export XLSX", URL: listPath + "/export", Post: true, Fields: fields}},
		Empty:   "No attendance recorded for this filter.",
	}
	if !ok {
		h.Flash(r, shared.FlashError, badDate)
		table.Pager = pager
		h.Render(w, r, http.StatusOK, "pages/table.html", "Attendance", table)
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
	for _, rec := range page.Data {
		table.Rows = append(table.Rows, screen.Row{Cells: []string{
			rec.UserName, rec.Date, clock(rec.CheckIn), clock(rec.CheckOut), strconv.Itoa(rec.LateByMin), rec.Location,
		}})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Attendance", table)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	params, ok := readFilters(r)
	if !ok {
		h.Redirect(w, r, listPath, shared.FlashError, badDate)
		return
	}
	sess := shared.RequestSession(r)
	id, err := h.exports.Start(r.Context(), jobs.ExportRequest{
		Kind:   jobs.KindAttendance,
		Params: params,
		Token:  sess.AccessToken(),
		Owner:  sess.User(),
	})
	if err != nil {
		h.Logger.Error("start attendance export", slog.Any("error", err))
		h.Redirect(w, r, listPath+"?"+params.Encode(), shared.FlashError, "The export could not be started. Please try again.")
		return
	}
	h.Redirect(w, r, "/exports/"+id, shared.FlashInfo, "Preparing the attendance report.")
}
