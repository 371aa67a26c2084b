package returns

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/returns"

var statusFilter = []screen.Option{
	{Value: "", Label: "All"},
	{Value: string(StatusDraft), Label: StatusDraft.Label()},
	{Value: string(StatusPickedUp), Label: StatusPickedUp.Label()},
	{Value: string(StatusCompleted), Label: StatusCompleted.Label()},
	{Value: string(StatusRejected), Label: StatusRejected.Label()},
}

var actionLabels = map[Status]string{
	StatusPickedUp:  "Mark picked up",
	StatusCompleted: "Complete",
	StatusRejected:  "Reject",
}

// Handler serves the return order screens.
type Handler struct {
	screen.Base
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base}
}

// MountRoutes registers the return order screens.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/status", h.transition)
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
		Heading:  "Return orders",
		BasePath: listPath,
		Columns:  []string{"Number", "Customer", "Reason", "Items", "Status", "Created"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Search", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: statusFilter},
		},
	}
	for _, o := range page.Data {
		row := screen.Row{Cells: []string{
			o.Number, o.CustomerName, o.Reason, strconv.Itoa(o.ItemCount), o.Status.Label(), screen.FormatDay(o.CreatedAt),
		}}
		for _, next := range NextStatuses(o.Status) {
			row.Actions = append(row.Actions, screen.Action{
				Label:   actionLabels[next],
				URL:     listPath + "/" + strconv.FormatInt(o.ID, 10) + "/status",
				Post:    true,
				Confirm: actionLabels[next] + " " + o.Number + "?",
				Fields:  map[string]string{"status": string(next)},
			})
		}
		table.Rows = append(table.Rows, row)
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Return orders", table)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	to := Status(r.FormValue("status"))
	svc := NewService(NewRepository(h.Client(r)))
	order, err := svc.Transition(r.Context(), id, to, screen.FormString(r, "note"))
	if errors.Is(err, ErrInvalidTransition) {
		h.Redirect(w, r, listPath, shared.FlashError, "A "+order.Status.Label()+" return cannot move to "+to.Label()+".")
		return
	}
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Return "+order.Number+" is now "+order.Status.Label()+".")
}
