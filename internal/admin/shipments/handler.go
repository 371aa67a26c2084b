package shipments

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsales/backoffice/internal/admin/partners"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

const listPath = "/admin/shipments"

// Handler serves the shipment screens.
type Handler struct {
	screen.Base
	now func() time.Time
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base, now: time.Now}
}

type detailPage struct {
	Shipment  Shipment
	StatusTxt string
	Base      string
	Back      string
}

func itemURL(id int64, suffix string) string {
	return listPath + "/" + strconv.FormatInt(id, 10) + suffix
}

func statusLabel(s string) string {
	switch s {
	case "pending":
		return "Pending"
	case "in_transit":
		return "In transit"
	case "delivered":
		return "Delivered"
	case "cancelled":
		return "Cancelled"
	default:
		return s
	}
}

func statusOptions(withAll bool) []screen.Option {
	var out []screen.Option
	if withAll {
		out = append(out, screen.Option{Value: "", Label: "All"})
	}
	for _, s := range statuses {
		out = append(out, screen.Option{Value: s, Label: statusLabel(s)})
	}
	return out
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
		Heading:  "Shipments",
		BasePath: listPath,
		NewURL:   listPath + "/new",
		NewLabel: "New shipment",
		Columns:  []string{"Number", "Partner", "Destination", "Ship date", "Status", "Photos"},
		Pager:    pager,
		Query:    filters,
		Filters: []screen.Filter{
			{Name: "search", Label: "Search", Value: filters.Get("search")},
			{Name: "status", Label: "Status", Value: filters.Get("status"), Options: statusOptions(true)},
		},
	}
	for _, s := range page.Data {
		table.Rows = append(table.Rows, screen.Row{
			Cells: []string{s.Number, s.PartnerName, s.Destination, s.ShipDate, statusLabel(s.Status), strconv.Itoa(len(s.Images))},
			Link:  itemURL(s.ID, ""),
			Actions: []screen.Action{
				{Label: "Edit", URL: itemURL(s.ID, "/edit")},
				{Label: "Delete", URL: itemURL(s.ID, "/delete"), Post: true, Confirm: "Delete shipment " + s.Number + "?"},
			},
		})
	}
	h.Render(w, r, http.StatusOK, "pages/table.html", "Shipments", table)
}

// partnerOptions loads the partner choices. A failure leaves the field as a
// plain id input.
func (h *Handler) partnerOptions(r *http.Request) []screen.Option {
	page, err := partners.NewRepository(h.Client(r)).List(r.Context(), url.Values{"limit": {"100"}, "status": {"active"}})
	if err != nil {
		h.Logger.Warn("load delivery partners", slog.Any("error", err))
		return nil
	}
	out := make([]screen.Option, 0, len(page.Data))
	for _, p := range page.Data {
		out = append(out, screen.Option{Value: strconv.FormatInt(p.ID, 10), Label: p.Name})
	}
	return out
}

func shipmentForm(action, heading, back string, s Shipment, partnerChoices []screen.Option) screen.Form {
	partner := screen.Field{Name: "delivery_partner_id", Label: "Delivery partner", Type: "number", Required: true}
	if s.PartnerID > 0 {
		partner.Value = strconv.FormatInt(s.PartnerID, 10)
	}
	if len(partnerChoices) > 0 {
		partner.Type = "select"
		partner.Options = partnerChoices
	}
	return screen.Form{
		Heading: heading,
		Action:  action,
		Back:    back,
		Fields: []screen.Field{
			{Name: "shipment_number", Label: "Number", Value: s.Number, Required: true},
			partner,
			{Name: "destination", Label: "Destination", Value: s.Destination, Required: true},
			{Name: "ship_date", Label: "Ship date", Type: "date", Value: s.ShipDate, Required: true},
			{Name: "status", Label: "Status", Type: "select", Value: s.Status, Options: statusOptions(false), Required: true},
			{Name: "notes", Label: "Notes", Type: "textarea", Value: s.Notes},
		},
	}
}

func (h *Handler) readForm(w http.ResponseWriter, r *http.Request, form screen.Form) (ShipmentInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return ShipmentInput{}, false
	}
	in := ShipmentInput{
		Number:      screen.FormString(r, "shipment_number"),
		PartnerID:   screen.FormInt(r, "delivery_partner_id"),
		Destination: screen.FormString(r, "destination"),
		ShipDate:    screen.FormString(r, "ship_date"),
		Status:      screen.FormString(r, "status"),
		Notes:       screen.FormString(r, "notes"),
	}
	if errs := h.FieldErrors(in); len(errs) > 0 {
		form = form.WithValues(r.FormValue)
		form.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, "pages/form.html", form.Heading, form)
		return ShipmentInput{}, false
	}
	return in, true
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	blank := Shipment{Status: "pending", ShipDate: screen.FormatDay(screen.Today(h.now()))}
	h.Render(w, r, http.StatusOK, "pages/form.html", "New shipment", shipmentForm(listPath, "New shipment", listPath, blank, h.partnerOptions(r)))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readForm(w, r, shipmentForm(listPath, "New shipment", listPath, Shipment{}, h.partnerOptions(r)))
	if !ok {
		return
	}
	created, err := NewRepository(h.Client(r)).Create(r.Context(), in)
	if err != nil {
		h.Fail(w, r, err, listPath+"/new")
		return
	}
	target := listPath
	if created.ID > 0 {
		target = itemURL(created.ID, "")
	}
	h.Redirect(w, r, target, shared.FlashSuccess, "Shipment created.")
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	s, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Render(w, r, http.StatusOK, "pages/shipment_detail.html", "Shipment "+s.Number, detailPage{
		Shipment:  s,
		StatusTxt: statusLabel(s.Status),
		Base:      itemURL(id, ""),
		Back:      listPath,
	})
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	s, err := NewRepository(h.Client(r)).Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	form := shipmentForm(itemURL(id, "/edit"), "Edit shipment", itemURL(id, ""), s, h.partnerOptions(r))
	h.Render(w, r, http.StatusOK, "pages/form.html", "Edit shipment", form)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	in, ok := h.readForm(w, r, shipmentForm(itemURL(id, "/edit"), "Edit shipment", itemURL(id, ""), Shipment{}, h.partnerOptions(r)))
	if !ok {
		return
	}
	if err := NewRepository(h.Client(r)).Update(r.Context(), id, in); err != nil {
		h.Fail(w, r, err, itemURL(id, "/edit"))
		return
	}
	h.Redirect(w, r, itemURL(id, ""), shared.FlashSuccess, "Shipment updated.")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := NewRepository(h.Client(r)).Delete(r.Context(), id); err != nil {
		h.Fail(w, r, err, listPath)
		return
	}
	h.Redirect(w, r, listPath, shared.FlashSuccess, "Shipment deleted.")
}

func (h *Handler) uploadImages(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	back := itemURL(id, "")
	if err := screen.ParseUpload(w, r); err != nil {
		h.Redirect(w, r, back, shared.FlashError, screen.UploadMessage(err))
		return
	}
	files, err := screen.FormFiles(r, "images", "image/")
	if err != nil {
		h.Redirect(w, r, back, shared.FlashError, screen.UploadMessage(err))
		return
	}
	if err := NewRepository(h.Client(r)).AddImages(r.Context(), id, files); err != nil {
		h.Fail(w, r, err, back)
		return
	}
	msg := "Photo uploaded."
	if len(files) > 1 {
		msg = strconv.Itoa(len(files)) + " photos uploaded."
	}
	h.Redirect(w, r, back, shared.FlashSuccess, msg)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := screen.PathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil || idx < 0 {
		http.NotFound(w, r)
		return
	}
	back := itemURL(id, "")
	if err := NewRepository(h.Client(r)).DeleteImage(r.Context(), id, idx); err != nil {
		h.Fail(w, r, err, back)
		return
	}
	h.Redirect(w, r, back, shared.FlashSuccess, "Photo removed.")
}
