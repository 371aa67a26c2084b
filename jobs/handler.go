package jobs

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/fieldsales/backoffice/internal/platform/httpx"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

// QueueInspector is the part of *asynq.Inspector used for health checks.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// Handler exposes HTTP endpoints for job observability and export downloads.
type Handler struct {
	screen.Base
	inspector QueueInspector
	exports   *Exports
}

// NewHandler constructs an HTTP handler for jobs endpoints.
func NewHandler(base screen.Base, inspector QueueInspector, exports *Exports) *Handler {
	return &Handler{Base: base, inspector: inspector, exports: exports}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

// MountExportRoutes attaches the export status and download pages.
func (h *Handler) MountExportRoutes(r chi.Router) {
	r.Get("/{id}", h.showExport)
	r.Get("/{id}/download", h.download)
}

type queueHealth struct {
	Queue   string `json:"queue"`
	Pending int    `json:"pending"`
	Active  int    `json:"active"`
	Failed  int    `json:"failed"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.inspector == nil {
		httpx.JSON(w, http.StatusOK, queueHealth{Queue: QueueDefault})
		return
	}
	info, err := h.inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		h.Logger.Warn("jobs health", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	out := queueHealth{Queue: QueueDefault}
	if info != nil {
		out = queueHealth{Queue: info.Queue, Pending: info.Pending, Active: info.Active, Failed: info.Retry + info.Archived}
	}
	httpx.JSON(w, http.StatusOK, out)
}

type exportPage struct {
	Export      Export
	DownloadURL string
	Back        string
}

func (h *Handler) loadExport(w http.ResponseWriter, r *http.Request) (Export, bool) {
	id := chi.URLParam(r, "id")
	exp, err := h.exports.Get(r.Context(), id, shared.RequestSession(r).User())
	if err != nil {
		if errors.Is(err, ErrExportNotFound) {
			h.Redirect(w, r, "/", shared.FlashError, "That export has expired or does not exist.")
			return Export{}, false
		}
		h.Fail(w, r, err, "/")
		return Export{}, false
	}
	return exp, true
}

func (h *Handler) showExport(w http.ResponseWriter, r *http.Request) {
	exp, ok := h.loadExport(w, r)
	if !ok {
		return
	}
	exp.Data = nil
	h.Render(w, r, http.StatusOK, "pages/export_status.html", "Report export", exportPage{
		Export:      exp,
		DownloadURL: "/exports/" + exp.ID + "/download",
		Back:        backFor(exp.Kind),
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	exp, ok := h.loadExport(w, r)
	if !ok {
		return
	}
	if exp.Status != StatusReady {
		h.Redirect(w, r, "/exports/"+exp.ID, shared.FlashInfo, "The report is not ready yet.")
		return
	}
	h.exports.metrics.RecordExport(exp.Kind, "served")
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Data)
}

func backFor(kind string) string {
	switch kind {
	case KindAttendance:
		return "/admin/attendance"
	case KindUnbilled:
		return "/admin/unbilled"
	default:
		return "/"
	}
}
