package jobs

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/fieldsales/backoffice/internal/observability"
)

// ExportRequest asks for one report file.
type ExportRequest struct {
	Kind   string
	Params url.Values
	Token  string
	Owner  string
}

// Exports starts report exports from the web process.
type Exports struct {
	store   *ExportStore
	queue   Enqueuer
	metrics *observability.Metrics
}

// NewExports builds the export starter.
func NewExports(store *ExportStore, queue Enqueuer, metrics *observability.Metrics) *Exports {
	return &Exports{store: store, queue: queue, metrics: metrics}
}

// Start records a pending export and queues the worker task. It returns the export id.
func (e *Exports) Start(ctx context.Context, req ExportRequest) (string, error) {
	if _, ok := Reports[req.Kind]; !ok {
		return "", fmt.Errorf("jobs: unknown export kind %q", req.Kind)
	}
	id := uuid.NewString()
	params := make(map[string]string, len(req.Params))
	for k := range req.Params {
		if v := req.Params.Get(k); v != "" {
			params[k] = v
		}
	}
	task, err := NewReportExportTask(ExportPayload{ID: id, Kind: req.Kind, Params: params, Token: req.Token})
	if err != nil {
		return "", err
	}
	if err := e.store.Create(ctx, id, req.Kind, req.Owner); err != nil {
		return "", err
	}
	if _, err := e.queue.EnqueueContext(ctx, task); err != nil {
		_ = e.store.Fail(ctx, id, "The export could not be queued.")
		return "", fmt.Errorf("jobs: enqueue export: %w", err)
	}
	e.metrics.RecordExport(req.Kind, "queued")
	return id, nil
}

// Get returns an export if it belongs to owner.
func (e *Exports) Get(ctx context.Context, id, owner string) (Export, error) {
	exp, err := e.store.Get(ctx, id)
	if err != nil {
		return Export{}, err
	}
	if exp.Owner != owner {
		return Export{}, ErrExportNotFound
	}
	return exp, nil
}
