package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportExport downloads an upstream report into the export store.
	TaskReportExport = "report:export"
)

// Report kinds the worker knows how to fetch.
const (
	KindAttendance = "attendance"
	KindUnbilled   = "unbilled_customers"
)

// ExportPayload describes one export request. Token is the requesting user's
// upstream bearer token; the task never outlives the export TTL.
type ExportPayload struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
	Token  string            `json:"token"`
}

// NewReportExportTask constructs an Asynq task. Exports are not retried: a
// failed export is reported to the user, who can start it again.
func NewReportExportTask(payload ExportPayload) (*asynq.Task, error) {
	if payload.ID == "" || payload.Kind == "" {
		return nil, fmt.Errorf("jobs: export payload needs id and kind")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, data, asynq.MaxRetry(0), asynq.Queue(QueueDefault)), nil
}
