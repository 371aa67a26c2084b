package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/fieldsales/backoffice/internal/jobs"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

// Report says where an export kind is fetched from upstream.
type Report struct {
	Path     string
	Base64   bool
	FileName string
}

// Reports maps export kinds to upstream endpoints. Attendance is served as a
// binary spreadsheet, unbilled customers as base64 text.
var Reports = map[string]Report{
	KindAttendance: {Path: "/admin/attendance/export", FileName: "attendance.xlsx"},
	KindUnbilled:   {Path: "/admin/reports/unbilled_customers/export", Base64: true, FileName: "unbilled_customers.xlsx"},
}

// tokenSession carries the bearer token of the user who asked for the export.
type tokenSession struct {
	token   string
	expired bool
}

func (s *tokenSession) AccessToken() string { return s.token }

func (s *tokenSession) Logout() {
	s.token = ""
	s.expired = true
}

// ExportJob executes TaskReportExport.
type ExportJob struct {
	Store   *ExportStore
	API     *apiclient.Factory
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewExportJob initialises the export handler.
func NewExportJob(store *ExportStore, api *apiclient.Factory, logger *slog.Logger, metrics *jobmetrics.Metrics) *ExportJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportJob{Store: store, API: api, Logger: logger, Metrics: metrics}
}

// Handle fetches the report and stores it, or records why it could not.
func (j *ExportJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil {
		return errors.New("report export: handler not configured")
	}
	var payload ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("report export: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	tracker := j.Metrics.Track(TaskReportExport)
	defer func() { err = tracker.End(err) }()

	report, ok := Reports[payload.Kind]
	if !ok {
		j.fail(ctx, payload.ID, "Unknown report.")
		return fmt.Errorf("report export: unknown kind %q: %w", payload.Kind, asynq.SkipRetry)
	}

	query := url.Values{}
	for k, v := range payload.Params {
		if v != "" {
			query.Set(k, v)
		}
	}
	sess := &tokenSession{token: payload.Token}
	client := j.API.For(sess)

	var file *apiclient.File
	if report.Base64 {
		file, err = client.DownloadBase64(ctx, report.Path, query, report.FileName)
	} else {
		file, err = client.Download(ctx, report.Path, query, report.FileName)
	}
	if err != nil {
		j.fail(ctx, payload.ID, apiclient.UserMessage(err))
		j.Logger.Warn("report export failed", slog.String("id", payload.ID), slog.String("kind", payload.Kind), slog.Any("error", err))
		if sess.expired {
			return fmt.Errorf("report export %s: %w: %w", payload.ID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("report export %s: %w", payload.ID, err)
	}

	if err := j.Store.Complete(ctx, payload.ID, file.Name, file.ContentType, file.Data); err != nil {
		return fmt.Errorf("report export %s: %w", payload.ID, err)
	}
	j.Metrics.AddBytes(payload.Kind, len(file.Data))
	j.Logger.Info("report export ready", slog.String("id", payload.ID), slog.String("kind", payload.Kind), slog.Int("bytes", len(file.Data)))
	return nil
}

func (j *ExportJob) fail(ctx context.Context, id, message string) {
	if err := j.Store.Fail(ctx, id, message); err != nil {
		j.Logger.Warn("record export failure", slog.String("id", id), slog.Any("error", err))
	}
}
