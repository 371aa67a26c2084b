package jobs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen/screentest"
)

func newStore(t *testing.T) (*ExportStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewExportStore(client, time.Hour), mr
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Queue: QueueDefault}, nil
}

func newJob(t *testing.T, store *ExportStore, upstream http.HandlerFunc) *ExportJob {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	api, err := apiclient.NewFactory(apiclient.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return NewExportJob(store, api, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func exportTask(t *testing.T, p ExportPayload) *asynq.Task {
	t.Helper()
	task, err := NewReportExportTask(p)
	require.NoError(t, err)
	return task
}

func TestStoreLifecycle(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "e1", KindAttendance, "42"))
	exp, err := store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, exp.Status)
	assert.Equal(t, "42", exp.Owner)
	assert.True(t, mr.TTL("backoffice:export:e1") > 0)

	require.NoError(t, store.Complete(ctx, "e1", "a.xlsx", apiclient.XLSXContentType, []byte{0x50, 0x4b}))
	exp, err = store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, exp.Status)
	assert.Equal(t, []byte{0x50, 0x4b}, exp.Data)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "e1")
	assert.ErrorIs(t, err, ErrExportNotFound)
	assert.ErrorIs(t, store.Fail(ctx, "e1", "late"), ErrExportNotFound)
}

func TestExportJobBinaryReport(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "e1", KindAttendance, "42"))

	job := newJob(t, store, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/attendance/export", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-10-01", r.URL.Query().Get("date"))
		w.Header().Set("Content-Disposition", `attachment; filename="attendance-oct.xlsx"`)
		_, _ = w.Write([]byte("PK-binary"))
	})

	err := job.Handle(ctx, exportTask(t, ExportPayload{ID: "e1", Kind: KindAttendance, Token: "tok", Params: map[string]string{"date": "2026-10-01"}}))
	require.NoError(t, err)

	exp, err := store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, exp.Status)
	assert.Equal(t, "attendance-oct.xlsx", exp.FileName)
	assert.Equal(t, "PK-binary", string(exp.Data))
}

func TestExportJobBase64Report(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "e2", KindUnbilled, "42"))

	job := newJob(t, store, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"file": base64.StdEncoding.EncodeToString([]byte("sheet"))})
	})
	require.NoError(t, job.Handle(ctx, exportTask(t, ExportPayload{ID: "e2", Kind: KindUnbilled, Token: "tok"})))

	exp, err := store.Get(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(exp.Data))
	assert.Equal(t, "unbilled_customers.xlsx", exp.FileName)
	assert.Equal(t, apiclient.XLSXContentType, exp.ContentType)
}

func TestExportJobSessionExpiredSkipsRetry(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "e3", KindAttendance, "42"))

	job := newJob(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := job.Handle(ctx, exportTask(t, ExportPayload{ID: "e3", Kind: KindAttendance, Token: "old"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)

	exp, err := store.Get(ctx, "e3")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, exp.Status)
	assert.Equal(t, apiclient.UserMessage(apiclient.ErrSessionExpired), exp.Message)
}

func TestExportJobUpstreamDetail(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "e4", KindUnbilled, "42"))

	job := newJob(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"from must be before to"}`))
	})
	require.Error(t, job.Handle(ctx, exportTask(t, ExportPayload{ID: "e4", Kind: KindUnbilled, Token: "tok"})))

	exp, err := store.Get(ctx, "e4")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, exp.Status)
	assert.Equal(t, "from must be before to", exp.Message)
}

func TestExportsStartQueuesTask(t *testing.T) {
	store, _ := newStore(t)
	queue := &fakeQueue{}
	exports := NewExports(store, queue, nil)

	id, err := exports.Start(context.Background(), ExportRequest{
		Kind:   KindUnbilled,
		Params: url.Values{"from": {"2026-09-01"}, "to": {"2026-09-30"}, "empty": {""}},
		Token:  "tok",
		Owner:  "42",
	})
	require.NoError(t, err)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, TaskReportExport, queue.tasks[0].Type())

	var payload ExportPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, id, payload.ID)
	assert.Equal(t, map[string]string{"from": "2026-09-01", "to": "2026-09-30"}, payload.Params)

	_, err = exports.Get(context.Background(), id, "someone-else")
	assert.ErrorIs(t, err, ErrExportNotFound)
}

func TestExportsStartRejectsUnknownKind(t *testing.T) {
	store, _ := newStore(t)
	queue := &fakeQueue{}
	_, err := NewExports(store, queue, nil).Start(context.Background(), ExportRequest{Kind: "payroll"})
	require.Error(t, err)
	assert.Empty(t, queue.tasks)
}

func TestExportsStartEnqueueFailureMarksFailed(t *testing.T) {
	store, mr := newStore(t)
	queue := &fakeQueue{err: errors.New("redis down")}
	_, err := NewExports(store, queue, nil).Start(context.Background(), ExportRequest{Kind: KindAttendance, Owner: "42"})
	require.Error(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, StatusFailed, mr.HGet(keys[0], "status"))
}

func TestHandlerDownloadAndStatus(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "e5", KindAttendance, "42"))

	env := screentest.New(t, http.NotFoundHandler())
	h := NewHandler(env.Base, nil, NewExports(store, &fakeQueue{}, nil))
	mount := func(r chi.Router) { r.Route("/exports", h.MountExportRoutes) }
	sess := screentest.Session("admin")

	rr := screentest.Serve(mount, sess, screentest.Get("/exports/e5"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Preparing your report")

	rr = screentest.Serve(mount, sess, screentest.Get("/exports/e5/download"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	require.NoError(t, store.Complete(ctx, "e5", "attendance.xlsx", apiclient.XLSXContentType, []byte("PK")))
	rr = screentest.Serve(mount, sess, screentest.Get("/exports/e5/download"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, apiclient.XLSXContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attendance.xlsx")
	assert.Equal(t, "PK", rr.Body.String())
}

func TestHandlerUnknownExportRedirectsHome(t *testing.T) {
	store, _ := newStore(t)
	env := screentest.New(t, http.NotFoundHandler())
	h := NewHandler(env.Base, nil, NewExports(store, &fakeQueue{}, nil))
	sess := screentest.Session("admin")

	rr := screentest.Serve(func(r chi.Router) { r.Route("/exports", h.MountExportRoutes) }, sess, screentest.Get("/exports/missing"))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Contains(t, screentest.Flash(sess), "expired")
}

type stubInspector struct{ info *asynq.QueueInfo }

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, nil }

func TestHealthReportsQueueDepth(t *testing.T) {
	env := screentest.New(t, http.NotFoundHandler())
	h := NewHandler(env.Base, stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3, Active: 1}}, nil)

	rr := screentest.Serve(func(r chi.Router) { r.Route("/jobs", h.MountRoutes) }, screentest.Session("admin"), screentest.Get("/jobs/health"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":3,"active":1,"failed":0}`, rr.Body.String())
}
