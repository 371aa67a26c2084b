package unbilled

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/screen/screentest"
	"github.com/fieldsales/backoffice/jobs"
)

var fixedNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

type fakeExporter struct {
	requests []jobs.ExportRequest
}

func (f *fakeExporter) Start(_ context.Context, req jobs.ExportRequest) (string, error) {
	f.requests = append(f.requests, req)
	return "exp-9", nil
}

func setup(t *testing.T, api *screentest.FakeAPI, exporter *fakeExporter) func(chi.Router) {
	t.Helper()
	env := screentest.New(t, api)
	h := NewHandler(env.Base, exporter)
	h.now = func() time.Time { return fixedNow }
	return func(r chi.Router) { r.Route(listPath, h.MountRoutes) }
}

func TestParseRange(t *testing.T) {
	def := DefaultRange(fixedNow)
	assert.Equal(t, "2026-10-01", def.Values().Get("from"))
	assert.Equal(t, "2026-10-17", def.Values().Get("to"))

	rng, err := ParseRange("2026-09-01", "", def)
	require.NoError(t, err)
	assert.Equal(t, url.Values{"from": {"2026-09-01"}, "to": {"2026-10-17"}}, rng.Values())

	_, err = ParseRange("2026-10-10", "2026-10-10", def)
	assert.NoError(t, err)

	_, err = ParseRange("2026-10-11", "2026-10-10", def)
	assert.ErrorIs(t, err, ErrRangeOrder)

	_, err = ParseRange("yesterday", "", def)
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestParseRangeSingleBoundOutsideUTC(t *testing.T) {
	east := time.Date(2026, 10, 17, 9, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))
	rng, err := ParseRange("2026-10-17", "", DefaultRange(east))
	require.NoError(t, err)
	assert.Equal(t, url.Values{"from": {"2026-10-17"}, "to": {"2026-10-17"}}, rng.Values())

	west := time.Date(2026, 10, 1, 9, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))
	rng, err = ParseRange("", "2026-10-01", DefaultRange(west))
	require.NoError(t, err)
	assert.Equal(t, url.Values{"from": {"2026-10-01"}, "to": {"2026-10-01"}}, rng.Values())
}

func TestListUsesDefaultRange(t *testing.T) {
	api := screentest.NewFakeAPI().On(http.MethodGet, "/admin/reports/unbilled_customers", http.StatusOK,
		`{"data":[{"customer_id":3,"customer_name":"Toko Maju","phone":"0811"}],"meta":{"total":1,"total_pages":1}}`)
	mount := setup(t, api, &fakeExporter{})

	rr := screentest.Serve(mount, screentest.Session("admin"), screentest.Get(listPath))

	require.Equal(t, http.StatusOK, rr.Code)
	q := api.Calls()[0].Query
	assert.Equal(t, "2026-10-01", q.Get("from"))
	assert.Equal(t, "2026-10-17", q.Get("to"))
	assert.Contains(t, rr.Body.String(), "Toko Maju")
	assert.Contains(t, rr.Body.String(), "Never")
}

func TestListRejectsReversedRangeWithoutCallingUpstream(t *testing.T) {
	api := screentest.NewFakeAPI()
	mount := setup(t, api, &fakeExporter{})

	rr := screentest.Serve(mount, screentest.Session("admin"), screentest.Get(listPath+"?from=2026-10-10&to=2026-10-01"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "The start date must not be after the end date.")
	assert.Empty(t, api.Calls())
}

func TestExportQueuesUnbilledKind(t *testing.T) {
	exporter := &fakeExporter{}
	mount := setup(t, screentest.NewFakeAPI(), exporter)

	rr := screentest.Serve(mount, screentest.Session("admin"), screentest.PostForm(listPath+"/export", url.Values{"from": {"2026-09-01"}, "to": {"2026-09-30"}}))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/exports/exp-9", rr.Header().Get("Location"))
	require.Len(t, exporter.requests, 1)
	assert.Equal(t, jobs.KindUnbilled, exporter.requests[0].Kind)
	assert.Equal(t, url.Values{"from": {"2026-09-01"}, "to": {"2026-09-30"}}, exporter.requests[0].Params)
}

func TestExportRejectsReversedRange(t *testing.T) {
	exporter := &fakeExporter{}
	mount := setup(t, screentest.NewFakeAPI(), exporter)
	sess := screentest.Session("admin")

	rr := screentest.Serve(mount, sess, screentest.PostForm(listPath+"/export", url.Values{"from": {"2026-09-30"}, "to": {"2026-09-01"}}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Empty(t, exporter.requests)
	assert.Equal(t, "The start date must not be after the end date.", screentest.Flash(sess))
}
