package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter sample whose labels match all of labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			got := make(map[string]string)
			for _, pair := range metric.GetLabel() {
				got[pair.GetName()] = pair.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	assert.NoError(t, m.Track("report:export").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("report:export").End(boom), boom)

	assert.Equal(t, 1.0, counterValue(t, reg, "backoffice_jobs_total", map[string]string{"job": "report:export", "status": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "backoffice_jobs_total", map[string]string{"job": "report:export", "status": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "backoffice_jobs_failures_total", map[string]string{"job": "report:export"}))
}

func TestAddBytesIgnoresEmpty(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.AddBytes("attendance", 0)
	m.AddBytes("attendance", 2048)
	assert.Equal(t, 2048.0, counterValue(t, reg, "backoffice_export_bytes_total", map[string]string{"kind": "attendance"}))
}

func TestNilMetricsTrackerPassesErrorThrough(t *testing.T) {
	var m *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("x").End(boom), boom)
	m.AddBytes("x", 10)
}
