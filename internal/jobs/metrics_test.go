package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	require.NoError(t, m.Track("sms:send").End(nil))
	failure := errors.New("provider down")
	assert.ErrorIs(t, m.Track("sms:send").End(failure), failure)

	assert.InDelta(t, 1, testutil.ToFloat64(m.runs.WithLabelValues("sms:send", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.runs.WithLabelValues("sms:send", "failure")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.failures.WithLabelValues("sms:send")), 0)
}

func TestNilMetricsTrackerIsNoOp(t *testing.T) {
	var m *Metrics
	err := errors.New("boom")
	assert.ErrorIs(t, m.Track("sms:send").End(err), err)
}
