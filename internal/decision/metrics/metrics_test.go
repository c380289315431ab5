package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementVerdict("Accept", "all_checks_passed")
	m.IncrementVerdict("Accept", "all_checks_passed")
	m.IncrementVerdict("Quarantine", "medical_advisory")
	m.IncrementBatchFailure("bad_format")
	m.ObserveBatchLatency(20 * time.Millisecond)
	m.ObserveSourceLoadLatency("records", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Verdicts.WithLabelValues("Accept", "all_checks_passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Verdicts.WithLabelValues("Quarantine", "medical_advisory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchFailures.WithLabelValues("bad_format")))

	n, err := testutil.GatherAndCount(reg, "kanadia_batch_duration_seconds", "kanadia_source_load_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementVerdict("Accept", "all_checks_passed")
		m.IncrementBatchFailure("bad_format")
		m.ObserveBatchLatency(time.Second)
		m.ObserveSourceLoadLatency("countries", time.Second)
	})
}

func TestMetrics_SeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
