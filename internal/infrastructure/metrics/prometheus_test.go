package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/internal/application/billing"
)

func TestMetrics_ContadoresDeEmision(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry, Config{ServiceName: "afip-mock", Environment: "test"})

	m.InvoiceIssued(6)
	m.InvoiceIssued(6)
	m.InvoiceIssued(1)
	m.InvoiceRejected("validation")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesIssued.WithLabelValues("6")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesIssued.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("validation")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("internal")))
}

func TestMetrics_HistogramasRegistrados(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry, Config{})

	m.StageDuration(billing.StageDone, 3*time.Millisecond)
	m.ObserveHTTP("POST", "/wsfev1/FECAESolicitar", 200, 250*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/wsfev1/FECAESolicitar", "200")))

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "env" {
					assert.Equal(t, "unknown", l.GetValue())
				}
			}
		}
	}
	assert.Contains(t, names, "afip_issuance_stage_duration_seconds")
	assert.Contains(t, names, "afip_http_request_duration_seconds")
}
