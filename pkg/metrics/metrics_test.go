package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsOutcomes(t *testing.T) {
	m := NewClientMetrics(prometheus.NewRegistry())

	m.Observe("create_order", time.Now(), nil)
	m.Observe("create_order", time.Now(), errors.New("boom"))
	m.Observe("create_order", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("create_order", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("create_order", OutcomeError)))
}

func TestObserveNilReceiver(t *testing.T) {
	var m *ClientMetrics
	assert.NotPanics(t, func() { m.Observe("noop", time.Now(), nil) })
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)
	m.Observe("process_order", time.Now(), errors.New("boom"))

	path := filepath.Join(t.TempDir(), "nested", "checkout.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `checkout_merchant_api_requests_total{operation="process_order",outcome="error"} 1`)
	assert.Contains(t, string(data), "# TYPE checkout_merchant_api_request_duration_ms histogram")
}
