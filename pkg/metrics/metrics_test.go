package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordForwarded("echo")
	c.RecordRejection("invalid_ticket")
	c.RecordUpstreamFailure("echo")
	c.RecordUpstreamLatency(25 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `omnitron_forwarded_total{target="echo"} 1`)
	assert.Contains(t, body, `omnitron_rejections_total{reason="invalid_ticket"} 1`)
	assert.Contains(t, body, `omnitron_upstream_failures_total{target="echo"} 1`)
	assert.Contains(t, body, "omnitron_upstream_latency_seconds_count 1")
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordForwarded("x")
	r.RecordRejection("x")
	r.RecordUpstreamFailure("x")
	r.RecordUpstreamLatency(time.Second)
}
