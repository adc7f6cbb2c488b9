package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := NewMetrics()

	m.RecordWebhook("catalog")
	m.RecordWebhook("catalog")
	m.RecordAIReply("ok", 150*time.Millisecond)
	m.RecordModelSelection("models/gemini-2.5-pro", true)
	m.RecordOutbound(200)
	m.RecordOutbound(0)
	m.RecordCatalog(false)

	require.Equal(t, 2.0, testutil.ToFloat64(m.WebhookMessages.WithLabelValues("catalog")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AIReplies.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ModelSelections.WithLabelValues("models/gemini-2.5-pro", "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.OutboundMessages.WithLabelValues("200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.OutboundMessages.WithLabelValues("transport_error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CatalogRequests.WithLabelValues("error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordWebhook("x")
		m.RecordAIReply("x", time.Second)
		m.RecordModelSelection("x", false)
		m.RecordOutbound(500)
		m.RecordCatalog(true)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordCatalog(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bridge_catalog_requests_total")
}
