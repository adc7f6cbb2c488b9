package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the bridge.
type Metrics struct {
	registry         *prometheus.Registry
	WebhookMessages  *prometheus.CounterVec
	AIReplies        *prometheus.CounterVec
	AIReplyDuration  prometheus.Histogram
	ModelSelections  *prometheus.CounterVec
	OutboundMessages *prometheus.CounterVec
	CatalogRequests  *prometheus.CounterVec
}

// NewMetrics constructs a private registry with the bridge collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	webhook := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_webhook_messages_total",
		Help: "Inbound webhook messages by outcome",
	}, []string{"outcome"})

	replies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_ai_replies_total",
		Help: "AI reply attempts by result kind",
	}, []string{"kind"})

	replyDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_ai_reply_duration_seconds",
		Help:    "Time spent waiting for the AI provider",
		Buckets: prometheus.DefBuckets,
	})

	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_model_selections_total",
		Help: "Model selections by chosen model and whether a fallback occurred",
	}, []string{"model", "fallback"})

	outbound := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_outbound_messages_total",
		Help: "Outbound channel messages by HTTP status",
	}, []string{"status"})

	catalog := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_catalog_requests_total",
		Help: "Catalog API requests by result",
	}, []string{"result"})

	reg.MustRegister(webhook, replies, replyDur, selections, outbound, catalog)

	return &Metrics{
		registry:         reg,
		WebhookMessages:  webhook,
		AIReplies:        replies,
		AIReplyDuration:  replyDur,
		ModelSelections:  selections,
		OutboundMessages: outbound,
		CatalogRequests:  catalog,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordWebhook counts a processed inbound message.
func (m *Metrics) RecordWebhook(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.WebhookMessages.WithLabelValues(outcome).Inc()
}

// RecordAIReply counts a generation attempt and its duration.
func (m *Metrics) RecordAIReply(kind string, d time.Duration) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.AIReplies.WithLabelValues(kind).Inc()
	m.AIReplyDuration.Observe(d.Seconds())
}

// RecordModelSelection counts the outcome of a model choice.
func (m *Metrics) RecordModelSelection(model string, fallback bool) {
	if m == nil {
		return
	}
	if model == "" {
		model = "unknown"
	}
	m.ModelSelections.WithLabelValues(model, strconv.FormatBool(fallback)).Inc()
}

// RecordOutbound counts a send attempt. status 0 means a transport failure.
func (m *Metrics) RecordOutbound(status int) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.OutboundMessages.WithLabelValues(label).Inc()
}

// RecordCatalog counts a catalog API call.
func (m *Metrics) RecordCatalog(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.CatalogRequests.WithLabelValues(result).Inc()
}
