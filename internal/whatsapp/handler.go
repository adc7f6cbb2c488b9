package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
)

const maxWebhookBody = 1 << 20

type Handler struct {
	svc         Service
	verifyToken string
	log         *zap.Logger
	metrics     *observability.Metrics
}

func NewHandler(svc Service, verifyToken string, log *zap.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{
		svc:         svc,
		verifyToken: verifyToken,
		log:         log.Named("webhook"),
		metrics:     metrics,
	}
}

// Verify answers the subscription handshake. Meta sends hub.* parameters;
// the bare names are accepted too.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "channel") != ChannelName {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Unknown channel"})
		return
	}

	q := r.URL.Query()
	mode := firstNonEmpty(q.Get("hub.mode"), q.Get("mode"))
	token := firstNonEmpty(q.Get("hub.verify_token"), q.Get("token"))
	challenge := firstNonEmpty(q.Get("hub.challenge"), q.Get("challenge"))

	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.log.Warn("verification failed", zap.String("mode", mode))
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Verification failed"})
		return
	}

	switch {
	case challenge == "":
		writeJSON(w, http.StatusOK, "OK")
	case isDigits(challenge):
		writeJSON(w, http.StatusOK, json.Number(canonicalDigits(challenge)))
	default:
		writeJSON(w, http.StatusOK, challenge)
	}
}

// Receive handles a notification. It always acknowledges with 200: the
// platform retries anything else, and failures here are ours to log.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	defer writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	defer func() {
		if rec := recover(); rec != nil {
			h.metrics.RecordWebhook("panic")
			h.log.Error("webhook panic", zap.Any("panic", rec))
		}
	}()

	if chi.URLParam(r, "channel") != ChannelName {
		h.log.Warn("webhook for unknown channel", zap.String("channel", chi.URLParam(r, "channel")))
		h.metrics.RecordWebhook("ignored")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.log.Error("read webhook body", zap.Error(err))
		h.metrics.RecordWebhook("bad_payload")
		return
	}
	h.log.Info("webhook", zap.String("body", logging.Short(string(body), 500)))

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.log.Error("decode webhook", zap.Error(err))
		h.metrics.RecordWebhook("bad_payload")
		return
	}

	msg, ok := payload.firstMessage()
	if !ok {
		// status callbacks (sent, delivered, read) carry no message
		h.metrics.RecordWebhook("ignored")
		return
	}

	if err := h.svc.HandleIncoming(r.Context(), msg); err != nil {
		h.log.Error("webhook pipeline", zap.String("from", msg.From), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// canonicalDigits strips leading zeros, which encoding/json rejects in a
// number literal.
func canonicalDigits(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
