package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/ai"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/shopify"
)

const (
	serviceName         = "Enterprise AI Automation Agent"
	defaultCatalogLimit = 5
)

// Asker runs the direct ask flow.
type Asker interface {
	Ask(ctx context.Context, req ai.AskRequest) (ai.Result, error)
}

// ProductLister is the catalog read used by /catalog/products.
type ProductLister interface {
	GetProducts(ctx context.Context, limit int) ([]shopify.Product, error)
}

type Handler struct {
	env     string
	asker   Asker
	models  ai.ModelLister
	catalog ProductLister
	log     *zap.Logger
}

func NewHandler(env string, asker Asker, models ai.ModelLister, catalog ProductLister, log *zap.Logger) *Handler {
	return &Handler{
		env:     env,
		asker:   asker,
		models:  models,
		catalog: catalog,
		log:     log.Named("api"),
	}
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":     serviceName,
		"env":      h.env,
		"health":   "/health",
		"metrics":  "/metrics",
		"ai":       map[string]string{"ask": "/ai/ask", "models": "/ai/models"},
		"webhooks": map[string]string{"whatsapp": "/webhook/whatsapp"},
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "env": h.env})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := defaultCatalogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "limit must be an integer")
			return
		}
		limit = n
	}

	products, err := h.catalog.GetProducts(r.Context(), limit)
	if err != nil {
		h.log.Error("list products", zap.Error(err))
		writeDetail(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ListModels reports the models visible to the API key, sorted by name.
// Failures are reported in the body with status 200.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.ListModels(r.Context())
	if err != nil {
		h.log.Error("list models", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
		return
	}
	sort.SliceStable(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	if models == nil {
		models = []ai.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, models)
}

type askBody struct {
	Text      *string `json:"text"`
	Model     string  `json:"model"`
	TimeoutMS int64   `json:"timeout_ms"`
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var body askBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid json")
		return
	}
	if body.Text == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "text is required")
		return
	}

	res, err := h.asker.Ask(r.Context(), ai.AskRequest{
		Text:    *body.Text,
		Model:   body.Model,
		Timeout: body.TimeoutMS,
	})
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warn("ask timed out", zap.Error(err))
		writeDetail(w, http.StatusGatewayTimeout, err.Error())
		return
	case err != nil:
		h.log.Error("ask failed", zap.Error(err))
		writeDetail(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
