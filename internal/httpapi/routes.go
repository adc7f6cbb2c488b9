package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter builds the root router with the shared middleware stack.
func NewRouter(log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	return r
}

func RegisterRoutes(r chi.Router, h *Handler, metrics http.Handler) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/catalog/products", h.ListProducts)
	r.Get("/ai/models", h.ListModels)
	r.Post("/ai/ask", h.Ask)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
}
