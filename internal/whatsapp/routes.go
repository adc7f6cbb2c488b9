package whatsapp

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/webhook/{channel}", h.Verify)
	r.Post("/webhook/{channel}", h.Receive)
}
