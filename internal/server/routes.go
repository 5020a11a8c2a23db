package server

import "github.com/go-chi/chi/v5"

// Routes returns the API route table. Cross-cutting middleware (request ids,
// rate limiting, recovery) is mounted by the caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/process", h.Process)
	r.Post("/chat", h.Chat)
	r.Get("/graph/info", h.GraphInfo)
	r.Get("/session/{id}/history", h.SessionHistory)
	r.Delete("/session/{id}", h.ClearSession)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	return r
}
