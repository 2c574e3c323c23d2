package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/eval", h.Eval)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/events", h.ApplyEvent)
				r.Post("/keys", h.ApplyKeys)
			})
		})
	})
}
