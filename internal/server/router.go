package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"deskcalc/internal/calculator"
	"deskcalc/internal/handlers"
	"deskcalc/internal/observability"
	"deskcalc/internal/session"
)

// NewRouter assembles the HTTP surface: observability middleware, health
// and metrics endpoints, and the calculator session API on the given store.
func NewRouter(store session.Store) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(store))

	return r
}
