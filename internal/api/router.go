package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mindful-chat/internal/api/handlers"
	"mindful-chat/internal/auth"
	"mindful-chat/internal/config"
	"mindful-chat/internal/middleware"
)

// NewRouter wires HTTP routes to the API handlers. Everything below
// the two public endpoints requires a resolved owner identity.
func NewRouter(cfg *config.AppConfig, h *handlers.Handlers, verifier *auth.Verifier) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Group(func(protected chi.Router) {
		protected.Use(verifier.Middleware)
		protected.Get("/messages", h.ListMessages)
		protected.Get("/moods", h.ListMoods)
		protected.Post("/moods", h.CreateMood)
		protected.Post("/chat", h.Chat)
	})

	return r
}
