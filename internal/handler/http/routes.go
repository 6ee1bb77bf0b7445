package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// game session
	router.Get("/ws", h.serveSession)

	// read-only API
	router.Group(func(r chi.Router) {
		r.Use(withGZip)
		r.Get("/api/status", h.getStatus)
		r.Get("/api/players", h.getPlayers)
		r.Get("/api/players/{name}", h.getPlayer)
		r.Get("/api/maps", h.getMaps)
		r.Get("/api/version", h.getServerVersion)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
