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
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Post("/api/auth/token", h.issueToken)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/tasks", h.getTasks)
		r.Post("/api/tasks", h.createTask)
		r.Patch("/api/tasks", h.patchTask)
		r.Put("/api/tasks", h.putTask)
		r.Delete("/api/tasks", h.deleteTask)

		r.Post("/api/sync/pull", h.syncPull)
		r.Post("/api/sync/push", h.syncPush)

		r.Post("/api/uploads", h.upload)
	})

	return router
}
