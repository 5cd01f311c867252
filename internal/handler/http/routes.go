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

	router.Get("/", h.getServerVersion)

	router.Route("/s", func(r chi.Router) {
		// routes without authorization
		r.With(withGZip).Get("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.With(withGZip).Get("/data", h.data)
			// no gzip here: the upgrade hijacks the connection
			r.Get("/sync", h.sync)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
