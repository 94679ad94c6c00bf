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

	router.Route("/api", func(r chi.Router) {
		r.Post("/consent", h.submitConsent)
		r.Get("/consent/download", h.downloadConsent)

		r.Post("/otp/request", h.requestOTP)
		r.Post("/otp/verify", h.verifyOTP)

		r.Get("/chain/verify", h.verifyChain)
		r.Get("/healthz", h.healthz)
	})

	return router
}
