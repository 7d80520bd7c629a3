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

	router.Route("/api/v1", func(r chi.Router) {
		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
			r.Post("/auth/refresh-token", h.refreshToken)
		})

		// routes guarded by the access token
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Post("/auth/logout", h.logout)
			r.Get("/auth/me", h.me)

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", h.profile)
				r.Put("/profile", h.updateProfile)
				r.Put("/profile/password", h.changePassword)
				r.Delete("/", h.deleteAccount)

				r.Get("/sessions", h.sessions)
				r.Post("/sessions/logout-others", h.logoutOtherSessions)
			})
		})
	})

	return router
}
