package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the API router.
//
// Three rings of protection:
//   - public: register and login.
//   - authenticated: valid bearer token whose session is still active.
//   - device-scoped: additionally carries a verified X-Device-Id that the
//     session is (or becomes) permanently bound to.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(h.withTraceID)
	r.Use(h.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			// The salt must be fetchable before the device is trusted:
			// a brand-new device needs it to derive the key that produces
			// its very first authenticated requests.
			r.Get("/vault/salt", h.vaultSalt)
			r.Post("/devices/register", h.deviceRegister)

			r.Group(func(r chi.Router) {
				r.Use(h.requireDevice)

				r.Post("/vault/init", h.vaultInit)
				r.Post("/vault/save", h.vaultSave)
				r.Get("/vault/latest", h.vaultLatest)

				r.Get("/devices", h.deviceList)
				r.Post("/devices/approve", h.deviceApprove)
				r.Delete("/devices/{deviceID}", h.deviceRemove)
			})
		})
	})

	return r
}
