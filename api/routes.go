package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/reelbyte-backend/metrics"
)

const (
	forbiddenGigAction     = "only creators can manage gigs"
	forbiddenProjectAction = "only clients can manage projects"
)

// setupRoutes registers the public catalogue routes and the owner routes
// behind authentication.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(logRequests)

		// Public reads; a valid token only identifies the viewer
		r.Group(func(r chi.Router) {
			r.Use(auth.identify)

			r.Get("/gigs", handlers.gigHandler.listGigs())
			r.Get("/gigs/slug/{slug}", handlers.gigHandler.getGigBySlug())
			r.Get("/gigs/creator/{creatorProfileID}", handlers.gigHandler.listCreatorGigs())
			r.Get("/gigs/{gigID}", handlers.gigHandler.getGig())
			r.Get("/gigs/{gigID}/packages", handlers.gigHandler.getGigPackages())

			r.Get("/projects", handlers.projectHandler.listProjects())
			r.Get("/projects/client/{clientProfileID}", handlers.projectHandler.listClientProjects())
			r.Get("/projects/{projectID}", handlers.projectHandler.getProject())

			r.Get("/clients/{clientID}", handlers.clientHandler.getClient())
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)

			r.Group(func(r chi.Router) {
				r.Use(auth.requireRole(forbiddenGigAction, RoleCreator, RoleBoth))
				r.Post("/gigs", handlers.gigHandler.createGig())
				r.Put("/gigs/{gigID}", handlers.gigHandler.updateGig())
				r.Patch("/gigs/{gigID}", handlers.gigHandler.updateGig())
				r.Delete("/gigs/{gigID}", handlers.gigHandler.deleteGig())
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.requireRole(forbiddenProjectAction, RoleClient, RoleBoth))
				r.Post("/projects", handlers.projectHandler.createProject())
				r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
				r.Patch("/projects/{projectID}", handlers.projectHandler.updateProject())
			})

			if handlers.mediaHandler != nil {
				r.Post("/media/uploads", handlers.mediaHandler.createUpload())
			}
		})
	})
}
