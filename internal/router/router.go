// Package router sets up all HTTP routes and middleware chains for the
// brandshot JSON API. Generation endpoints sit behind a per-IP rate limit.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandshot/internal/handlers"
	"brandshot/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to leave generation
// endpoints unthrottled.
func New(api *handlers.API, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS)

	r.NotFound(jsonError("Not found", http.StatusNotFound))
	r.MethodNotAllowed(jsonError("Method not allowed", http.StatusMethodNotAllowed))

	throttle := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Middleware(h)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", api.Health)
		r.Get("/tasks", api.Tasks)

		r.Put("/referenceImages/{id}", api.UpdateReferenceImage)
		r.Delete("/referenceImages/{id}", api.DeleteReferenceImage)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", api.ListProjects)
			r.Post("/", api.CreateProject)

			r.Route("/{project}", func(r chi.Router) {
				r.Get("/", api.GetProject)
				r.Put("/", api.UpdateProject)
				r.Delete("/", api.DeleteProject)

				// Project-tier references and uploads
				r.Get("/approvedImages", api.ProjectReferences)
				r.Post("/approvedImages", api.AddProjectReference)
				r.Put("/approvedImages", api.ReplaceProjectReferences)
				r.Get("/referenceImages", api.ProjectImages)
				r.Post("/referenceImages", api.UploadProjectImage)

				r.Get("/campaigns", api.ListCampaigns)
				r.Post("/campaigns", api.CreateCampaign)

				r.Route("/campaigns/{campaign}", func(r chi.Router) {
					r.Get("/", api.GetCampaign)
					r.Put("/", api.UpdateCampaign)
					r.Delete("/", api.DeleteCampaign)

					// Campaign-tier references, approval, and the combined library
					r.Get("/references", api.CampaignReferences)
					r.Post("/references", api.AddCampaignReference)
					r.Put("/references", api.ReplaceCampaignReferences)
					r.Post("/approve", api.Approve)
					r.Get("/library", api.Library)
					r.Put("/library/{index}/pin", api.PinReference)
					r.Get("/referenceImages", api.CampaignImages)
					r.Post("/referenceImages", api.UploadCampaignImage)

					// Requests
					r.Get("/requests", api.ListRequests)
					r.Post("/requests", api.CreateRequest)
					r.Route("/requests/{requestID}", func(r chi.Router) {
						r.Get("/", api.GetRequest)
						r.Put("/", api.UpdateRequest)
						r.Delete("/", api.DeleteRequest)
						r.Get("/logs", api.RequestLogs)
						r.Method(http.MethodPost, "/generate", throttle(api.Generate))
						r.Method(http.MethodPost, "/optimize", throttle(api.Optimize))
					})
				})
			})
		})
	})

	// Stored blobs, addressed by their storage key.
	r.Get("/assets/*", api.ServeBlob)
	r.Get("/references/*", api.ServeBlob)

	return r
}

// jsonError answers every request with a fixed {"error": msg} body.
func jsonError(msg string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"error":"` + msg + `"}`))
	}
}
