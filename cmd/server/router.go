package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tasktrack/tasktrack-api/internal/api"
	apiMiddleware "github.com/tasktrack/tasktrack-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.Metrics)

	authHandler := api.NewAuthHandler(app.userService, app.tokenService)
	taskHandler := api.NewTaskHandler(app.taskService, app.policy)
	commentHandler := api.NewCommentHandler(app.commentService, app.policy)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes. The auth middleware establishes the principal
		// but never rejects; the policy inside each handler does.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.Create)
				r.Get("/", taskHandler.List)
				r.Get("/filter", taskHandler.Filter)

				r.Route("/{taskId}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
					r.Put("/status", taskHandler.UpdateStatus)

					r.Route("/comments", func(r chi.Router) {
						r.Post("/", commentHandler.Create)
						r.Get("/", commentHandler.List)
						r.Put("/{commentId}", commentHandler.Update)
						r.Delete("/{commentId}", commentHandler.Delete)
					})
				})
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	// Prometheus scrape endpoint
	r.Get("/metrics", apiMiddleware.MetricsHandler().ServeHTTP)

	return r
}
