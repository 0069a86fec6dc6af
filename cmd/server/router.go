package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kanbanboard/kanban-api/internal/api"
	apiMiddleware "github.com/kanbanboard/kanban-api/internal/api/middleware"
)

// corsMaxAgeSeconds is how long browsers may cache a preflight response.
const corsMaxAgeSeconds = 3600

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.tracerProvider, app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.authService)
	boardHandler := api.NewBoardHandler(app.boardService, app.config.Boards.RequireOwnerForRead)
	taskHandler := api.NewTaskHandler(app.taskService)
	healthHandler := api.NewHealthHandler(app.pinger)
	authGate := apiMiddleware.NewAuthGate(app.tokenService, app.logger)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		// Every request gets a chance to carry an identity; only the
		// group below insists on one.
		r.Use(authGate.Authenticate)

		// Authentication endpoints (public)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authGate.RequireAuth)

			r.Get("/auth/me", authHandler.Me)
			r.Delete("/auth/me", authHandler.DeleteMe)

			// Board endpoints
			r.Post("/boards", boardHandler.CreateBoard)
			r.Get("/boards", boardHandler.ListBoards)
			r.Get("/boards/{id}", boardHandler.GetBoard)
			r.Put("/boards/{id}", boardHandler.UpdateBoard)
			r.Delete("/boards/{id}", boardHandler.DeleteBoard)

			// Task endpoints scoped to a board
			r.Post("/boards/{boardId}/tasks", taskHandler.CreateTask)
			r.Get("/boards/{boardId}/tasks", taskHandler.ListTasks)
			r.Get("/boards/{boardId}/tasks/next-position", taskHandler.NextPosition)

			// Task endpoints by id
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
			r.Patch("/tasks/{id}/position", taskHandler.UpdateTaskPosition)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		})
	})

	return r
}
