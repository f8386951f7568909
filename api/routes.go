package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires all endpoints. Graph reads are public; "my" routes need
// an authenticated user to scope to.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
		r.Get("/projects/{projectID}/gantt", handlers.projectHandler.getProjectGantt())

		// Task endpoints
		r.Get("/tasks", handlers.taskHandler.getAllTasks())
		r.Get("/tasks/{taskID}", handlers.taskHandler.getTask())
		r.Post("/tasks", handlers.taskHandler.createTask())
		r.Put("/tasks/{taskID}", handlers.taskHandler.updateTask())
		r.Delete("/tasks/{taskID}", handlers.taskHandler.deleteTask())
		r.Post("/tasks/{taskID}/copy", handlers.taskHandler.copyTask())

		// Dependency endpoints
		r.Get("/dependencies", handlers.dependencyHandler.getAllDependencies())
		r.Get("/dependencies/{dependencyID}", handlers.dependencyHandler.getDependency())
		r.Post("/dependencies", handlers.dependencyHandler.createDependency())
		r.Put("/dependencies/{dependencyID}", handlers.dependencyHandler.updateDependency())
		r.Delete("/dependencies/{dependencyID}", handlers.dependencyHandler.deleteDependency())
	})

	// Authenticated, user-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/my/projects", handlers.dashboardHandler.getMyProjects())
		r.Get("/my/tasks", handlers.dashboardHandler.getMyTasks())
		r.Get("/my/summary", handlers.dashboardHandler.getSummary())
		r.Get("/my/timeline", handlers.dashboardHandler.getTimeline())
	})
}
