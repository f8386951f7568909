package api

import (
	"github.com/workly-hq/workly-backend/database"
	"github.com/workly-hq/workly-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database) *routeHandlers {
	admitter := services.NewDependencyAdmitter(database.DB())
	copier := services.NewTaskCopier(database.DB())

	return &routeHandlers{
		projectHandler:    newProjectHandler(database.ProjectRepo(), database.TaskRepo(), database.DependencyRepo()),
		taskHandler:       newTaskHandler(database.TaskRepo(), copier),
		dependencyHandler: newDependencyHandler(database.DependencyRepo(), admitter),
		dashboardHandler:  newDashboardHandler(database.ProjectRepo(), database.TaskRepo()),
	}
}
