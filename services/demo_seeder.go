package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/gorm"
)

type demoTask struct {
	title       string
	description string
}

var demoTaskTemplates = []demoTask{
	{"Requirements analysis", "Detailed analysis of business and technical requirements"},
	{"Architecture design", "System architecture design and technology selection"},
	{"Development environment setup", "Configuration of the development environment and tooling"},
	{"Backend implementation", "Business logic and backend API development"},
	{"Frontend implementation", "User interface development and backend integration"},
	{"Unit tests", "Writing and running unit tests for key components"},
	{"Integration tests", "Testing integration between system components"},
	{"Technical documentation", "Technical and API documentation"},
	{"Code review and refactoring", "Code review and performance optimization"},
	{"Staging deployment", "Deployment to the staging environment and verification"},
}

var demoProjectNames = []string{
	"Website Redesign",
	"Mobile App MVP",
	"Data Warehouse Migration",
}

// SeedDemoData wipes projects/tasks/dependencies and recreates sample data.
// Tasks get realistic statuses, dates and progress; dependencies are created
// through the admitter so the seeded graph passes the same validation as any
// API write.
func SeedDemoData(db *gorm.DB) error {
	logger := log.With().Str("serviceName", "demoSeeder").Logger()

	if err := db.Exec("DELETE FROM dependencies").Error; err != nil {
		return fmt.Errorf("clearing dependencies: %w", err)
	}
	if err := db.Exec("DELETE FROM tasks").Error; err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	if err := db.Exec("DELETE FROM projects").Error; err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}

	assignees := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	admitter := NewDependencyAdmitter(db)

	for p, name := range demoProjectNames {
		start := models.Today().AddDays(-30 + p*10)
		end := start.AddDays(90)
		project := models.Project{
			Name:      name,
			Status:    models.ProjectActive,
			Priority:  models.PriorityMedium + p%2,
			StartDate: &start,
			EndDate:   &end,
			OwnerID:   &assignees[p%len(assignees)],
		}
		if err := db.Create(&project).Error; err != nil {
			return fmt.Errorf("creating project %q: %w", name, err)
		}

		tasks := make([]models.Task, 0, len(demoTaskTemplates))
		for i, tpl := range demoTaskTemplates {
			taskStart := start.AddDays(rand.Intn(60))
			taskEnd := taskStart.AddDays(3 + rand.Intn(11))
			status, progress := demoStatusAndProgress()

			task := models.Task{
				ProjectID:   project.ID,
				Title:       tpl.title,
				Description: tpl.description,
				Status:      status,
				Progress:    progress,
				SortIndex:   (i + 1) * 10,
				StartDate:   &taskStart,
				EndDate:     &taskEnd,
			}
			if rand.Float64() > 0.1 {
				task.AssigneeID = &assignees[rand.Intn(len(assignees))]
			}
			if err := db.Create(&task).Error; err != nil {
				return fmt.Errorf("creating task %q: %w", tpl.title, err)
			}
			tasks = append(tasks, task)
		}

		// A simple sequential chain stays acyclic by construction; the
		// admitter still checks it like any other write.
		for i := 1; i < len(tasks); i++ {
			dep := models.Dependency{
				PredecessorID: tasks[i-1].ID,
				SuccessorID:   tasks[i].ID,
				Type:          models.FinishToStart,
			}
			if err := admitter.Admit(context.Background(), &dep); err != nil {
				return fmt.Errorf("creating dependency in %q: %w", name, err)
			}
		}

		logger.Info().Str("project", name).Int("tasks", len(tasks)).Msg("seeded project")
	}

	return nil
}

func demoStatusAndProgress() (models.TaskStatus, int) {
	switch rand.Intn(10) {
	case 0, 1, 2:
		return models.TaskTodo, rand.Intn(21)
	case 3, 4, 5:
		return models.TaskInProgress, 20 + rand.Intn(51)
	case 6:
		return models.TaskReview, 70 + rand.Intn(21)
	case 7:
		return models.TaskBlocked, rand.Intn(31)
	default:
		return models.TaskDone, 90 + rand.Intn(11)
	}
}
