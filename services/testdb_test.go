package services

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "workly_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Task{}, &models.Dependency{}))
	return db
}

func createTestProject(t *testing.T, db *gorm.DB, name string) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:     name,
		Status:   models.ProjectActive,
		Priority: models.PriorityMedium,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTestTask(t *testing.T, db *gorm.DB, projectID uuid.UUID, title string, sortIndex int) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID: projectID,
		Title:     title,
		Status:    models.TaskTodo,
		SortIndex: sortIndex,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
