package database

import (
	"github.com/google/uuid"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, newest first.
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByOwnerOrAssignee returns projects the user owns or has a task in.
func (r *ProjectRepo) FindByOwnerOrAssignee(userID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.
		Distinct("projects.*").
		Joins("LEFT JOIN tasks ON tasks.project_id = projects.id").
		Where("projects.owner_id = ? OR tasks.assignee_id = ?", userID, userID).
		Order("projects.updated_at DESC, projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project. A project that still owns tasks is never
// cascaded; the delete is refused with a conflict.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskCount int64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Count(&taskCount).Error; err != nil {
			return errs.NewDatabaseError("count tasks", "project", err)
		}
		if taskCount > 0 {
			return errs.NewDeleteConflict("project", errs.ErrHasTasks)
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}
