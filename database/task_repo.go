package database

import (
	"github.com/google/uuid"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/gorm"
)

type TaskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db}
}

// TaskFilter narrows FindAll. Nil fields are ignored.
type TaskFilter struct {
	ProjectID  *uuid.UUID
	Status     *models.TaskStatus
	AssigneeID *uuid.UUID
	ParentID   *uuid.UUID
}

// FindAll returns tasks matching the filter in display order.
func (r *TaskRepo) FindAll(filter TaskFilter) ([]*models.Task, error) {
	query := r.db.Order("project_id, sort_index, id")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}

	var tasks []*models.Task
	err := query.Find(&tasks).Error
	return tasks, err
}

// FindByProject returns the project's tasks ordered by (sort_index, id), the
// order the Gantt projection requires.
func (r *TaskRepo) FindByProject(projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("project_id = ?", projectID).Order("sort_index, id").Find(&tasks).Error
	return tasks, err
}

// FindByAssignee returns the user's tasks across all projects ordered by
// (start_date, sort_index, id).
func (r *TaskRepo) FindByAssignee(userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("assignee_id = ?", userID).Order("start_date, sort_index, id").Find(&tasks).Error
	return tasks, err
}

// FindByID returns a task by its ID
func (r *TaskRepo) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Add inserts a new task into the database
func (r *TaskRepo) Add(task *models.Task) error {
	return r.db.Create(task).Error
}

// Update updates an existing task in the database
func (r *TaskRepo) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task. A task that still has children or is an endpoint of
// any dependency edge is never cascaded; the delete is refused with a
// conflict naming the blocking relationship.
func (r *TaskRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var childCount int64
		if err := tx.Model(&models.Task{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
			return errs.NewDatabaseError("count children", "task", err)
		}
		if childCount > 0 {
			return errs.NewDeleteConflict("task", errs.ErrHasChildren)
		}

		var depCount int64
		if err := tx.Model(&models.Dependency{}).
			Where("predecessor_id = ? OR successor_id = ?", id, id).
			Count(&depCount).Error; err != nil {
			return errs.NewDatabaseError("count dependencies", "task", err)
		}
		if depCount > 0 {
			return errs.NewDeleteConflict("task", errs.ErrHasDependents)
		}

		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}
