package database

import (
	"github.com/google/uuid"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/gorm"
)

type DependencyRepo struct {
	db *gorm.DB
}

func NewDependencyRepo(db *gorm.DB) *DependencyRepo {
	return &DependencyRepo{db}
}

// FindAll returns every dependency edge.
func (r *DependencyRepo) FindAll() ([]*models.Dependency, error) {
	var deps []*models.Dependency
	err := r.db.Order("created_at").Find(&deps).Error
	return deps, err
}

// FindByProject returns the edges whose successor belongs to the project.
// Admission guarantees both endpoints share a project, so this is the whole
// project subgraph.
func (r *DependencyRepo) FindByProject(projectID uuid.UUID) ([]models.Dependency, error) {
	var deps []models.Dependency
	err := r.db.
		Joins("JOIN tasks ON tasks.id = dependencies.successor_id").
		Where("tasks.project_id = ?", projectID).
		Find(&deps).Error
	return deps, err
}

// FindByID returns a dependency by its ID
func (r *DependencyRepo) FindByID(id uuid.UUID) (*models.Dependency, error) {
	var dep models.Dependency
	err := r.db.First(&dep, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

// Delete removes a dependency edge. Never touches the endpoint tasks.
func (r *DependencyRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Dependency{}, "id = ?", id).Error
}
