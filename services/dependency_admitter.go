package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/gorm"
)

// DependencyAdmitter runs the full edge-admission sequence (self check,
// cross-project check, uniqueness, cycle search, persist) as one atomic,
// project-scoped critical section. Two concurrent candidates that would
// jointly close a cycle cannot both pass: the second waits on the project
// row lock and re-reads the committed edge set.
type DependencyAdmitter struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewDependencyAdmitter(db *gorm.DB) *DependencyAdmitter {
	return &DependencyAdmitter{
		db:     db,
		logger: log.With().Str("serviceName", "dependencyAdmitter").Logger(),
	}
}

// Admit validates and persists a new edge.
func (a *DependencyAdmitter) Admit(ctx context.Context, dep *models.Dependency) error {
	return a.admit(ctx, dep, nil)
}

// Readmit re-validates an existing edge after modification, ignoring the
// edge's own stored row during the duplicate and cycle checks, then saves it.
func (a *DependencyAdmitter) Readmit(ctx context.Context, dep *models.Dependency) error {
	return a.admit(ctx, dep, &dep.ID)
}

func (a *DependencyAdmitter) admit(ctx context.Context, dep *models.Dependency, excludeID *uuid.UUID) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pred, succ models.Task
		if err := tx.First(&pred, "id = ?", dep.PredecessorID).Error; err != nil {
			return errs.NewDatabaseError("find predecessor", "task", err)
		}
		if err := tx.First(&succ, "id = ?", dep.SuccessorID).Error; err != nil {
			return errs.NewDatabaseError("find successor", "task", err)
		}

		// Serialize admissions per project before reading the edge set.
		var project models.Project
		if err := lockProjectRow(tx).First(&project, "id = ?", pred.ProjectID).Error; err != nil {
			return errs.NewDatabaseError("find project", "project", err)
		}

		existing, err := projectEdges(tx, pred.ProjectID)
		if err != nil {
			return errs.NewDatabaseError("load dependencies", "project", err)
		}

		candidate := EdgeCandidate{
			Predecessor: &pred,
			Successor:   &succ,
			Type:        dep.Type,
			LagDays:     dep.LagDays,
			ExcludeID:   excludeID,
		}
		if err := ValidateDependency(candidate, existing); err != nil {
			a.logger.Debug().
				Str("predecessor", dep.PredecessorID.String()).
				Str("successor", dep.SuccessorID.String()).
				Err(err).
				Msg("dependency rejected")
			return err
		}

		if excludeID != nil {
			if err := tx.Save(dep).Error; err != nil {
				return errs.NewDatabaseError("update dependency", "dependency", err)
			}
			return nil
		}
		if err := tx.Create(dep).Error; err != nil {
			return errs.NewDatabaseError("create dependency", "dependency", err)
		}
		return nil
	})
}

// projectEdges loads every edge whose endpoints lie in the project. Both ends
// always share a project once admitted, so filtering on the successor side is
// sufficient and keeps the query proportional to the project subgraph.
func projectEdges(tx *gorm.DB, projectID uuid.UUID) ([]models.Dependency, error) {
	var edges []models.Dependency
	err := tx.
		Joins("JOIN tasks ON tasks.id = dependencies.successor_id").
		Where("tasks.project_id = ?", projectID).
		Find(&edges).Error
	return edges, err
}
