package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/gorm"
)

// Clones are appended after every pre-existing task: each one gets the
// destination project's current max sort_index plus this step.
const sortIndexStep = 10

// CopyOptions control a subtree copy. Zero values mean: same project as the
// source, no parent (the clone becomes a root), default "Copy: <title>" name,
// root only.
type CopyOptions struct {
	TargetProjectID *uuid.UUID
	TargetParentID  *uuid.UUID
	Title           string
	IncludeChildren bool
}

// TaskCopier clones a task and optionally its descendant subtree. The whole
// copy runs in one transaction: a failed step leaves no partial tree.
// Dependency edges are never cloned; execution metrics (actual_hours) reset.
type TaskCopier struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewTaskCopier(db *gorm.DB) *TaskCopier {
	return &TaskCopier{
		db:     db,
		logger: log.With().Str("serviceName", "taskCopier").Logger(),
	}
}

// Copy clones the source task per opts and returns the new root.
func (c *TaskCopier) Copy(ctx context.Context, sourceID uuid.UUID, opts CopyOptions) (*models.Task, error) {
	var root *models.Task
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.Task
		if err := tx.First(&src, "id = ?", sourceID).Error; err != nil {
			return errs.NewDatabaseError("find source", "task", err)
		}

		targetProjectID := src.ProjectID
		if opts.TargetProjectID != nil {
			targetProjectID = *opts.TargetProjectID
		}

		// Lock the destination project so concurrent copies cannot compute
		// the same sort_index.
		var project models.Project
		if err := lockProjectRow(tx).First(&project, "id = ?", targetProjectID).Error; err != nil {
			return errs.NewDatabaseError("find target", "project", err)
		}

		var parentID *uuid.UUID
		if opts.TargetParentID != nil {
			var parent models.Task
			if err := tx.First(&parent, "id = ?", *opts.TargetParentID).Error; err != nil {
				return errs.NewDatabaseError("find target parent", "task", err)
			}
			parentID = &parent.ID
		}

		clone, err := c.cloneOne(tx, &src, parentID, targetProjectID, opts.Title, true)
		if err != nil {
			return err
		}
		if opts.IncludeChildren {
			// The project override only applies to the root; descendants all
			// land in the root clone's destination project.
			if err := c.cloneChildren(tx, src.ID, clone.ID, targetProjectID); err != nil {
				return err
			}
		}
		root = clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("source", sourceID.String()).
		Str("clone", root.ID.String()).
		Bool("includeChildren", opts.IncludeChildren).
		Msg("task copied")
	return root, nil
}

func (c *TaskCopier) cloneOne(tx *gorm.DB, src *models.Task, parentID *uuid.UUID, projectID uuid.UUID, titleOverride string, isRoot bool) (*models.Task, error) {
	title := src.Title
	if isRoot {
		if titleOverride != "" {
			title = titleOverride
		} else {
			title = "Copy: " + src.Title
		}
	}

	sortIndex, err := nextSortIndex(tx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("compute sort index", "task", err)
	}

	clone := &models.Task{
		ID:             uuid.New(),
		ProjectID:      projectID,
		ParentID:       parentID,
		Title:          title,
		Description:    src.Description,
		AssigneeID:     copyUUID(src.AssigneeID),
		Status:         src.Status,
		StartDate:      copyDate(src.StartDate),
		EndDate:        copyDate(src.EndDate),
		Progress:       src.Progress,
		SortIndex:      sortIndex,
		EstimatedHours: copyFloat(src.EstimatedHours),
		ActualHours:    nil,
	}
	if err := tx.Create(clone).Error; err != nil {
		return nil, errs.NewDatabaseError("create clone", "task", err)
	}
	return clone, nil
}

func (c *TaskCopier) cloneChildren(tx *gorm.DB, srcParentID, cloneParentID uuid.UUID, projectID uuid.UUID) error {
	var children []models.Task
	if err := tx.Where("parent_id = ?", srcParentID).Order("sort_index, id").Find(&children).Error; err != nil {
		return errs.NewDatabaseError("load children", "task", err)
	}
	for i := range children {
		child := &children[i]
		childClone, err := c.cloneOne(tx, child, &cloneParentID, projectID, "", false)
		if err != nil {
			return err
		}
		if err := c.cloneChildren(tx, child.ID, childClone.ID, projectID); err != nil {
			return err
		}
	}
	return nil
}

// nextSortIndex is computed fresh for each clone so siblings and cross-level
// clones never collide.
func nextSortIndex(tx *gorm.DB, projectID uuid.UUID) (int, error) {
	var current sql.NullInt64
	err := tx.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Select("MAX(sort_index)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return int(current.Int64) + sortIndexStep, nil
}

func copyUUID(v *uuid.UUID) *uuid.UUID {
	if v == nil {
		return nil
	}
	u := *v
	return &u
}

func copyDate(v *models.Date) *models.Date {
	if v == nil {
		return nil
	}
	d := *v
	return &d
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
