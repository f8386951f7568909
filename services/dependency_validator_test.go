package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
)

func makeTask(projectID uuid.UUID) *models.Task {
	return &models.Task{ID: uuid.New(), ProjectID: projectID}
}

func edge(pred, succ *models.Task, depType models.DependencyType) models.Dependency {
	return models.Dependency{
		ID:            uuid.New(),
		PredecessorID: pred.ID,
		SuccessorID:   succ.ID,
		Type:          depType,
	}
}

func TestValidateDependency(t *testing.T) {
	projectID := uuid.New()
	a := makeTask(projectID)
	b := makeTask(projectID)
	c := makeTask(projectID)

	t.Run("ValidEdge", func(t *testing.T) {
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: b, Type: models.FinishToStart,
		}, nil)
		assert.NoError(t, err)
	})

	t.Run("InvalidType", func(t *testing.T) {
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: b, Type: "XX",
		}, nil)
		assert.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidDependencyType)
	})

	t.Run("SelfDependency", func(t *testing.T) {
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: a, Type: models.FinishToStart,
		}, nil)
		assert.ErrorIs(t, err, errs.ErrSelfDependency)
	})

	t.Run("CrossProject", func(t *testing.T) {
		other := makeTask(uuid.New())
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: other, Type: models.FinishToStart,
		}, nil)
		assert.ErrorIs(t, err, errs.ErrCrossProjectDependency)
	})

	t.Run("DuplicateSameType", func(t *testing.T) {
		existing := []models.Dependency{edge(a, b, models.FinishToStart)}
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: b, Type: models.FinishToStart,
		}, existing)
		assert.ErrorIs(t, err, errs.ErrDuplicateDependency)
	})

	t.Run("SamePairDifferentTypeAllowed", func(t *testing.T) {
		existing := []models.Dependency{edge(a, b, models.FinishToStart)}
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: b, Type: models.StartToStart,
		}, existing)
		assert.NoError(t, err)
	})

	t.Run("DirectCycle", func(t *testing.T) {
		existing := []models.Dependency{edge(a, b, models.FinishToStart)}
		err := ValidateDependency(EdgeCandidate{
			Predecessor: b, Successor: a, Type: models.FinishToStart,
		}, existing)
		assert.ErrorIs(t, err, errs.ErrDependencyCycle)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("TransitiveCycle", func(t *testing.T) {
		existing := []models.Dependency{
			edge(a, b, models.FinishToStart),
			edge(b, c, models.FinishToStart),
		}
		err := ValidateDependency(EdgeCandidate{
			Predecessor: c, Successor: a, Type: models.FinishToStart,
		}, existing)
		assert.ErrorIs(t, err, errs.ErrDependencyCycle)
	})

	t.Run("CycleIsTypeIndependent", func(t *testing.T) {
		existing := []models.Dependency{
			edge(a, b, models.FinishToStart),
			edge(b, c, models.FinishToStart),
		}
		// Closing the loop with a different edge type is still a cycle.
		err := ValidateDependency(EdgeCandidate{
			Predecessor: c, Successor: a, Type: models.StartToFinish,
		}, existing)
		assert.ErrorIs(t, err, errs.ErrDependencyCycle)
	})

	t.Run("DiamondIsNotACycle", func(t *testing.T) {
		d := makeTask(projectID)
		existing := []models.Dependency{
			edge(a, b, models.FinishToStart),
			edge(a, c, models.FinishToStart),
			edge(b, d, models.FinishToStart),
		}
		err := ValidateDependency(EdgeCandidate{
			Predecessor: c, Successor: d, Type: models.FinishToStart,
		}, existing)
		assert.NoError(t, err)
	})

	t.Run("ExcludeIDSkipsOwnRow", func(t *testing.T) {
		own := edge(a, b, models.FinishToStart)
		existing := []models.Dependency{own}
		// Re-validating an update of the same edge must not see itself as a
		// duplicate.
		err := ValidateDependency(EdgeCandidate{
			Predecessor: a, Successor: b, Type: models.FinishToStart, ExcludeID: &own.ID,
		}, existing)
		assert.NoError(t, err)
	})
}

func TestValidateTaskFields(t *testing.T) {
	t.Run("ProgressOutOfRange", func(t *testing.T) {
		err := ValidateTaskFields(&models.Task{Progress: 101, Status: models.TaskTodo})
		assert.ErrorIs(t, err, errs.ErrProgressOutOfRange)

		err = ValidateTaskFields(&models.Task{Progress: -1, Status: models.TaskTodo})
		assert.ErrorIs(t, err, errs.ErrProgressOutOfRange)
	})

	t.Run("BoundsInclusive", func(t *testing.T) {
		assert.NoError(t, ValidateTaskFields(&models.Task{Progress: 0, Status: models.TaskTodo}))
		assert.NoError(t, ValidateTaskFields(&models.Task{Progress: 100, Status: models.TaskDone}))
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		err := ValidateTaskFields(&models.Task{Status: "cancelled"})
		assert.ErrorIs(t, err, errs.ErrInvalidStatus)
	})

	t.Run("NegativeSortIndex", func(t *testing.T) {
		err := ValidateTaskFields(&models.Task{Status: models.TaskTodo, SortIndex: -1})
		assert.Error(t, err)
	})
}

func TestValidateProjectFields(t *testing.T) {
	t.Run("PriorityRange", func(t *testing.T) {
		err := ValidateProjectFields(&models.Project{Status: models.ProjectActive, Priority: 0})
		assert.ErrorIs(t, err, errs.ErrInvalidPriority)

		err = ValidateProjectFields(&models.Project{Status: models.ProjectActive, Priority: 5})
		assert.ErrorIs(t, err, errs.ErrInvalidPriority)

		assert.NoError(t, ValidateProjectFields(&models.Project{Status: models.ProjectActive, Priority: models.PriorityCritical}))
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		err := ValidateProjectFields(&models.Project{Status: "paused", Priority: models.PriorityLow})
		assert.ErrorIs(t, err, errs.ErrInvalidStatus)
	})
}
