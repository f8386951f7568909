package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
)

func TestDependencyAdmitter_Admit(t *testing.T) {
	db := newTestDB(t)
	admitter := NewDependencyAdmitter(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Admitter Project")

	a := createTestTask(t, db, project.ID, "A", 10)
	b := createTestTask(t, db, project.ID, "B", 20)
	c := createTestTask(t, db, project.ID, "C", 30)

	t.Run("ValidEdgePersists", func(t *testing.T) {
		dep := &models.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Type: models.FinishToStart}
		require.NoError(t, admitter.Admit(ctx, dep))

		var stored models.Dependency
		require.NoError(t, db.First(&stored, "id = ?", dep.ID).Error)
		assert.Equal(t, a.ID, stored.PredecessorID)
		assert.Equal(t, b.ID, stored.SuccessorID)
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		dep := &models.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Type: models.FinishToStart}
		err := admitter.Admit(ctx, dep)
		require.Error(t, err)
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("CycleRejected", func(t *testing.T) {
		require.NoError(t, admitter.Admit(ctx, &models.Dependency{
			PredecessorID: b.ID, SuccessorID: c.ID, Type: models.FinishToStart,
		}))

		closing := &models.Dependency{PredecessorID: c.ID, SuccessorID: a.ID, Type: models.FinishToStart}
		err := admitter.Admit(ctx, closing)
		require.Error(t, err)
		assert.True(t, errs.IsDependencyCycle(err))
		assert.Contains(t, err.Error(), "cycle")

		// The rejected edge never hits the table.
		var count int64
		require.NoError(t, db.Model(&models.Dependency{}).
			Where("predecessor_id = ?", c.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("MissingEndpoint", func(t *testing.T) {
		dep := &models.Dependency{PredecessorID: uuid.New(), SuccessorID: b.ID, Type: models.FinishToStart}
		err := admitter.Admit(ctx, dep)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestDependencyAdmitter_CrossProject(t *testing.T) {
	db := newTestDB(t)
	admitter := NewDependencyAdmitter(db)
	ctx := context.Background()

	projectA := createTestProject(t, db, "Project A")
	projectB := createTestProject(t, db, "Project B")
	a := createTestTask(t, db, projectA.ID, "A", 10)
	b := createTestTask(t, db, projectB.ID, "B", 10)

	err := admitter.Admit(ctx, &models.Dependency{
		PredecessorID: a.ID, SuccessorID: b.ID, Type: models.FinishToStart,
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))
}

func TestDependencyAdmitter_Readmit(t *testing.T) {
	db := newTestDB(t)
	admitter := NewDependencyAdmitter(db)
	ctx := context.Background()
	project := createTestProject(t, db, "Readmit Project")

	a := createTestTask(t, db, project.ID, "A", 10)
	b := createTestTask(t, db, project.ID, "B", 20)
	c := createTestTask(t, db, project.ID, "C", 30)

	dep := &models.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Type: models.FinishToStart}
	require.NoError(t, admitter.Admit(ctx, dep))

	t.Run("LagChangeKeepsEdge", func(t *testing.T) {
		dep.LagDays = 3
		require.NoError(t, admitter.Readmit(ctx, dep))

		var stored models.Dependency
		require.NoError(t, db.First(&stored, "id = ?", dep.ID).Error)
		assert.Equal(t, 3, stored.LagDays)
	})

	t.Run("RetargetCannotCloseCycle", func(t *testing.T) {
		require.NoError(t, admitter.Admit(ctx, &models.Dependency{
			PredecessorID: b.ID, SuccessorID: c.ID, Type: models.FinishToStart,
		}))

		// Flipping a->b into c->a would close a ring through the other edge.
		dep.PredecessorID = c.ID
		dep.SuccessorID = a.ID
		err := admitter.Readmit(ctx, dep)
		require.Error(t, err)
		assert.True(t, errs.IsDependencyCycle(err))
	})

	t.Run("RetargetToFreeSlot", func(t *testing.T) {
		dep.PredecessorID = a.ID
		dep.SuccessorID = c.ID
		require.NoError(t, admitter.Readmit(ctx, dep))

		var stored models.Dependency
		require.NoError(t, db.First(&stored, "id = ?", dep.ID).Error)
		assert.Equal(t, c.ID, stored.SuccessorID)
	})
}
