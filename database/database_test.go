package database

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "workly_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Task{}, &models.Dependency{}))
	return New(db)
}

func seedProject(t *testing.T, d Database, name string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, Status: models.ProjectActive}
	require.NoError(t, d.ProjectRepo().Add(project))
	return project
}

func seedTask(t *testing.T, d Database, projectID uuid.UUID, title string, sortIndex int) *models.Task {
	t.Helper()
	task := &models.Task{ProjectID: projectID, Title: title, SortIndex: sortIndex}
	require.NoError(t, d.TaskRepo().Add(task))
	return task
}

func TestProjectRepo_Delete(t *testing.T) {
	d := newTestDatabase(t)
	project := seedProject(t, d, "Doomed Project")
	task := seedTask(t, d, project.ID, "Blocker", 10)

	t.Run("RefusedWhileTasksRemain", func(t *testing.T) {
		err := d.ProjectRepo().Delete(project.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrHasTasks)

		var apiErr *errs.ApiErr
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

		// The refused delete leaves the row intact.
		_, err = d.ProjectRepo().FindByID(project.ID)
		require.NoError(t, err)
	})

	t.Run("SucceedsOnceEmpty", func(t *testing.T) {
		require.NoError(t, d.TaskRepo().Delete(task.ID))
		require.NoError(t, d.ProjectRepo().Delete(project.ID))

		_, err := d.ProjectRepo().FindByID(project.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestTaskRepo_DeleteGuards(t *testing.T) {
	d := newTestDatabase(t)
	project := seedProject(t, d, "Guarded Project")

	parent := seedTask(t, d, project.ID, "Parent", 10)
	child := &models.Task{ProjectID: project.ID, ParentID: &parent.ID, Title: "Child", SortIndex: 20}
	require.NoError(t, d.TaskRepo().Add(child))

	t.Run("RefusedWhileChildrenRemain", func(t *testing.T) {
		err := d.TaskRepo().Delete(parent.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrHasChildren)
	})

	t.Run("RefusedWhileEdgesRemain", func(t *testing.T) {
		other := seedTask(t, d, project.ID, "Other", 30)
		dep := &models.Dependency{PredecessorID: child.ID, SuccessorID: other.ID, Type: models.FinishToStart}
		require.NoError(t, d.DB().Create(dep).Error)

		errPred := d.TaskRepo().Delete(child.ID)
		assert.ErrorIs(t, errPred, errs.ErrHasDependents)
		errSucc := d.TaskRepo().Delete(other.ID)
		assert.ErrorIs(t, errSucc, errs.ErrHasDependents)

		require.NoError(t, d.DependencyRepo().Delete(dep.ID))
		require.NoError(t, d.TaskRepo().Delete(other.ID))
	})

	t.Run("SucceedsLeafFirst", func(t *testing.T) {
		require.NoError(t, d.TaskRepo().Delete(child.ID))
		require.NoError(t, d.TaskRepo().Delete(parent.ID))
	})
}

func TestTaskRepo_FindAllFilter(t *testing.T) {
	d := newTestDatabase(t)
	projectA := seedProject(t, d, "Filter A")
	projectB := seedProject(t, d, "Filter B")

	t1 := seedTask(t, d, projectA.ID, "First", 20)
	t2 := seedTask(t, d, projectA.ID, "Second", 10)
	seedTask(t, d, projectB.ID, "Elsewhere", 10)

	done := models.TaskDone
	t1.Status = done
	require.NoError(t, d.TaskRepo().Update(t1))

	t.Run("ByProjectOrderedBySortIndex", func(t *testing.T) {
		tasks, err := d.TaskRepo().FindAll(TaskFilter{ProjectID: &projectA.ID})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, t2.ID, tasks[0].ID)
		assert.Equal(t, t1.ID, tasks[1].ID)
	})

	t.Run("ByStatus", func(t *testing.T) {
		tasks, err := d.TaskRepo().FindAll(TaskFilter{ProjectID: &projectA.ID, Status: &done})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, t1.ID, tasks[0].ID)
	})

	t.Run("Unfiltered", func(t *testing.T) {
		tasks, err := d.TaskRepo().FindAll(TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})
}

func TestDependencyRepo_FindByProject(t *testing.T) {
	d := newTestDatabase(t)
	projectA := seedProject(t, d, "Edges A")
	projectB := seedProject(t, d, "Edges B")

	a1 := seedTask(t, d, projectA.ID, "A1", 10)
	a2 := seedTask(t, d, projectA.ID, "A2", 20)
	b1 := seedTask(t, d, projectB.ID, "B1", 10)
	b2 := seedTask(t, d, projectB.ID, "B2", 20)

	inA := &models.Dependency{PredecessorID: a1.ID, SuccessorID: a2.ID, Type: models.FinishToStart}
	inB := &models.Dependency{PredecessorID: b1.ID, SuccessorID: b2.ID, Type: models.StartToStart}
	require.NoError(t, d.DB().Create(inA).Error)
	require.NoError(t, d.DB().Create(inB).Error)

	edges, err := d.DependencyRepo().FindByProject(projectA.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, inA.ID, edges[0].ID)
}

func TestProjectRepo_FindByOwnerOrAssignee(t *testing.T) {
	d := newTestDatabase(t)
	user := uuid.New()

	owned := &models.Project{Name: "Owned", Status: models.ProjectActive, OwnerID: &user}
	require.NoError(t, d.ProjectRepo().Add(owned))
	assigned := seedProject(t, d, "Assigned Into")
	seedProject(t, d, "Unrelated")

	task := &models.Task{ProjectID: assigned.ID, Title: "Mine", AssigneeID: &user, SortIndex: 10}
	require.NoError(t, d.TaskRepo().Add(task))

	projects, err := d.ProjectRepo().FindByOwnerOrAssignee(user)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	names := []string{projects[0].Name, projects[1].Name}
	assert.ElementsMatch(t, []string{"Owned", "Assigned Into"}, names)
}
