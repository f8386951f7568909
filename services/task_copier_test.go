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

func TestTaskCopier_SingleTask(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	project := createTestProject(t, db, "Copier Project")

	hours := 12.5
	spent := 4.0
	start := models.NewDate(2026, 2, 1)
	end := models.NewDate(2026, 2, 10)
	src := &models.Task{
		ProjectID:      project.ID,
		Title:          "Design review",
		Description:    "Review the proposal",
		Status:         models.TaskInProgress,
		Progress:       40,
		SortIndex:      10,
		StartDate:      &start,
		EndDate:        &end,
		EstimatedHours: &hours,
		ActualHours:    &spent,
	}
	require.NoError(t, db.Create(src).Error)

	clone, err := copier.Copy(context.Background(), src.ID, CopyOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, clone.ID)
	assert.Equal(t, "Copy: Design review", clone.Title)
	assert.Equal(t, src.Description, clone.Description)
	assert.Equal(t, src.Status, clone.Status)
	assert.Equal(t, src.Progress, clone.Progress)
	assert.Equal(t, src.ProjectID, clone.ProjectID)
	assert.Nil(t, clone.ParentID)
	require.NotNil(t, clone.EstimatedHours)
	assert.Equal(t, hours, *clone.EstimatedHours)
	// Execution metrics never carry over to a copy.
	assert.Nil(t, clone.ActualHours)
	assert.Equal(t, src.SortIndex+sortIndexStep, clone.SortIndex)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestTaskCopier_TitleOverride(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	project := createTestProject(t, db, "Override Project")
	src := createTestTask(t, db, project.ID, "Original", 10)

	clone, err := copier.Copy(context.Background(), src.ID, CopyOptions{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", clone.Title)
}

func TestTaskCopier_Subtree(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	project := createTestProject(t, db, "Subtree Project")

	root := createTestTask(t, db, project.ID, "Root", 10)
	childB := &models.Task{ProjectID: project.ID, ParentID: &root.ID, Title: "B", SortIndex: 20}
	childC := &models.Task{ProjectID: project.ID, ParentID: &root.ID, Title: "C", SortIndex: 30}
	require.NoError(t, db.Create(childB).Error)
	require.NoError(t, db.Create(childC).Error)
	grandchild := &models.Task{ProjectID: project.ID, ParentID: &childB.ID, Title: "B1", SortIndex: 40}
	require.NoError(t, db.Create(grandchild).Error)

	clone, err := copier.Copy(context.Background(), root.ID, CopyOptions{IncludeChildren: true})
	require.NoError(t, err)

	var all []models.Task
	require.NoError(t, db.Order("sort_index").Find(&all).Error)
	assert.Len(t, all, 8)

	var cloneChildren []models.Task
	require.NoError(t, db.Where("parent_id = ?", clone.ID).Order("sort_index").Find(&cloneChildren).Error)
	require.Len(t, cloneChildren, 2)
	// Children keep their original titles and source order.
	assert.Equal(t, "B", cloneChildren[0].Title)
	assert.Equal(t, "C", cloneChildren[1].Title)

	var cloneGrandchildren []models.Task
	require.NoError(t, db.Where("parent_id = ?", cloneChildren[0].ID).Find(&cloneGrandchildren).Error)
	require.Len(t, cloneGrandchildren, 1)
	assert.Equal(t, "B1", cloneGrandchildren[0].Title)

	// No clone reuses a pre-existing sort_index.
	seen := make(map[int]int)
	for _, task := range all {
		seen[task.SortIndex]++
	}
	for sortIndex, n := range seen {
		assert.Equal(t, 1, n, "sort_index %d assigned more than once", sortIndex)
	}
}

func TestTaskCopier_ChildrenSkippedByDefault(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	project := createTestProject(t, db, "Root Only Project")

	root := createTestTask(t, db, project.ID, "Root", 10)
	child := &models.Task{ProjectID: project.ID, ParentID: &root.ID, Title: "Child", SortIndex: 20}
	require.NoError(t, db.Create(child).Error)

	_, err := copier.Copy(context.Background(), root.ID, CopyOptions{IncludeChildren: false})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestTaskCopier_TargetProject(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	source := createTestProject(t, db, "Source Project")
	target := createTestProject(t, db, "Target Project")

	root := createTestTask(t, db, source.ID, "Root", 50)
	child := &models.Task{ProjectID: source.ID, ParentID: &root.ID, Title: "Child", SortIndex: 60}
	require.NoError(t, db.Create(child).Error)
	// Pre-existing task in the target project sets the sort_index floor there.
	createTestTask(t, db, target.ID, "Existing", 100)

	clone, err := copier.Copy(context.Background(), root.ID, CopyOptions{
		TargetProjectID: &target.ID,
		IncludeChildren: true,
	})
	require.NoError(t, err)

	// Descendants land in the root clone's destination project.
	var targetTasks []models.Task
	require.NoError(t, db.Where("project_id = ?", target.ID).Find(&targetTasks).Error)
	assert.Len(t, targetTasks, 3)

	assert.Equal(t, target.ID, clone.ProjectID)
	assert.Greater(t, clone.SortIndex, 100)
}

func TestTaskCopier_TargetParent(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	project := createTestProject(t, db, "Parent Project")

	src := createTestTask(t, db, project.ID, "Src", 10)
	parent := createTestTask(t, db, project.ID, "New Parent", 20)

	clone, err := copier.Copy(context.Background(), src.ID, CopyOptions{TargetParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, clone.ParentID)
	assert.Equal(t, parent.ID, *clone.ParentID)
}

func TestTaskCopier_NotFound(t *testing.T) {
	db := newTestDB(t)
	copier := NewTaskCopier(db)
	project := createTestProject(t, db, "NF Project")
	src := createTestTask(t, db, project.ID, "Src", 10)

	t.Run("MissingSource", func(t *testing.T) {
		_, err := copier.Copy(context.Background(), uuid.New(), CopyOptions{})
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("MissingTargetProject", func(t *testing.T) {
		missing := uuid.New()
		_, err := copier.Copy(context.Background(), src.ID, CopyOptions{TargetProjectID: &missing})
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("MissingTargetParent", func(t *testing.T) {
		missing := uuid.New()
		_, err := copier.Copy(context.Background(), src.ID, CopyOptions{TargetParentID: &missing})
		assert.True(t, errs.IsNotFound(err))

		// A failed copy leaves no partial tree behind.
		var count int64
		require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}
