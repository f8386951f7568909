package services

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/workly-hq/workly-backend/models"
)

// GanttTask is the flat record the chart consumes. Null dates are kept so
// undated tasks still render in the grid.
type GanttTask struct {
	ID        uuid.UUID         `json:"id"`
	Text      string            `json:"text"`
	StartDate *models.Date      `json:"start_date"`
	EndDate   *models.Date      `json:"end_date"`
	Progress  float64           `json:"progress"`
	Parent    *uuid.UUID        `json:"parent"`
	Status    models.TaskStatus `json:"status"`
}

// GanttLink mirrors a dependency edge for the chart.
type GanttLink struct {
	ID     uuid.UUID             `json:"id"`
	Source uuid.UUID             `json:"source"`
	Target uuid.UUID             `json:"target"`
	Type   models.DependencyType `json:"type"`
	Lag    int                   `json:"lag"`
}

type GanttPayload struct {
	Data  []GanttTask `json:"data"`
	Links []GanttLink `json:"links"`
}

// BuildGanttPayload compiles a project's tasks and edges into the chart
// payload. Read-only: tasks are ordered by (sort_index, id), progress is
// normalized to [0, 1].
func BuildGanttPayload(tasks []models.Task, deps []models.Dependency) GanttPayload {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SortIndex != ordered[j].SortIndex {
			return ordered[i].SortIndex < ordered[j].SortIndex
		}
		return lessUUID(ordered[i].ID, ordered[j].ID)
	})

	data := make([]GanttTask, 0, len(ordered))
	for i := range ordered {
		data = append(data, toGanttTask(&ordered[i]))
	}

	links := make([]GanttLink, 0, len(deps))
	for i := range deps {
		d := &deps[i]
		links = append(links, GanttLink{
			ID:     d.ID,
			Source: d.PredecessorID,
			Target: d.SuccessorID,
			Type:   d.Type,
			Lag:    d.LagDays,
		})
	}

	return GanttPayload{Data: data, Links: links}
}

// TimelineWindow is the date range a timeline request covers, inclusive on
// both ends.
type TimelineWindow struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
	Days  int         `json:"days"`
}

const DefaultTimelineDays = 14

// NewTimelineWindow builds a window from optional caller inputs. Start
// defaults to today, days to DefaultTimelineDays.
func NewTimelineWindow(start *models.Date, days int) TimelineWindow {
	if days <= 0 {
		days = DefaultTimelineDays
	}
	s := models.Today()
	if start != nil {
		s = *start
	}
	return TimelineWindow{Start: s, End: s.AddDays(days), Days: days}
}

// TimelineTask is a GanttTask plus the owning project, since the timeline
// crosses projects.
type TimelineTask struct {
	GanttTask
	Project uuid.UUID `json:"project"`
}

type TimelinePayload struct {
	Window TimelineWindow `json:"window"`
	Tasks  []TimelineTask `json:"tasks"`
}

// BuildTimeline filters the given tasks to those whose [start, end] interval
// overlaps the window. Unlike the Gantt projection, tasks missing either date
// are excluded: they have no interval to place. Output is ordered by
// (start_date, sort_index, id).
func BuildTimeline(tasks []models.Task, window TimelineWindow) TimelinePayload {
	var inWindow []models.Task
	for i := range tasks {
		t := &tasks[i]
		if t.StartDate == nil || t.EndDate == nil {
			continue
		}
		if t.StartDate.After(window.End) || t.EndDate.Before(window.Start) {
			continue
		}
		inWindow = append(inWindow, *t)
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		a, b := &inWindow[i], &inWindow[j]
		if !a.StartDate.Time().Equal(b.StartDate.Time()) {
			return a.StartDate.Before(*b.StartDate)
		}
		if a.SortIndex != b.SortIndex {
			return a.SortIndex < b.SortIndex
		}
		return lessUUID(a.ID, b.ID)
	})

	out := make([]TimelineTask, 0, len(inWindow))
	for i := range inWindow {
		out = append(out, TimelineTask{
			GanttTask: toGanttTask(&inWindow[i]),
			Project:   inWindow[i].ProjectID,
		})
	}

	return TimelinePayload{Window: window, Tasks: out}
}

func toGanttTask(t *models.Task) GanttTask {
	return GanttTask{
		ID:        t.ID,
		Text:      t.Title,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		Progress:  t.ProgressFraction(),
		Parent:    t.ParentID,
		Status:    t.Status,
	}
}

func lessUUID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
