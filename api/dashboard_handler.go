package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/workly-hq/workly-backend/database"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"github.com/workly-hq/workly-backend/services"
)

type dashboardHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	taskRepo    *database.TaskRepo
}

func newDashboardHandler(projectRepo *database.ProjectRepo, taskRepo *database.TaskRepo) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// StatusCount is one row of the tasks-by-status breakdown.
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// DashboardSummary aggregates the authenticated user's workload.
type DashboardSummary struct {
	MyProjectsCount int           `json:"my_projects_count"`
	MyTasksCount    int           `json:"my_tasks_count"`
	MyTasksByStatus []StatusCount `json:"my_tasks_by_status"`
	NextTask        *models.Task  `json:"next_task"`
}

func (h dashboardHandler) getMyProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		projects, err := h.projectRepo.FindByOwnerOrAssignee(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

func (h dashboardHandler) getMyTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		tasks, err := h.taskRepo.FindByAssignee(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tasks", "tasks", err))
			return
		}

		out := make([]*models.Task, len(tasks))
		for i := range tasks {
			out[i] = &tasks[i]
		}
		h.responder.WriteJSON(w, TaskCollection{Tasks: out, Total: len(out)})
	}
}

func (h dashboardHandler) getSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		projects, err := h.projectRepo.FindByOwnerOrAssignee(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}
		tasks, err := h.taskRepo.FindByAssignee(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tasks", "tasks", err))
			return
		}

		counts := make(map[models.TaskStatus]int)
		var next *models.Task
		for i := range tasks {
			t := &tasks[i]
			counts[t.Status]++
			if t.StartDate == nil {
				continue
			}
			if next == nil || t.StartDate.Before(*next.StartDate) {
				next = t
			}
		}

		byStatus := make([]StatusCount, 0, len(counts))
		for _, status := range []models.TaskStatus{
			models.TaskBlocked, models.TaskDone, models.TaskInProgress, models.TaskReview, models.TaskTodo,
		} {
			if n, found := counts[status]; found {
				byStatus = append(byStatus, StatusCount{Status: status, Count: n})
			}
		}

		h.responder.WriteJSON(w, DashboardSummary{
			MyProjectsCount: len(projects),
			MyTasksCount:    len(tasks),
			MyTasksByStatus: byStatus,
			NextTask:        next,
		})
	}
}

// getTimeline projects the user's dated tasks onto a date window. Defaults:
// window starts today and spans 14 days.
func (h dashboardHandler) getTimeline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		var start *models.Date
		if v := r.URL.Query().Get("from"); v != "" {
			parsed, err := models.ParseDate(v)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("from", "must be YYYY-MM-DD"))
				return
			}
			start = &parsed
		}

		days := 0
		if v := r.URL.Query().Get("days"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("days", "must be a positive integer"))
				return
			}
			days = parsed
		}

		tasks, err := h.taskRepo.FindByAssignee(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tasks", "tasks", err))
			return
		}

		window := services.NewTimelineWindow(start, days)
		h.responder.WriteJSON(w, services.BuildTimeline(tasks, window))
	}
}

func (h dashboardHandler) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
