package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/workly-hq/workly-backend/database"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
	"github.com/workly-hq/workly-backend/services"
)

type taskHandler struct {
	responder Responder
	logger    zerolog.Logger
	taskRepo  *database.TaskRepo
	copier    *services.TaskCopier
}

func newTaskHandler(taskRepo *database.TaskRepo, copier *services.TaskCopier) taskHandler {
	logger := log.With().Str("handlerName", "taskHandler").Logger()

	return taskHandler{
		responder: NewResponder(logger),
		logger:    logger,
		taskRepo:  taskRepo,
		copier:    copier,
	}
}

// TaskCollection represents multiple tasks
type TaskCollection struct {
	Tasks []*models.Task `json:"tasks"`
	Total int            `json:"total,omitempty"`
}

// copyTaskRequest mirrors the copy endpoint's body: all fields optional.
type copyTaskRequest struct {
	Project         *uuid.UUID `json:"project"`
	Parent          *uuid.UUID `json:"parent"`
	Title           string     `json:"title"`
	IncludeChildren bool       `json:"include_children"`
}

func (h taskHandler) getAllTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := taskFilterFromQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tasks, err := h.taskRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tasks", "tasks", err))
			return
		}

		h.responder.WriteJSON(w, TaskCollection{Tasks: tasks, Total: len(tasks)})
	}
}

func (h taskHandler) getTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := h.parseTaskID(w, r)
		if !ok {
			return
		}

		task, err := h.taskRepo.FindByID(taskID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find task", "task", err))
			return
		}

		h.responder.WriteJSON(w, task)
	}
}

func (h taskHandler) createTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		task := models.Task{Status: models.TaskTodo}
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&task); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode task request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if task.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if task.ProjectID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("project"))
			return
		}
		if err := services.ValidateTaskFields(&task); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.taskRepo.Add(&task); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create task", "task", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, task)
	}
}

func (h taskHandler) updateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := h.parseTaskID(w, r)
		if !ok {
			return
		}

		existing, err := h.taskRepo.FindByID(taskID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find task", "task", err))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		task := *existing
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&task); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode task request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// Ensure ID matches; the owning project never changes on update
		task.ID = taskID
		task.ProjectID = existing.ProjectID

		if err := services.ValidateTaskFields(&task); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.taskRepo.Update(&task); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update task", "task", err))
			return
		}

		h.responder.WriteJSON(w, task)
	}
}

func (h taskHandler) deleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := h.parseTaskID(w, r)
		if !ok {
			return
		}

		if _, err := h.taskRepo.FindByID(taskID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find task", "task", err))
			return
		}

		if err := h.taskRepo.Delete(taskID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "task deleted successfully",
		})
	}
}

// copyTask clones the task (optionally with its whole subtree) into a target
// project/parent and returns the new root.
func (h taskHandler) copyTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := h.parseTaskID(w, r)
		if !ok {
			return
		}

		var req copyTaskRequest
		if r.Body != nil {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
				return
			}
			if len(bodyBytes) > 0 {
				if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
					h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode copy request body")
					h.responder.WriteError(w, errs.NewInvalidJSONError(err))
					return
				}
			}
		}

		clone, err := h.copier.Copy(r.Context(), taskID, services.CopyOptions{
			TargetProjectID: req.Project,
			TargetParentID:  req.Parent,
			Title:           req.Title,
			IncludeChildren: req.IncludeChildren,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, clone)
	}
}

func (h taskHandler) parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskIDStr := chi.URLParam(r, "taskID")
	if taskIDStr == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing taskID"))
		return uuid.Nil, false
	}

	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid taskID"))
		return uuid.Nil, false
	}
	return taskID, true
}

func taskFilterFromQuery(r *http.Request) (database.TaskFilter, error) {
	var filter database.TaskFilter

	if v := r.URL.Query().Get("project"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errs.NewInvalidFieldError("project", "must be a UUID")
		}
		filter.ProjectID = &id
	}
	if v := r.URL.Query().Get("assignee"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errs.NewInvalidFieldError("assignee", "must be a UUID")
		}
		filter.AssigneeID = &id
	}
	if v := r.URL.Query().Get("parent"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errs.NewInvalidFieldError("parent", "must be a UUID")
		}
		filter.ParentID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := models.TaskStatus(v)
		if !status.IsValid() {
			return filter, errs.NewInvalidFieldError("status", "unknown status")
		}
		filter.Status = &status
	}

	return filter, nil
}
