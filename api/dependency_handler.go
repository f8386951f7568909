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

type dependencyHandler struct {
	responder      Responder
	logger         zerolog.Logger
	dependencyRepo *database.DependencyRepo
	admitter       *services.DependencyAdmitter
}

func newDependencyHandler(dependencyRepo *database.DependencyRepo, admitter *services.DependencyAdmitter) dependencyHandler {
	logger := log.With().Str("handlerName", "dependencyHandler").Logger()

	return dependencyHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		dependencyRepo: dependencyRepo,
		admitter:       admitter,
	}
}

// DependencyCollection represents multiple dependency edges
type DependencyCollection struct {
	Dependencies []*models.Dependency `json:"dependencies"`
	Total        int                  `json:"total,omitempty"`
}

func (h dependencyHandler) getAllDependencies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v := r.URL.Query().Get("project"); v != "" {
			projectID, err := uuid.Parse(v)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("project", "must be a UUID"))
				return
			}
			edges, err := h.dependencyRepo.FindByProject(projectID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find dependencies", "project", err))
				return
			}
			deps := make([]*models.Dependency, len(edges))
			for i := range edges {
				deps[i] = &edges[i]
			}
			h.responder.WriteJSON(w, DependencyCollection{Dependencies: deps, Total: len(deps)})
			return
		}

		deps, err := h.dependencyRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find dependencies", "dependencies", err))
			return
		}

		h.responder.WriteJSON(w, DependencyCollection{Dependencies: deps, Total: len(deps)})
	}
}

func (h dependencyHandler) getDependency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depID, ok := h.parseDependencyID(w, r)
		if !ok {
			return
		}

		dep, err := h.dependencyRepo.FindByID(depID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find dependency", "dependency", err))
			return
		}

		h.responder.WriteJSON(w, dep)
	}
}

// createDependency runs the full admission sequence: self check,
// cross-project check, uniqueness, cycle search, persist. Any rejection
// leaves the graph untouched.
func (h dependencyHandler) createDependency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		dep := models.Dependency{Type: models.FinishToStart}
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&dep); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode dependency request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if dep.PredecessorID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("predecessor"))
			return
		}
		if dep.SuccessorID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("successor"))
			return
		}

		if err := h.admitter.Admit(r.Context(), &dep); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, dep)
	}
}

// updateDependency re-validates the modified edge exactly like a create,
// except the edge's own row is excluded from the duplicate and cycle checks.
func (h dependencyHandler) updateDependency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depID, ok := h.parseDependencyID(w, r)
		if !ok {
			return
		}

		existing, err := h.dependencyRepo.FindByID(depID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find dependency", "dependency", err))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		dep := *existing
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&dep); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode dependency request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// Ensure ID matches
		dep.ID = depID

		if err := h.admitter.Readmit(r.Context(), &dep); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, dep)
	}
}

func (h dependencyHandler) deleteDependency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depID, ok := h.parseDependencyID(w, r)
		if !ok {
			return
		}

		if _, err := h.dependencyRepo.FindByID(depID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find dependency", "dependency", err))
			return
		}

		if err := h.dependencyRepo.Delete(depID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete dependency", "dependency", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "dependency deleted successfully",
		})
	}
}

func (h dependencyHandler) parseDependencyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	depIDStr := chi.URLParam(r, "dependencyID")
	if depIDStr == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing dependencyID"))
		return uuid.Nil, false
	}

	depID, err := uuid.Parse(depIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid dependencyID"))
		return uuid.Nil, false
	}
	return depID, true
}
