package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/workly-hq/workly-backend/errs"
	"github.com/workly-hq/workly-backend/models"
)

// EdgeCandidate is a proposed dependency edge between two loaded tasks.
type EdgeCandidate struct {
	Predecessor *models.Task
	Successor   *models.Task
	Type        models.DependencyType
	LagDays     int

	// ExcludeID, when non-nil, skips that existing edge during the duplicate
	// and cycle checks. Used when re-validating an update of the edge itself.
	ExcludeID *uuid.UUID
}

// ValidateDependency decides whether the candidate edge may be admitted given
// the project's existing edges. It is a pure function: callers load the
// project's edge set, validate, then persist in the same transaction.
//
// Checks, in order: type validity, self-reference, cross-project, duplicate
// (predecessor, successor, type), cycle. The first failure wins.
func ValidateDependency(c EdgeCandidate, existing []models.Dependency) error {
	if !c.Type.IsValid() {
		return errs.NewValidationError(errs.ErrInvalidDependencyType, fmt.Sprintf("got %q", c.Type))
	}
	if c.Predecessor == nil || c.Successor == nil {
		return errs.NewNotFound("task")
	}
	if c.Predecessor.ID == c.Successor.ID {
		return errs.NewValidationError(errs.ErrSelfDependency,
			fmt.Sprintf("task %s", c.Predecessor.ID))
	}
	if c.Predecessor.ProjectID != c.Successor.ProjectID {
		return errs.NewValidationError(errs.ErrCrossProjectDependency,
			fmt.Sprintf("predecessor belongs to project %s, successor to %s",
				c.Predecessor.ProjectID, c.Successor.ProjectID))
	}

	for i := range existing {
		e := &existing[i]
		if c.ExcludeID != nil && e.ID == *c.ExcludeID {
			continue
		}
		if e.PredecessorID == c.Predecessor.ID && e.SuccessorID == c.Successor.ID && e.Type == c.Type {
			return errs.NewValidationError(errs.ErrDuplicateDependency,
				fmt.Sprintf("%s -> %s (%s)", e.PredecessorID, e.SuccessorID, e.Type))
		}
	}

	if createsCycle(c, existing) {
		return errs.NewValidationError(errs.ErrDependencyCycle,
			fmt.Sprintf("a path already leads from %s back to %s", c.Successor.ID, c.Predecessor.ID))
	}
	return nil
}

// createsCycle reports whether adding predecessor->successor would close a
// cycle, i.e. whether the predecessor is already reachable from the successor
// over the existing edges. Edge types are irrelevant to cycle-ness. Iterative
// DFS, O(nodes+edges) on the project subgraph.
func createsCycle(c EdgeCandidate, existing []models.Dependency) bool {
	adjacency := make(map[uuid.UUID][]uuid.UUID, len(existing))
	for i := range existing {
		e := &existing[i]
		if c.ExcludeID != nil && e.ID == *c.ExcludeID {
			continue
		}
		adjacency[e.PredecessorID] = append(adjacency[e.PredecessorID], e.SuccessorID)
	}

	target := c.Predecessor.ID
	visited := map[uuid.UUID]bool{c.Successor.ID: true}
	stack := []uuid.UUID{c.Successor.ID}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == target {
			return true
		}
		for _, next := range adjacency[node] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// ValidateTaskFields checks the write-time field invariants common to task
// create and update.
func ValidateTaskFields(t *models.Task) error {
	if t.Progress < 0 || t.Progress > 100 {
		return errs.NewValidationError(errs.ErrProgressOutOfRange, fmt.Sprintf("got %d", t.Progress))
	}
	if t.Status != "" && !t.Status.IsValid() {
		return errs.NewValidationError(errs.ErrInvalidStatus, fmt.Sprintf("got %q", t.Status))
	}
	if t.SortIndex < 0 {
		return errs.NewInvalidFieldError("sort_index", "must be non-negative")
	}
	return nil
}

// ValidateProjectFields checks the write-time field invariants for projects.
func ValidateProjectFields(p *models.Project) error {
	if p.Status != "" && !p.Status.IsValid() {
		return errs.NewValidationError(errs.ErrInvalidStatus, fmt.Sprintf("got %q", p.Status))
	}
	if p.Priority < models.PriorityLow || p.Priority > models.PriorityCritical {
		return errs.NewValidationError(errs.ErrInvalidPriority, fmt.Sprintf("got %d", p.Priority))
	}
	return nil
}
