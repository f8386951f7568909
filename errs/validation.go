package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Graph-integrity validation errors. Each is machine-distinguishable via
// errors.Is and is reported before anything is persisted.
var (
	ErrSelfDependency         = errors.New("a task cannot depend on itself")
	ErrCrossProjectDependency = errors.New("dependency endpoints must belong to the same project")
	ErrDuplicateDependency    = errors.New("dependency of this type already exists between these tasks")
	ErrDependencyCycle        = errors.New("dependency would create a cycle")
	ErrProgressOutOfRange     = errors.New("progress must be between 0 and 100")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidPriority        = errors.New("priority must be between 1 and 4")
	ErrInvalidDependencyType  = errors.New("dependency type must be one of FS, SS, FF, SF")
)

// Delete-conflict reasons. The referencing relationship is never removed
// implicitly; the caller must resolve it first.
var (
	ErrHasTasks      = errors.New("has tasks")
	ErrHasChildren   = errors.New("has children")
	ErrHasDependents = errors.New("has dependents")
)

func NewValidationError(sentinel error, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        sentinel,
		Details:    details,
	}
}

func NewDeleteConflict(entity string, reason error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        reason,
		Details:    fmt.Sprintf("cannot delete %s: %s", entity, reason.Error()),
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrSelfDependency) ||
		errors.Is(err, ErrCrossProjectDependency) ||
		errors.Is(err, ErrDuplicateDependency) ||
		errors.Is(err, ErrDependencyCycle) ||
		errors.Is(err, ErrProgressOutOfRange) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrInvalidDependencyType)
}

func IsDependencyCycle(err error) bool {
	return errors.Is(err, ErrDependencyCycle)
}
