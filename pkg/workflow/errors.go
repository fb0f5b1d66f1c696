package workflow

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrWorkflowSealed is returned by AddStep once execution has started.
	ErrWorkflowSealed = errors.New("workflow is sealed; steps cannot be added after execution starts")
	// ErrAlreadyExecuted is returned by Execute on a workflow that already ran.
	ErrAlreadyExecuted = errors.New("workflow has already been executed")
)

// DuplicateStepError reports an AddStep call reusing an existing step ID.
type DuplicateStepError struct {
	ID string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("step '%s' already exists", e.ID)
}

// UnknownDependencyError reports a step depending on IDs that were never added.
type UnknownDependencyError struct {
	StepID  string
	Missing []string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("step '%s' depends on unknown step(s): %s", e.StepID, strings.Join(e.Missing, ", "))
}

// CyclicDependencyError reports a dependency cycle. Cycle lists the step IDs
// on the cycle in dependency order.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}
