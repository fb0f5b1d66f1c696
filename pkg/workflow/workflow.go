package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type StepStatus string

const (
	PendingStepStatus   StepStatus = "PENDING"
	ReadyStepStatus     StepStatus = "READY"
	RunningStepStatus   StepStatus = "RUNNING"
	CompletedStepStatus StepStatus = "COMPLETED"
	SkippedStepStatus   StepStatus = "SKIPPED"
	FailedStepStatus    StepStatus = "FAILED"
)

// Logger defines the logging interface for the engine
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Action performs the work of a single step. It receives the workflow context
// holding the results of every completed step it can reach.
type Action func(ctx context.Context, wc Context) (Result, error)

// Step is a unit of work within a workflow.
type Step struct {
	ID           string     `json:"id"`
	Title        string     `json:"title,omitempty"`
	Action       Action     `json:"-"`
	Dependencies []string   `json:"dependencies"`
	Status       StepStatus `json:"status"`
	Result       Result     `json:"result,omitempty"`
	ErrMsg       string     `json:"error,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// StepOption configures a step at registration time.
type StepOption func(*Step)

// WithTitle sets a human-readable title for a step.
func WithTitle(title string) StepOption {
	return func(s *Step) { s.Title = title }
}

// Workflow is a set of steps connected by dependencies, executed one step at
// a time in topological order. A workflow runs once; after Execute starts it
// rejects further AddStep calls.
type Workflow struct {
	name     string
	steps    []*Step
	index    map[string]*Step
	order    []string
	executed bool
	logger   Logger
	mu       sync.Mutex
}

// Option configures a workflow at construction time.
type Option func(*Workflow)

// WithLogger attaches a logger for step transition logging.
func WithLogger(l Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

func New(name string, opts ...Option) *Workflow {
	if name == "" {
		name = "workflow"
	}
	w := &Workflow{
		name:  name,
		index: make(map[string]*Step),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) Name() string {
	return w.name
}

// Steps returns a snapshot of all steps in insertion order.
func (w *Workflow) Steps() []Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Step, 0, len(w.steps))
	for _, s := range w.steps {
		out = append(out, *s)
	}
	return out
}

// AddStep registers a step. Dependencies name steps the new step needs the
// results of; they are validated when the order is resolved, not here, so
// steps can be added in any order.
func (w *Workflow) AddStep(id string, action Action, deps []string, opts ...StepOption) error {
	if id == "" {
		return errors.New("empty step id")
	}
	if action == nil {
		return fmt.Errorf("nil action for step '%s'", id)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.executed {
		return ErrWorkflowSealed
	}
	if _, ok := w.index[id]; ok {
		return &DuplicateStepError{ID: id}
	}

	step := &Step{
		ID:           id,
		Action:       action,
		Dependencies: dedupe(deps),
		Status:       PendingStepStatus,
	}
	for _, opt := range opts {
		opt(step)
	}
	w.steps = append(w.steps, step)
	w.index[id] = step
	w.order = nil
	return nil
}

func dedupe(deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(deps))
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// ResolveOrder computes the execution order of all steps. Every dependency
// precedes its dependents; when several steps are ready at once the one added
// first goes first, so the order is deterministic. The result is cached until
// the step set changes.
func (w *Workflow) ResolveOrder() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolveLocked()
}

func (w *Workflow) resolveLocked() ([]string, error) {
	if w.order != nil {
		return append([]string(nil), w.order...), nil
	}

	for _, s := range w.steps {
		var missing []string
		for _, dep := range s.Dependencies {
			if _, ok := w.index[dep]; !ok {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			return nil, &UnknownDependencyError{StepID: s.ID, Missing: missing}
		}
	}

	inDegree := make(map[string]int, len(w.steps))
	dependents := make(map[string][]string, len(w.steps))
	for _, s := range w.steps {
		inDegree[s.ID] = len(s.Dependencies)
		for _, dep := range s.Dependencies {
			dependents[dep] = append(dependents[dep], s.ID)
		}
	}

	order := make([]string, 0, len(w.steps))
	placed := make(map[string]bool, len(w.steps))
	for len(order) < len(w.steps) {
		// pick the earliest-inserted step among the ready ones
		next := -1
		for i, s := range w.steps {
			if !placed[s.ID] && inDegree[s.ID] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			return nil, &CyclicDependencyError{Cycle: w.findCycleLocked(placed)}
		}
		s := w.steps[next]
		placed[s.ID] = true
		order = append(order, s.ID)
		for _, d := range dependents[s.ID] {
			inDegree[d]--
		}
	}

	w.order = order
	return append([]string(nil), order...), nil
}

// findCycleLocked walks the unresolved remainder of the graph and returns the
// IDs on the first cycle it finds.
func (w *Workflow) findCycleLocked(resolved map[string]bool) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(w.steps))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, dep := range w.index[id].Dependencies {
			if resolved[dep] {
				continue
			}
			switch color[dep] {
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == dep {
						cycle = append([]string(nil), stack[i:]...)
						return true
					}
				}
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, s := range w.steps {
		if resolved[s.ID] || color[s.ID] != white {
			continue
		}
		if visit(s.ID) {
			return cycle
		}
	}
	return nil
}

// Execute runs every step once, sequentially, in resolved order. A step whose
// dependencies did not all complete is skipped without invoking its action; a
// failing step is recorded and execution continues with the rest. Results of
// completed steps accumulate in the context handed to later actions, seeded
// from initial. Cancelling ctx skips the steps that have not started yet.
func (w *Workflow) Execute(ctx context.Context, initial Context) (*Summary, error) {
	w.mu.Lock()
	if w.executed {
		w.mu.Unlock()
		return nil, ErrAlreadyExecuted
	}
	order, err := w.resolveLocked()
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.executed = true
	w.mu.Unlock()

	startedAt := time.Now()
	wc := make(Context, len(initial)+len(order))
	for k, v := range initial {
		wc[k] = v
	}

	canceled := false
	for _, id := range order {
		step := w.index[id]

		if !canceled && ctx.Err() != nil {
			canceled = true
		}
		if canceled {
			step.Status = SkippedStepStatus
			step.ErrMsg = "skipped: execution canceled"
			continue
		}
		if cause := w.blockingDep(step); cause != "" {
			step.Status = SkippedStepStatus
			step.ErrMsg = fmt.Sprintf("skipped: dependency '%s' did not complete", cause)
			w.logf("Skipped step '%s' (dependency '%s' did not complete)", id, cause)
			continue
		}

		step.Status = ReadyStepStatus
		w.logf("Running step '%s'", id)
		step.Status = RunningStepStatus
		t0 := time.Now()
		step.StartedAt = &t0
		result, err := step.Action(ctx, wc.clone())
		t1 := time.Now()
		step.FinishedAt = &t1

		if err != nil {
			step.Status = FailedStepStatus
			step.ErrMsg = err.Error()
			w.errorf("Step '%s' failed: %v", id, err)
			continue
		}
		if result.IsZero() {
			result = TextResult("")
		}
		step.Status = CompletedStepStatus
		step.Result = result
		wc[id] = result
		w.logf("Completed step '%s' in %s", id, t1.Sub(t0).Round(time.Millisecond))
	}

	summary := w.buildSummary(order, startedAt, time.Now(), wc)
	if canceled {
		return summary, ctx.Err()
	}
	return summary, nil
}

// blockingDep returns the ID of a dependency that failed or was skipped, or
// "" when every dependency completed.
func (w *Workflow) blockingDep(step *Step) string {
	for _, dep := range step.Dependencies {
		if w.index[dep].Status != CompletedStepStatus {
			return dep
		}
	}
	return ""
}

func (w *Workflow) logf(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Infof(format, args...)
	}
}

func (w *Workflow) errorf(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Errorf(format, args...)
	}
}
