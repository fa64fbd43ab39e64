package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Step execution states.
const (
	StatePending = "PENDING"
	StateDone    = "DONE"
	StateFailed  = "FAILED"
	StateSkipped = "SKIPPED"
)

// StepResult is the execution record of a single step.
type StepResult struct {
	Name       string
	State      string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Report is the execution record of a whole pipeline run. Steps are listed
// in topological order.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []StepResult
}

// Failed returns the names of all failed steps.
func (r *Report) Failed() []string {
	var failed []string
	for _, s := range r.Steps {
		if s.State == StateFailed {
			failed = append(failed, s.Name)
		}
	}
	return failed
}

// Runner executes a validated pipeline template. A runner can be run only
// once.
type Runner struct {
	tmpl *Template

	mu      sync.Mutex
	results map[string]*StepResult
	ran     bool
}

// NewRunner creates a runner for the given template. The template is
// validated up front.
func NewRunner(tmpl *Template) (*Runner, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline template: %w", err)
	}
	return &Runner{tmpl: tmpl, results: make(map[string]*StepResult)}, nil
}

// Run executes the pipeline. Steps whose predecessors all finished
// successfully are started as soon as possible; independent branches run
// concurrently. A failed step marks its descendants as skipped but does not
// stop sibling branches. Run returns a non-nil error if any step failed.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.ran {
		r.mu.Unlock()
		return nil, fmt.Errorf("a pipeline can be run only once")
	}
	r.ran = true
	r.mu.Unlock()

	order, err := r.tmpl.dag.Toposort()
	if err != nil {
		return nil, err
	}

	done := make(map[string]chan struct{}, len(order))
	for _, name := range order {
		done[name] = make(chan struct{})
		r.results[name] = &StepResult{Name: name, State: StatePending}
	}

	report := &Report{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range order {
		g.Go(func() error {
			defer close(done[name])

			preds, _ := r.tmpl.dag.Predecessors(name)
			for _, pred := range preds {
				select {
				case <-done[pred]:
				case <-ctx.Done():
					r.setState(name, StateSkipped, ctx.Err())
					return ctx.Err()
				}
			}
			if !r.predecessorsDone(preds) {
				r.setState(name, StateSkipped, nil)
				return nil
			}

			r.markStarted(name)
			err := r.tmpl.steps[name](ctx)
			if err != nil {
				r.setState(name, StateFailed, err)
				return nil
			}
			r.setState(name, StateDone, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now().UTC()
	for _, name := range order {
		report.Steps = append(report.Steps, *r.results[name])
	}
	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("pipeline failed at step(s) %s", strings.Join(failed, ", "))
	}
	return report, nil
}

func (r *Runner) predecessorsDone(preds []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pred := range preds {
		if r.results[pred].State != StateDone {
			return false
		}
	}
	return true
}

func (r *Runner) markStarted(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[name].StartedAt = time.Now().UTC()
}

func (r *Runner) setState(name, state string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.results[name]
	res.State = state
	res.Err = err
	if !res.StartedAt.IsZero() {
		res.FinishedAt = time.Now().UTC()
	}
}
