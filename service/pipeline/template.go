package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StepFunc is the work bound to a template step.
type StepFunc func(ctx context.Context) error

// RootStepError reports an invalid number of root steps in a template.
type RootStepError struct {
	Found int
}

func (e *RootStepError) Error() string {
	return fmt.Sprintf("expected one root step, found %d", e.Found)
}

// Template is a DAG of named steps. It describes what to run and in which
// order; it is not an execution object.
type Template struct {
	UID   string
	dag   *DAG
	steps map[string]StepFunc
}

// NewTemplate creates an empty pipeline template.
func NewTemplate() *Template {
	return &Template{
		UID:   uuid.NewString(),
		dag:   NewDAG(),
		steps: make(map[string]StepFunc),
	}
}

// AddStep registers a named step. The step remains orphan until it is
// linked to upstream/downstream steps.
func (t *Template) AddStep(name string, fn StepFunc) error {
	if fn == nil {
		return fmt.Errorf("step %q has no implementation", name)
	}
	if err := t.dag.AddNode(name); err != nil {
		return err
	}
	t.steps[name] = fn
	return nil
}

// Link creates a directed dependency from an upstream to a downstream step.
func (t *Template) Link(upstream, downstream string) error {
	return t.dag.AddEdge(upstream, downstream)
}

// Steps returns the names of all steps in the template.
func (t *Template) Steps() []string {
	return t.dag.Nodes()
}

// Root returns the single root step of the template.
func (t *Template) Root() (string, error) {
	roots, err := t.dag.RootNodes()
	if err != nil {
		return "", &RootStepError{Found: 0}
	}
	if len(roots) != 1 {
		return "", &RootStepError{Found: len(roots)}
	}
	return roots[0], nil
}

// Validate ensures the underlying DAG is valid, there is a single root step
// and every step has an implementation.
func (t *Template) Validate() error {
	if err := t.dag.Validate(); err != nil {
		return err
	}
	if _, err := t.Root(); err != nil {
		return err
	}
	for _, name := range t.dag.Nodes() {
		if t.steps[name] == nil {
			return fmt.Errorf("step %q has no implementation", name)
		}
	}
	return nil
}
