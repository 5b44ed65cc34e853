// Package wizard implements a multi-step form flow that validates each step before
// merging it into a shared accumulator and hands the result to a submission callback.
package wizard

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var (
	ErrNoSteps          = errors.New("wizard needs at least one step")
	ErrUnknownStep      = errors.New("unknown step")
	ErrLastStep         = errors.New("already on the last step, submit instead")
	ErrNotLastStep      = errors.New("submit is only allowed on the last step")
	ErrCompleted        = errors.New("wizard already completed")
	ErrSubmitInProgress = errors.New("submission already in progress")
)

// CompleteFunc receives the merged data of all steps on submit.
type CompleteFunc func(ctx context.Context, acc Accumulator) error

// SubmitError wraps a failure of the submission callback. The accumulator is kept
// and Submit may be retried.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit failed: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets a custom logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller drives one run of a wizard. It is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	steps      []Step
	positions  map[StepID]int
	cursor     int
	acc        Accumulator
	submitting bool
	completed  bool
	onComplete CompleteFunc
	logger     *slog.Logger
}

// New creates a controller positioned on the step with the lowest index.
// Step ids and indexes must be unique.
func New(steps []Step, onComplete CompleteFunc, opts ...Option) (*Controller, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if onComplete == nil {
		return nil, errors.New("completion callback is required")
	}

	ordered := slices.Clone(steps)
	slices.SortStableFunc(ordered, func(a, b Step) int { return cmp.Compare(a.Index, b.Index) })

	positions := make(map[StepID]int, len(ordered))
	for i, s := range ordered {
		if s.ID == "" {
			return nil, fmt.Errorf("step at index %d has no id", s.Index)
		}
		if s.Schema == nil {
			return nil, fmt.Errorf("step %q has no schema", s.ID)
		}
		if _, dup := positions[s.ID]; dup {
			return nil, fmt.Errorf("duplicate step id %q", s.ID)
		}
		if i > 0 && ordered[i-1].Index == s.Index {
			return nil, fmt.Errorf("duplicate step index %d", s.Index)
		}
		positions[s.ID] = i
	}

	c := &Controller{
		steps:      ordered,
		positions:  positions,
		acc:        Accumulator{},
		onComplete: onComplete,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CurrentStepID returns the id of the step under the cursor.
func (c *Controller) CurrentStepID() StepID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps[c.cursor].ID
}

// IsFirst reports whether the cursor is on the first step.
func (c *Controller) IsFirst() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor == 0
}

// IsLast reports whether the cursor is on the last step.
func (c *Controller) IsLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor == len(c.steps)-1
}

// Completed reports whether a submission succeeded.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// Accumulator returns a snapshot of the validated step data.
func (c *Controller) Accumulator() Accumulator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acc.Clone()
}

// StepIDs returns all step ids in order.
func (c *Controller) StepIDs() []StepID {
	return lo.Map(c.steps, func(s Step, _ int) StepID { return s.ID })
}

// Next validates input against the current step. On success the data is stored under
// the current step id and the cursor advances. On failure nothing changes.
func (c *Controller) Next(input json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return ErrCompleted
	}
	if c.submitting {
		return ErrSubmitInProgress
	}
	if c.cursor == len(c.steps)-1 {
		return ErrLastStep
	}

	step := c.steps[c.cursor]
	if err := c.merge(step, input); err != nil {
		return err
	}

	c.cursor++
	c.logger.Debug("wizard advanced", "from", step.ID, "to", c.steps[c.cursor].ID)
	return nil
}

// Back moves to the previous step without validation. Stored data is kept.
// On the first step it does nothing.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return ErrCompleted
	}
	if c.submitting {
		return ErrSubmitInProgress
	}
	if c.cursor > 0 {
		c.cursor--
	}
	return nil
}

// GoTo moves to the step with the given id without validating the current one.
func (c *Controller) GoTo(id StepID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return ErrCompleted
	}
	if c.submitting {
		return ErrSubmitInProgress
	}
	pos, ok := c.positions[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	c.cursor = pos
	return nil
}

// Submit validates input against the last step, merges it and hands the full
// accumulator to the completion callback. A callback failure leaves the wizard on the
// last step with all data kept, returned as *SubmitError. On success the accumulator
// is cleared. Navigation is rejected with ErrSubmitInProgress while the callback runs.
func (c *Controller) Submit(ctx context.Context, input json.RawMessage) error {
	c.mu.Lock()
	if c.completed {
		c.mu.Unlock()
		return ErrCompleted
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	if c.cursor != len(c.steps)-1 {
		c.mu.Unlock()
		return ErrNotLastStep
	}
	if err := c.merge(c.steps[c.cursor], input); err != nil {
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	snapshot := c.acc.Clone()
	c.mu.Unlock()

	err := c.complete(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.logger.Warn("wizard submission failed", "error", err)
		return &SubmitError{Err: err}
	}
	c.completed = true
	c.acc = Accumulator{}
	return nil
}

func (c *Controller) complete(ctx context.Context, acc Accumulator) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion callback panicked: %v", r)
		}
	}()
	return c.onComplete(ctx, acc)
}

// merge must be called with mu held.
func (c *Controller) merge(step Step, input json.RawMessage) error {
	data, err := step.Schema.Parse(input, c.acc.Clone())
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			c.logger.Debug("wizard step rejected", "step", step.ID, "field", vErr.Field, "reason", vErr.Message)
		}
		return err
	}
	if data.StepID() != step.ID {
		return fmt.Errorf("schema of step %q produced data for %q", step.ID, data.StepID())
	}
	c.acc[step.ID] = data
	return nil
}
