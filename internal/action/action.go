// Package action binds user-facing actions to the undo/redo engine.
//
// An Action pairs a handler with an enablement state. The state is the
// conjunction of the action's predicates and is re-evaluated whenever one of
// the sources it watches signals a change:
//
//	undo := action.Undo(hist)
//	del := action.New("delete", deleteSelected,
//	    action.WithWatch(hist),
//	    action.NeedsSelection(sel))
//
// Actions are toolkit independent. A front end subscribes to an action to
// learn when its enabled state flips.
package action

import (
	"errors"
	"fmt"

	"github.com/dshills/undoctl/internal/signal"
)

// Errors returned by actions.
var (
	// ErrDisabled indicates an action was triggered while disabled.
	ErrDisabled = errors.New("action is disabled")

	// ErrNoHandler indicates an action has nothing to run.
	ErrNoHandler = errors.New("action has no handler")
)

// Source is anything that signals changes.
type Source interface {
	Subscribe(fn func()) *signal.Subscription
}

// Predicate reports whether an action may currently run.
type Predicate func() bool

// Option configures an Action.
type Option func(*Action)

// WithPredicate adds an enablement condition. All predicates must hold
// for the action to be enabled.
func WithPredicate(p Predicate) Option {
	return func(a *Action) {
		if p != nil {
			a.predicates = append(a.predicates, p)
		}
	}
}

// WithWatch re-evaluates the action whenever src changes.
func WithWatch(src Source) Option {
	return func(a *Action) {
		a.sources = append(a.sources, src)
	}
}

// WithDescription sets the help text of the action.
func WithDescription(text string) Option {
	return func(a *Action) {
		a.description = text
	}
}

// Action is a named, triggerable operation with an enabled state.
type Action struct {
	name        string
	description string
	run         func() error

	predicates []Predicate
	sources    []Source
	subs       []*signal.Subscription

	enabled bool
	changed signal.Signal
}

// New creates an action. Its enabled state is evaluated immediately.
func New(name string, run func() error, opts ...Option) *Action {
	a := &Action{
		name: name,
		run:  run,
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, src := range a.sources {
		a.subs = append(a.subs, src.Subscribe(a.Refresh))
	}
	a.enabled = a.evaluate()

	return a
}

// Name returns the action identifier.
func (a *Action) Name() string {
	return a.name
}

// Description returns the help text of the action.
func (a *Action) Description() string {
	return a.description
}

// Enabled returns the last evaluated enabled state.
func (a *Action) Enabled() bool {
	return a.enabled
}

// Refresh re-evaluates the enabled state and notifies subscribers when it
// changed.
func (a *Action) Refresh() {
	enabled := a.evaluate()
	if enabled == a.enabled {
		return
	}
	a.enabled = enabled
	a.changed.Emit()
}

// Subscribe registers fn to be called when the enabled state flips.
func (a *Action) Subscribe(fn func()) *signal.Subscription {
	return a.changed.Subscribe(fn)
}

// Trigger runs the action if it is enabled. Errors from the handler are
// returned unchanged.
func (a *Action) Trigger() error {
	a.Refresh()
	if !a.enabled {
		return fmt.Errorf("action %q: %w", a.name, ErrDisabled)
	}
	if a.run == nil {
		return fmt.Errorf("action %q: %w", a.name, ErrNoHandler)
	}
	return a.run()
}

// Close stops watching all sources.
func (a *Action) Close() error {
	var errs []error
	for _, sub := range a.subs {
		errs = append(errs, sub.Unsubscribe())
	}
	a.subs = nil
	return errors.Join(errs...)
}

func (a *Action) evaluate() bool {
	for _, p := range a.predicates {
		if !p() {
			return false
		}
	}
	return true
}
