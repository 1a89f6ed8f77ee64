package action

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAction indicates a lookup for an unregistered action.
var ErrUnknownAction = errors.New("unknown action")

// Registry indexes actions by name.
type Registry struct {
	actions map[string]*Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register adds actions, replacing any with the same name.
func (r *Registry) Register(actions ...*Action) {
	for _, a := range actions {
		r.actions[a.Name()] = a
	}
}

// Get retrieves an action by name.
func (r *Registry) Get(name string) (*Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Trigger runs the named action.
func (r *Registry) Trigger(name string) error {
	a, ok := r.actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return a.Trigger()
}

// All returns all actions sorted by name.
func (r *Registry) All() []*Action {
	out := make([]*Action, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Close releases every registered action.
func (r *Registry) Close() error {
	var errs []error
	for _, a := range r.actions {
		errs = append(errs, a.Close())
	}
	return errors.Join(errs...)
}
