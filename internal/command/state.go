package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotExecuted is returned when UpdateState is undone before it ran.
var ErrNotExecuted = errors.New("command has not been executed")

// State is a snapshot of an object's relevant attributes, keyed by name.
type State map[string]any

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a copy of s with overrides applied on top.
func (s State) Merge(overrides State) State {
	out := s.Clone()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Stateful is implemented by objects whose state can be captured and
// restored as a whole.
type Stateful interface {
	// GetState returns a snapshot of all relevant attributes.
	GetState() (State, error)

	// SetState overwrites all relevant attributes from a snapshot.
	SetState(State) error
}

// UpdateState changes some attributes of a Stateful target and restores
// the complete original snapshot on undo.
type UpdateState struct {
	target    Stateful
	overrides State
	original  State
}

// NewUpdateState creates a command that applies overrides to target.
// The overrides map is copied.
func NewUpdateState(target Stateful, overrides State) *UpdateState {
	return &UpdateState{
		target:    target,
		overrides: overrides.Clone(),
	}
}

// Do captures the original state on first call, then applies the overrides.
func (c *UpdateState) Do() error {
	if c.original == nil {
		state, err := c.target.GetState()
		if err != nil {
			return fmt.Errorf("capture state: %w", err)
		}
		if state == nil {
			state = State{}
		}
		c.original = state.Clone()
	}
	if err := c.target.SetState(c.original.Merge(c.overrides)); err != nil {
		return fmt.Errorf("apply state: %w", err)
	}
	return nil
}

// Undo restores the original snapshot.
func (c *UpdateState) Undo() error {
	if c.original == nil {
		return ErrNotExecuted
	}
	if err := c.target.SetState(c.original.Clone()); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	return nil
}

// Overrides returns a copy of the attributes this command changes.
func (c *UpdateState) Overrides() State {
	return c.overrides.Clone()
}

// Original returns a copy of the captured snapshot, or nil before the
// first execution.
func (c *UpdateState) Original() State {
	if c.original == nil {
		return nil
	}
	return c.original.Clone()
}

// Description lists the updated attribute names.
func (c *UpdateState) Description() string {
	if len(c.overrides) == 0 {
		return "Update state"
	}
	keys := make([]string, 0, len(c.overrides))
	for k := range c.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "Update " + strings.Join(keys, ", ")
}
