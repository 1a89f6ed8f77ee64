package command

import (
	"errors"
	"fmt"
)

// Command represents a reversible action.
type Command interface {
	// Do performs the action. It is called once per forward transition.
	Do() error

	// Undo reverses the most recent Do or Redo.
	Undo() error
}

// Redoer is implemented by commands whose redo differs from Do.
type Redoer interface {
	Redo() error
}

// Describer is implemented by commands that carry a human-readable label.
type Describer interface {
	Description() string
}

// Redo reapplies c, using its Redo method when it has one.
func Redo(c Command) error {
	if r, ok := c.(Redoer); ok {
		return r.Redo()
	}
	return c.Do()
}

// Describe returns the description of c, or its type name.
func Describe(c Command) string {
	if d, ok := c.(Describer); ok {
		if s := d.Description(); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%T", c)
}

// ErrNoAction is returned by Func when the corresponding closure is nil.
var ErrNoAction = errors.New("command has no action")

// Func adapts a pair of closures to the Command interface.
type Func struct {
	Name     string
	DoFunc   func() error
	UndoFunc func() error
}

// Do calls DoFunc.
func (f *Func) Do() error {
	if f.DoFunc == nil {
		return ErrNoAction
	}
	return f.DoFunc()
}

// Undo calls UndoFunc.
func (f *Func) Undo() error {
	if f.UndoFunc == nil {
		return ErrNoAction
	}
	return f.UndoFunc()
}

// Description returns the name of the command.
func (f *Func) Description() string {
	return f.Name
}
