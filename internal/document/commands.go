package document

import (
	"fmt"

	"github.com/dshills/undoctl/internal/command"
)

// SetField returns a command that assigns one field.
func SetField(d *Document, key string, value any) command.Command {
	return command.NewUpdateState(d, command.State{key: value})
}

// SetFields returns a command that assigns several fields at once.
func SetFields(d *Document, values map[string]any) command.Command {
	return command.NewUpdateState(d, command.State(values))
}

// DeleteField removes a field and restores it on undo.
type DeleteField struct {
	doc *Document
	key string
	old any
}

// NewDeleteField creates a command that removes key from d.
func NewDeleteField(d *Document, key string) *DeleteField {
	return &DeleteField{doc: d, key: key}
}

// Do removes the field. It fails if the field does not exist.
func (c *DeleteField) Do() error {
	old, ok := c.doc.Get(c.key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoField, c.key)
	}
	c.old = old
	c.doc.Delete(c.key)
	return nil
}

// Undo puts the removed value back.
func (c *DeleteField) Undo() error {
	c.doc.Set(c.key, c.old)
	return nil
}

// Description returns a human-readable description.
func (c *DeleteField) Description() string {
	return "Delete " + c.key
}
