package command

import (
	"errors"
	"fmt"
)

// ErrSealed is returned when a child is added to a composite that has
// already been executed.
var ErrSealed = errors.New("composite command already executed")

// Composite groups multiple commands as one undo unit.
type Composite struct {
	Name     string
	commands []Command
	sealed   bool
}

// NewComposite creates a new composite command.
func NewComposite(name string, commands ...Command) *Composite {
	return &Composite{
		Name:     name,
		commands: commands,
	}
}

// Add appends a child command. Children can only be added before the
// composite is first executed.
func (c *Composite) Add(cmd Command) error {
	if c.sealed {
		return ErrSealed
	}
	c.commands = append(c.commands, cmd)
	return nil
}

// Do runs all children in order. If a child fails, the children that
// already ran are undone in reverse order.
func (c *Composite) Do() error {
	c.sealed = true
	for i, cmd := range c.commands {
		if err := cmd.Do(); err != nil {
			c.rollback(i)
			return fmt.Errorf("composite command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Redo reapplies all children in order, honoring their own Redo.
func (c *Composite) Redo() error {
	for i, cmd := range c.commands {
		if err := Redo(cmd); err != nil {
			c.rollback(i)
			return fmt.Errorf("redo composite command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all children in reverse order.
func (c *Composite) Undo() error {
	for i := len(c.commands) - 1; i >= 0; i-- {
		if err := c.commands[i].Undo(); err != nil {
			return fmt.Errorf("undo composite command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// rollback undoes the first n children, last first.
func (c *Composite) rollback(n int) {
	for j := n - 1; j >= 0; j-- {
		_ = c.commands[j].Undo()
	}
}

// Description returns the composite's name.
func (c *Composite) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.commands) == 1 {
		return Describe(c.commands[0])
	}
	return fmt.Sprintf("%d operations", len(c.commands))
}

// Commands returns a copy of the child list.
func (c *Composite) Commands() []Command {
	out := make([]Command, len(c.commands))
	copy(out, c.commands)
	return out
}

// Len returns the number of children.
func (c *Composite) Len() int {
	return len(c.commands)
}

// IsEmpty returns true if the composite has no children.
func (c *Composite) IsEmpty() bool {
	return len(c.commands) == 0
}
