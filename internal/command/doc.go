// Package command defines reversible units of work for the undo/redo engine.
//
// A Command performs an action with Do and reverses it with Undo. Redo is
// an optional capability: commands that do not implement Redoer are redone
// by calling Do again.
//
// # Composite Commands
//
// Composite groups child commands into one undo unit. Children run first to
// last and are undone last to first, so every child undoes against the state
// it originally saw:
//
//	c := command.NewComposite("Rename and retag")
//	c.Add(rename)
//	c.Add(retag)
//	hist.Run(c)
//
// # State Snapshots
//
// UpdateState captures a target's state on first execution and applies a
// partial override on top of it. The target must implement Stateful.
//
//	cmd := command.NewUpdateState(obj, command.State{"a": 13})
package command
