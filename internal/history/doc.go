// Package history provides a linear undo/redo manager built on the Command
// pattern.
//
// History records every executed command in order, together with a cursor
// separating the done (undoable) commands from the undone (redoable) ones:
//
//	h := history.New()
//
//	// Execute commands
//	h.Run(cmd)
//
//	// Undo/redo
//	h.Undo()
//	h.Redo()
//
// Running a new command after an undo discards the redo tail.
//
// # Modification Tracking
//
// SavePoint marks the current position as the clean, saved state. IsModified
// reports whether the cursor has moved away from it. Reset(false) clears the
// history and leaves it modified until the next SavePoint.
//
// # Change Notification
//
// Every successful Run, Undo, Redo and Reset emits exactly one change
// notification after the state has been updated:
//
//	sub := h.Subscribe(func() { refresh(h.CanUndo(), h.CanRedo()) })
//	defer h.Unsubscribe(sub)
//
// History is a single-threaded state machine and is not safe for concurrent
// use. Change handlers may query it but must not mutate it; doing so fails
// with a ConsistencyError.
package history
