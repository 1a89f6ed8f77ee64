package history

import "github.com/dshills/undoctl/internal/command"

// RunGrouped executes multiple commands as a single undo unit.
func (h *History) RunGrouped(name string, cmds ...command.Command) error {
	if len(cmds) == 0 {
		return nil
	}

	if len(cmds) == 1 {
		// Single command doesn't need grouping
		return h.Run(cmds[0])
	}

	return h.Run(command.NewComposite(name, cmds...))
}

// RevertToSavePoint undoes or redoes commands until the history is back at
// its save point. Each step emits its own change notification.
func (h *History) RevertToSavePoint() error {
	if h.savePoint == lostSavePoint || h.savePoint > len(h.commands) {
		return &ConsistencyError{Op: "revert", Err: ErrSavePointLost}
	}

	for h.position > h.savePoint {
		if err := h.Undo(); err != nil {
			return err
		}
	}
	for h.position < h.savePoint {
		if err := h.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// UndoInfo returns info about the done commands, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	result := make([]EntryInfo, h.position)
	for i, e := range h.commands[:h.position] {
		result[i] = e.info()
	}
	return result
}

// RedoInfo returns info about the undone commands, next redo first.
func (h *History) RedoInfo() []EntryInfo {
	tail := h.commands[h.position:]
	result := make([]EntryInfo, len(tail))
	for i, e := range tail {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns info about the next undo operation without performing it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	if h.position == 0 {
		return EntryInfo{}, false
	}
	return h.commands[h.position-1].info(), true
}

// PeekRedo returns info about the next redo operation without performing it.
func (h *History) PeekRedo() (EntryInfo, bool) {
	if h.position == len(h.commands) {
		return EntryInfo{}, false
	}
	return h.commands[h.position].info(), true
}
