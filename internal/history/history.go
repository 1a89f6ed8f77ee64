package history

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/undoctl/internal/command"
	"github.com/dshills/undoctl/internal/signal"
)

// lostSavePoint marks a save point that no reachable position can equal.
const lostSavePoint = -1

// entry wraps a command with metadata.
type entry struct {
	id        uuid.UUID
	command   command.Command
	timestamp time.Time
}

func (e *entry) info() EntryInfo {
	return EntryInfo{
		ID:          e.id,
		Description: command.Describe(e.command),
		Timestamp:   e.timestamp,
	}
}

// EntryInfo provides read-only info about a recorded command.
type EntryInfo struct {
	ID          uuid.UUID // Stable identifier of the entry
	Description string    // Human-readable description
	Timestamp   time.Time // When the command was first run
}

// History manages the undo/redo state of an editing session.
type History struct {
	commands  []*entry
	position  int
	savePoint int

	changed signal.Signal

	// busy is set while a mutating operation is in progress.
	busy bool

	// Configuration
	maxEntries int
	logger     *slog.Logger
}

// New creates an empty, unmodified history.
func New(opts ...Option) *History {
	h := &History{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes cmd and records it. Any undone commands are discarded.
// If cmd fails, its error is returned unchanged and the history is left
// as it was.
func (h *History) Run(cmd command.Command) error {
	if err := h.enter("run"); err != nil {
		return err
	}
	defer h.leave()

	if err := cmd.Do(); err != nil {
		return err
	}

	// Drop the redo tail
	if h.position < len(h.commands) {
		if h.savePoint > h.position {
			h.savePoint = lostSavePoint
		}
		clear(h.commands[h.position:])
		h.commands = h.commands[:h.position]
	}

	e := &entry{
		id:        uuid.New(),
		command:   cmd,
		timestamp: time.Now(),
	}
	h.commands = append(h.commands, e)
	h.position++
	h.trim()

	h.logger.Debug("history run",
		"entry", e.id,
		"command", command.Describe(cmd),
		"position", h.position,
		"len", len(h.commands))
	h.changed.Emit()
	return nil
}

// Undo reverses the most recently done command. The cursor only moves
// back if the command's Undo succeeds.
func (h *History) Undo() error {
	if err := h.enter("undo"); err != nil {
		return err
	}
	defer h.leave()

	if h.position == 0 {
		return &ConsistencyError{Op: "undo", Err: ErrNothingToUndo}
	}

	e := h.commands[h.position-1]
	if err := e.command.Undo(); err != nil {
		return err
	}
	h.position--

	h.logger.Debug("history undo",
		"entry", e.id,
		"command", command.Describe(e.command),
		"position", h.position)
	h.changed.Emit()
	return nil
}

// Redo reapplies the most recently undone command. The cursor only moves
// forward if the command's redo succeeds.
func (h *History) Redo() error {
	if err := h.enter("redo"); err != nil {
		return err
	}
	defer h.leave()

	if h.position == len(h.commands) {
		return &ConsistencyError{Op: "redo", Err: ErrNothingToRedo}
	}

	e := h.commands[h.position]
	if err := command.Redo(e.command); err != nil {
		return err
	}
	h.position++

	h.logger.Debug("history redo",
		"entry", e.id,
		"command", command.Describe(e.command),
		"position", h.position)
	h.changed.Emit()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.position > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.position < len(h.commands)
}

// SavePoint marks the current position as the saved state. It does not
// emit a change notification.
func (h *History) SavePoint() {
	h.savePoint = h.position
	h.logger.Debug("history save point", "position", h.position)
}

// IsModified returns true if the current position differs from the save
// point.
func (h *History) IsModified() bool {
	return h.position != h.savePoint
}

// Reset clears all commands. With isNew the history is unmodified;
// otherwise it stays modified until the next SavePoint. Reset emits exactly
// one change notification.
func (h *History) Reset(isNew bool) error {
	if err := h.enter("reset"); err != nil {
		return err
	}
	defer h.leave()

	dropped := len(h.commands)
	h.commands = nil
	h.position = 0
	if isNew {
		h.savePoint = 0
	} else {
		h.savePoint = lostSavePoint
	}

	h.logger.Debug("history reset", "new", isNew, "dropped", dropped)
	h.changed.Emit()
	return nil
}

// Position returns the number of currently applied commands.
func (h *History) Position() int {
	return h.position
}

// Len returns the number of recorded commands, done and undone.
func (h *History) Len() int {
	return len(h.commands)
}

// Subscribe registers fn to be called after every state change. The
// returned subscription's Unsubscribe behaves like h.Unsubscribe.
func (h *History) Subscribe(fn func()) *signal.Subscription {
	return h.changed.SubscribeOwned(fn, h.Unsubscribe)
}

// Unsubscribe removes a change handler. Removing a handler that is not
// registered is a ConsistencyError.
func (h *History) Unsubscribe(sub *signal.Subscription) error {
	if err := h.changed.Unsubscribe(sub); err != nil {
		return &ConsistencyError{Op: "unsubscribe", Err: err}
	}
	return nil
}

// enter marks the start of a mutating operation.
func (h *History) enter(op string) error {
	if h.busy {
		return &ConsistencyError{Op: op, Err: ErrReentrant}
	}
	h.busy = true
	return nil
}

// leave marks the end of a mutating operation.
func (h *History) leave() {
	h.busy = false
}

// trim enforces maxEntries by dropping the oldest commands.
func (h *History) trim() {
	if h.maxEntries <= 0 || len(h.commands) <= h.maxEntries {
		return
	}

	excess := len(h.commands) - h.maxEntries
	clear(h.commands[:excess])
	h.commands = h.commands[excess:]
	h.position -= excess
	if h.savePoint != lostSavePoint {
		h.savePoint -= excess
		if h.savePoint < 0 {
			h.savePoint = lostSavePoint
		}
	}
}
