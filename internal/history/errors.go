package history

import (
	"errors"
	"fmt"
)

// Causes of consistency errors.
var (
	// ErrNothingToUndo indicates Undo was called with no done commands.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates Redo was called with no undone commands.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrReentrant indicates the history was mutated while it was already
	// running a command or delivering a change notification.
	ErrReentrant = errors.New("history modified during another operation")

	// ErrSavePointLost indicates the save point was discarded and can no
	// longer be reached.
	ErrSavePointLost = errors.New("save point is no longer reachable")
)

// ConsistencyError reports a programmer-usage error: the caller violated a
// precondition such as CanUndo or CanRedo.
type ConsistencyError struct {
	// Op is the history operation that failed.
	Op string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// IsConsistency reports whether err is or wraps a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
