package action

import "github.com/dshills/undoctl/internal/history"

// Selection is a watched set of items.
type Selection interface {
	Source
	Len() int
}

// NeedsSelection enables the action only while sel is non-empty.
func NeedsSelection(sel Selection) Option {
	return func(a *Action) {
		WithPredicate(func() bool { return sel.Len() > 0 })(a)
		WithWatch(sel)(a)
	}
}

// Undo creates an action that undoes the last command of h.
func Undo(h *history.History, opts ...Option) *Action {
	base := []Option{
		WithDescription("Undo the last command"),
		WithPredicate(h.CanUndo),
		WithWatch(h),
	}
	return New("undo", h.Undo, append(base, opts...)...)
}

// Redo creates an action that redoes the last undone command of h.
func Redo(h *history.History, opts ...Option) *Action {
	base := []Option{
		WithDescription("Redo the last undone command"),
		WithPredicate(h.CanRedo),
		WithWatch(h),
	}
	return New("redo", h.Redo, append(base, opts...)...)
}

// Save creates an action that persists the document with save and marks
// the save point of h. It is enabled while h is modified.
func Save(h *history.History, save func() error, opts ...Option) *Action {
	var a *Action
	run := func() error {
		if err := save(); err != nil {
			return err
		}
		h.SavePoint()
		a.Refresh()
		return nil
	}
	base := []Option{
		WithDescription("Save the document"),
		WithPredicate(h.IsModified),
		WithWatch(h),
	}
	a = New("save", run, append(base, opts...)...)
	return a
}
