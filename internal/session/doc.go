// Package session runs a line-oriented editing session over a document.
//
// Each input line is one command. Edits are submitted to a history so they
// can be undone, redone, grouped and saved:
//
//	set title "Draft"
//	select title
//	delete-selected
//	undo
//	save
//
// Undo, redo, save and delete-selected are actions: they refuse to run while
// their enablement conditions do not hold.
package session
