package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/undoctl/internal/command"
	"github.com/dshills/undoctl/internal/document"
	"github.com/dshills/undoctl/internal/history"
	"github.com/dshills/undoctl/internal/script"
)

// commandSpec describes one session command.
type commandSpec struct {
	usage string
	help  string
	run   func(s *Session, args string) error
}

var commandTable map[string]commandSpec

func init() {
	commandTable = map[string]commandSpec{
		"set":             {"set <key> <value>", "Set a field", cmdSet},
		"del":             {"del <key>", "Delete a field", cmdDel},
		"get":             {"get <key>", "Print a field", cmdGet},
		"query":           {"query <path>", "Evaluate a JSON path against the document", cmdQuery},
		"show":            {"show", "Print all fields", cmdShow},
		"select":          {"select <key>...", "Add fields to the selection", cmdSelect},
		"deselect":        {"deselect <key>...", "Remove fields from the selection", cmdDeselect},
		"clear-selection": {"clear-selection", "Clear the selection", cmdClearSelection},
		"delete-selected": {"delete-selected", "Delete the selected fields", triggerAction("delete-selected")},
		"begin":           {"begin [name]", "Start grouping edits into one undo step", cmdBegin},
		"commit":          {"commit", "Run the grouped edits", cmdCommit},
		"abort":           {"abort", "Discard the grouped edits", cmdAbort},
		"undo":            {"undo", "Undo the last command", triggerAction("undo")},
		"redo":            {"redo", "Redo the last undone command", triggerAction("redo")},
		"save":            {"save [path]", "Save the document", cmdSave},
		"revert":          {"revert", "Go back to the last saved state", cmdRevert},
		"reset":           {"reset [new|dirty]", "Clear the undo history", cmdReset},
		"reload":          {"reload", "Re-read the document from disk", cmdReload},
		"source":          {"source <file.lua>", "Run a Lua script", cmdSource},
		"status":          {"status", "Print the session state", cmdStatus},
		"log":             {"log", "Print the undo history", cmdLog},
		"help":            {"help", "List commands", cmdHelp},
		"quit":            {"quit", "Leave the session", cmdQuit},
	}
}

func usageError(name string) error {
	return fmt.Errorf("%w: %s", ErrUsage, commandTable[name].usage)
}

func triggerAction(name string) func(*Session, string) error {
	return func(s *Session, _ string) error {
		return s.actions.Trigger(name)
	}
}

func cmdSet(s *Session, args string) error {
	key, value := cutWord(args)
	if key == "" || value == "" {
		return usageError("set")
	}
	return s.submit(document.SetField(s.doc, key, document.ParseValue(value)))
}

func cmdDel(s *Session, args string) error {
	if args == "" || strings.ContainsAny(args, " \t") {
		return usageError("del")
	}
	if s.group == nil {
		if _, ok := s.doc.Get(args); !ok {
			return fmt.Errorf("%w: %s", document.ErrNoField, args)
		}
	}
	return s.submit(document.NewDeleteField(s.doc, args))
}

func cmdGet(s *Session, args string) error {
	if args == "" {
		return usageError("get")
	}
	v, ok := s.doc.Get(args)
	if !ok {
		return fmt.Errorf("%w: %s", document.ErrNoField, args)
	}
	s.printf("%s\n", s.styles.value.Render(fmt.Sprint(v)))
	return nil
}

func cmdQuery(s *Session, args string) error {
	if args == "" {
		return usageError("query")
	}
	v, ok := s.doc.Query(args)
	if !ok {
		return fmt.Errorf("%w: %s", document.ErrNoField, args)
	}
	s.printf("%s\n", s.styles.value.Render(v))
	return nil
}

func cmdShow(s *Session, _ string) error {
	for _, k := range s.doc.Keys() {
		v, _ := s.doc.Get(k)
		mark := " "
		if s.sel.Has(k) {
			mark = "*"
		}
		s.printf("%s %s = %s\n", mark, s.styles.key.Render(k), s.styles.value.Render(fmt.Sprint(v)))
	}
	return nil
}

func cmdSelect(s *Session, args string) error {
	keys := strings.Fields(args)
	if len(keys) == 0 {
		return usageError("select")
	}
	for _, k := range keys {
		if _, ok := s.doc.Get(k); !ok {
			return fmt.Errorf("%w: %s", document.ErrNoField, k)
		}
	}
	s.sel.Add(keys...)
	return nil
}

func cmdDeselect(s *Session, args string) error {
	keys := strings.Fields(args)
	if len(keys) == 0 {
		return usageError("deselect")
	}
	s.sel.Remove(keys...)
	return nil
}

func cmdClearSelection(s *Session, _ string) error {
	s.sel.Clear()
	return nil
}

func cmdBegin(s *Session, args string) error {
	if s.group != nil {
		return ErrGroupOpen
	}
	name := args
	if name == "" {
		name = "Group"
	}
	s.group = command.NewComposite(name)
	return nil
}

func cmdCommit(s *Session, _ string) error {
	if s.group == nil {
		return ErrNoGroup
	}
	group := s.group
	s.group = nil
	if group.IsEmpty() {
		return nil
	}
	if group.Len() == 1 {
		return s.hist.Run(group.Commands()[0])
	}
	return s.hist.Run(group)
}

func cmdAbort(s *Session, _ string) error {
	if s.group == nil {
		return ErrNoGroup
	}
	s.group = nil
	return nil
}

func cmdSave(s *Session, args string) error {
	if args == "" {
		return s.actions.Trigger("save")
	}
	if err := s.doc.SaveAs(args); err != nil {
		return err
	}
	s.hist.SavePoint()
	if save, ok := s.actions.Get("save"); ok {
		save.Refresh()
	}
	return nil
}

func cmdRevert(s *Session, _ string) error {
	return s.hist.RevertToSavePoint()
}

func cmdReset(s *Session, args string) error {
	switch args {
	case "", "new":
		return s.hist.Reset(true)
	case "dirty":
		return s.hist.Reset(false)
	default:
		return usageError("reset")
	}
}

func cmdReload(s *Session, _ string) error {
	return s.Reload()
}

func cmdSource(s *Session, args string) error {
	if args == "" {
		return usageError("source")
	}
	if s.lua == nil {
		r, err := script.New(s.doc, s.hist,
			script.WithOutput(s.out),
			script.WithContext(s.ctx))
		if err != nil {
			return err
		}
		s.lua = r
	}
	return s.lua.DoFile(args)
}

func cmdStatus(s *Session, _ string) error {
	path := s.doc.Path()
	if path == "" {
		path = "(unsaved)"
	}
	s.printf("%s %s\n", s.styles.title.Render("document:"), path)
	s.printf("%s %d/%d\n", s.styles.title.Render("position:"), s.hist.Position(), s.hist.Len())

	modified := s.styles.good.Render("no")
	if s.hist.IsModified() {
		modified = s.styles.warn.Render("yes")
	}
	s.printf("%s %s\n", s.styles.title.Render("modified:"), modified)

	if sel := s.sel.Items(); len(sel) > 0 {
		s.printf("%s %s\n", s.styles.title.Render("selection:"), strings.Join(sel, ", "))
	}
	if s.group != nil {
		s.printf("%s %s (%d pending)\n", s.styles.title.Render("group:"), s.group.Name, s.group.Len())
	}

	var enabled []string
	for _, a := range s.actions.All() {
		if a.Enabled() {
			enabled = append(enabled, a.Name())
		}
	}
	s.printf("%s %s\n", s.styles.title.Render("actions:"), strings.Join(enabled, ", "))
	return nil
}

func cmdLog(s *Session, _ string) error {
	done := s.hist.UndoInfo()
	for i, e := range done {
		s.printf("  %3d %s %s %s\n", i+1, s.styles.dim.Render(shortID(e)), e.Description,
			s.styles.dim.Render(e.Timestamp.Format("15:04:05")))
	}
	s.printf("%s\n", s.styles.title.Render("  --- position ---"))
	for i, e := range s.hist.RedoInfo() {
		s.printf("%s\n", s.styles.dim.Render(fmt.Sprintf("  %3d %s %s", len(done)+i+1, shortID(e), e.Description)))
	}
	return nil
}

// shortID returns the first eight hex digits of the entry ID.
func shortID(e history.EntryInfo) string {
	return e.ID.String()[:8]
}

func cmdHelp(s *Session, _ string) error {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := commandTable[name]
		s.printf("  %-20s %s\n", spec.usage, s.styles.dim.Render(spec.help))
	}
	return nil
}

func cmdQuit(*Session, string) error {
	return ErrQuit
}
