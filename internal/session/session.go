package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dshills/undoctl/internal/action"
	"github.com/dshills/undoctl/internal/command"
	"github.com/dshills/undoctl/internal/document"
	"github.com/dshills/undoctl/internal/history"
	"github.com/dshills/undoctl/internal/script"
)

// Errors returned by session commands.
var (
	// ErrUnknownCommand indicates an unrecognized command word.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates a command was given the wrong arguments.
	ErrUsage = errors.New("usage")

	// ErrNoGroup indicates commit or abort without a matching begin.
	ErrNoGroup = errors.New("no group in progress")

	// ErrGroupOpen indicates begin while a group is already open.
	ErrGroupOpen = errors.New("group already in progress")

	// ErrQuit is returned by the quit command.
	ErrQuit = errors.New("quit")

	// ErrConflict indicates the file changed on disk while the document had
	// unsaved edits.
	ErrConflict = errors.New("document changed on disk with unsaved edits")
)

// Options configures a Session.
type Options struct {
	// Context bounds scripts run by the session. Defaults to
	// context.Background.
	Context context.Context
	// MaxEntries bounds the undo history. Zero means unlimited.
	MaxEntries int
	// Logger receives debug records. Defaults to a discarding logger.
	Logger *slog.Logger
	// Out receives command output. Defaults to io.Discard.
	Out io.Writer
	// Color enables styled output.
	Color bool
}

// Session is an editing session over one document.
type Session struct {
	doc     *document.Document
	hist    *history.History
	sel     *document.Selection
	actions *action.Registry
	lua     *script.Runner
	ctx     context.Context

	// group collects edits between begin and commit.
	group *command.Composite

	out    io.Writer
	styles styles
	logger *slog.Logger
}

// New creates a session editing doc.
func New(doc *document.Document, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	s := &Session{
		doc:    doc,
		sel:    document.NewSelection(),
		ctx:    opts.Context,
		out:    opts.Out,
		styles: newStyles(opts.Out, opts.Color),
		logger: opts.Logger,
	}
	s.hist = history.New(
		history.WithMaxEntries(opts.MaxEntries),
		history.WithLogger(opts.Logger.With("component", "history")),
	)

	s.actions = action.NewRegistry()
	s.actions.Register(
		action.Undo(s.hist),
		action.Redo(s.hist),
		action.Save(s.hist, s.doc.Save),
		action.New("delete-selected", s.deleteSelected,
			action.WithDescription("Delete the selected fields"),
			action.WithWatch(s.hist),
			action.NeedsSelection(s.sel)),
	)

	return s
}

// Document returns the edited document.
func (s *Session) Document() *document.Document {
	return s.doc
}

// History returns the session history.
func (s *Session) History() *history.History {
	return s.hist
}

// Selection returns the selected field names.
func (s *Session) Selection() *document.Selection {
	return s.sel
}

// Actions returns the session actions.
func (s *Session) Actions() *action.Registry {
	return s.actions
}

// Grouping reports whether a begin is waiting for its commit.
func (s *Session) Grouping() bool {
	return s.group != nil
}

// Exec runs one input line. Blank lines and lines starting with '#' are
// ignored.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	name, rest := cutWord(line)
	spec, ok := commandTable[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	s.logger.Debug("session command", "command", name)
	return spec.run(s, rest)
}

// Reload replaces the document with the file contents and starts a fresh
// history.
func (s *Session) Reload() error {
	s.group = nil
	if err := s.doc.Reload(); err != nil {
		return err
	}
	s.sel.Clear()
	return s.hist.Reset(true)
}

// ReloadIfChanged reloads the document when its file was modified by
// someone else. It reports whether a reload happened. If the document has
// unsaved edits nothing is reloaded and ErrConflict is returned; the reload
// command discards the edits explicitly.
func (s *Session) ReloadIfChanged() (bool, error) {
	changed, err := s.doc.ChangedOnDisk()
	if err != nil || !changed {
		return false, err
	}
	if s.hist.IsModified() {
		return false, fmt.Errorf("%w: %s", ErrConflict, s.doc.Path())
	}
	if err := s.Reload(); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the session's resources.
func (s *Session) Close() error {
	var errs []error
	errs = append(errs, s.actions.Close())
	if s.lua != nil {
		s.lua.Close()
	}
	return errors.Join(errs...)
}

// Prompt decorates p with the session state.
func (s *Session) Prompt(p string) string {
	var marks string
	if s.hist.IsModified() {
		marks += "*"
	}
	if s.group != nil {
		marks += "+"
	}
	if marks == "" {
		return p
	}
	return marks + " " + p
}

// submit runs cmd through the history, or queues it when grouping.
func (s *Session) submit(cmd command.Command) error {
	if s.group != nil {
		return s.group.Add(cmd)
	}
	return s.hist.Run(cmd)
}

func (s *Session) deleteSelected() error {
	keys := s.sel.Items()
	cmds := make([]command.Command, 0, len(keys))
	for _, k := range keys {
		if _, ok := s.doc.Get(k); ok {
			cmds = append(cmds, document.NewDeleteField(s.doc, k))
		}
	}
	if s.group != nil {
		for _, cmd := range cmds {
			if err := s.group.Add(cmd); err != nil {
				return err
			}
		}
	} else if err := s.hist.RunGrouped("Delete selected", cmds...); err != nil {
		return err
	}
	s.sel.Clear()
	return nil
}

// FormatError renders err for display.
func (s *Session) FormatError(err error) string {
	return s.styles.err.Render("error: " + err.Error())
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// cutWord splits the first whitespace-delimited word from line.
func cutWord(line string) (word, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
