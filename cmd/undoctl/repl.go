package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/dshills/undoctl/internal/document"
	"github.com/dshills/undoctl/internal/session"
)

// repl feeds input lines and file change events to a session. All session
// calls happen on the goroutine running run.
type repl struct {
	session *session.Session
	watcher *document.Watcher
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	prompt  string
	logger  *slog.Logger
}

func (r *repl) run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var events <-chan struct{}
	var watchErrs <-chan error
	if r.watcher != nil {
		events = r.watcher.Events()
		watchErrs = r.watcher.Errors()
	}

	interactive := isTerminal(r.in)
	r.showPrompt(interactive)

	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if err := r.session.Exec(line); err != nil {
				if errors.Is(err, session.ErrQuit) {
					return nil
				}
				fmt.Fprintln(r.errOut, r.session.FormatError(err))
			}
			r.showPrompt(interactive)

		case <-events:
			reloaded, err := r.session.ReloadIfChanged()
			if errors.Is(err, session.ErrConflict) {
				r.logger.Warn("document changed on disk, keeping unsaved edits; use 'reload' to discard them",
					"path", r.session.Document().Path())
				continue
			}
			if err != nil {
				r.logger.Warn("reload failed", "error", err)
				continue
			}
			if reloaded {
				r.logger.Info("document changed on disk, reloaded")
				fmt.Fprintln(r.out)
				r.showPrompt(interactive)
			}

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			r.logger.Warn("watch error", "error", err)
		}
	}
}

func (r *repl) showPrompt(interactive bool) {
	if interactive {
		fmt.Fprint(r.out, r.session.Prompt(r.prompt))
	}
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
