// Package main is the entry point for undoctl, an interactive editor for
// YAML, TOML and JSON documents with unlimited undo and redo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/dshills/undoctl/internal/config"
	"github.com/dshills/undoctl/internal/document"
	"github.com/dshills/undoctl/internal/logging"
	"github.com/dshills/undoctl/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	scriptPath string
	maxEntries int
	watch      bool
	noColor    bool
	document   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flagSet := pflag.NewFlagSet("undoctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() { printHelp(flagSet, stderr) }

	var opts options
	var showVersion bool
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "path to an additional TOML config file")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flagSet.StringVar(&opts.logFormat, "log-format", "", "log format (auto, text, json)")
	flagSet.StringVarP(&opts.scriptPath, "script", "s", "", "Lua script to run before reading commands")
	flagSet.IntVar(&opts.maxEntries, "max-entries", 0, "maximum number of undo steps (0 is unlimited)")
	flagSet.BoolVarP(&opts.watch, "watch", "w", false, "reload the document when it changes on disk")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "disable styled output")
	flagSet.BoolVarP(&showVersion, "version", "v", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "undoctl: %v\n", err)
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "undoctl %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	switch flagSet.NArg() {
	case 0:
	case 1:
		opts.document = flagSet.Arg(0)
	default:
		fmt.Fprintf(stderr, "undoctl: expected at most one document, got %d\n", flagSet.NArg())
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "undoctl: %v\n", err)
		return 1
	}
	applyFlags(cfg, flagSet, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "undoctl: %v\n", err)
		return 2
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	slog.SetDefault(logger)

	doc := document.New()
	if opts.document != "" {
		doc, err = document.Load(opts.document)
		if err != nil {
			logger.Error("failed to load document", "path", opts.document, "error", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := session.New(doc, session.Options{
		Context:    ctx,
		MaxEntries: cfg.History.MaxEntries,
		Logger:     logger,
		Out:        stdout,
		Color:      cfg.Session.Color,
	})
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("session close", "error", err)
		}
	}()

	if opts.scriptPath != "" {
		if err := s.Exec("source " + opts.scriptPath); err != nil {
			logger.Error("script failed", "path", opts.scriptPath, "error", err)
			return 1
		}
	}

	r := &repl{
		session: s,
		in:      stdin,
		out:     stdout,
		errOut:  stderr,
		prompt:  cfg.Session.Prompt,
		logger:  logger,
	}
	if cfg.Session.Watch && doc.Path() != "" {
		w, err := document.Watch(ctx, doc.Path())
		if err != nil {
			logger.Warn("document watch disabled", "path", doc.Path(), "error", err)
		} else {
			defer w.Close()
			r.watcher = w
		}
	}

	if err := r.run(ctx); err != nil {
		logger.Error("session ended", "error", err)
		return 1
	}
	if s.History().IsModified() {
		logger.Warn("exiting with unsaved changes", "path", doc.Path())
	}
	return 0
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, opts options) {
	if flagSet.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flagSet.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if flagSet.Changed("max-entries") {
		cfg.History.MaxEntries = opts.maxEntries
	}
	if flagSet.Changed("watch") {
		cfg.Session.Watch = opts.watch
	}
	if opts.noColor {
		cfg.Session.Color = false
	}
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "undoctl - edit structured documents with undo and redo\n\n")
	fmt.Fprintf(w, "Usage: undoctl [options] [document.{yaml,toml,json}]\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprint(w, flagSet.FlagUsages())
	fmt.Fprintf(w, "\nType 'help' at the prompt for the list of commands.\n")
}
