// Package script runs Lua scripts against a document and its history.
//
// Scripts see two global modules:
//
//	doc.get(key)              doc.set(key, value)
//	doc.delete(key)           doc.keys()
//
//	history.undo()            history.redo()
//	history.can_undo()        history.can_redo()
//	history.modified()        history.save_point()
//	history.reset([is_new])   history.position()
//	history.run{name = "...", run = function() end, undo = function() end}
//
// Every doc mutation goes through the history and can be undone. The Lua
// state is sandboxed: io, os, debug and package are not available.
//
// gopher-lua states are not goroutine-safe; a Runner must be used from a
// single goroutine.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoctl/internal/document"
	"github.com/dshills/undoctl/internal/history"
)

// Runner executes Lua code bound to a document and history.
type Runner struct {
	L    *lua.LState
	ctx  context.Context
	doc  *document.Document
	hist *history.History
	out  io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput redirects Lua print output. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithContext bounds every script and Lua command run by r. Once ctx is
// done, running Lua code fails with the context error.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// New creates a sandboxed Lua runner.
func New(doc *document.Document, hist *history.History, opts ...Option) (*Runner, error) {
	r := &Runner{
		doc:  doc,
		hist: hist,
		out:  os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	if r.ctx != nil {
		L.SetContext(r.ctx)
	}
	r.L = L

	L.SetGlobal("print", L.NewFunction(r.print))
	L.SetGlobal("doc", L.SetFuncs(L.NewTable(), r.docFuncs()))
	L.SetGlobal("history", L.SetFuncs(L.NewTable(), r.historyFuncs()))

	return r, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Base library loaders that reach the file system
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString executes a Lua chunk.
func (r *Runner) DoString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return &Error{Source: "<string>", Err: err}
	}
	return nil
}

// DoFile executes a Lua file.
func (r *Runner) DoFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	fn, err := r.L.Load(strings.NewReader(string(src)), path)
	if err != nil {
		return &Error{Source: path, Err: err}
	}
	r.L.Push(fn)
	if err := r.L.PCall(0, lua.MultRet, nil); err != nil {
		return &Error{Source: path, Err: err}
	}
	return nil
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.L.Close()
}

func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

// Error wraps a failure raised while running a script.
type Error struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
