package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoctl/internal/command"
	"github.com/dshills/undoctl/internal/document"
)

// raise converts err into a Lua error. It does not return.
func raise(L *lua.LState, err error) int {
	L.RaiseError("%s", err.Error())
	return 0
}

func (r *Runner) docFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			v, ok := r.doc.Get(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(toLuaValue(L, v))
			return 1
		},
		"set": func(L *lua.LState) int {
			key := L.CheckString(1)
			value := toGoValue(L.CheckAny(2))
			if err := r.hist.Run(document.SetField(r.doc, key, value)); err != nil {
				return raise(L, err)
			}
			return 0
		},
		"delete": func(L *lua.LState) int {
			if err := r.hist.Run(document.NewDeleteField(r.doc, L.CheckString(1))); err != nil {
				return raise(L, err)
			}
			return 0
		},
		"keys": func(L *lua.LState) int {
			t := L.NewTable()
			for _, k := range r.doc.Keys() {
				t.Append(lua.LString(k))
			}
			L.Push(t)
			return 1
		},
	}
}

func (r *Runner) historyFuncs() map[string]lua.LGFunction {
	boolFn := func(fn func() bool) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(lua.LBool(fn()))
			return 1
		}
	}
	errFn := func(fn func() error) lua.LGFunction {
		return func(L *lua.LState) int {
			if err := fn(); err != nil {
				return raise(L, err)
			}
			return 0
		}
	}

	return map[string]lua.LGFunction{
		"undo":     errFn(r.hist.Undo),
		"redo":     errFn(r.hist.Redo),
		"can_undo": boolFn(r.hist.CanUndo),
		"can_redo": boolFn(r.hist.CanRedo),
		"modified": boolFn(r.hist.IsModified),
		"save_point": func(L *lua.LState) int {
			r.hist.SavePoint()
			return 0
		},
		"reset": func(L *lua.LState) int {
			isNew := L.OptBool(1, true)
			if err := r.hist.Reset(isNew); err != nil {
				return raise(L, err)
			}
			return 0
		},
		"position": func(L *lua.LState) int {
			L.Push(lua.LNumber(r.hist.Position()))
			return 1
		},
		"len": func(L *lua.LState) int {
			L.Push(lua.LNumber(r.hist.Len()))
			return 1
		},
		"run": r.runCommand,
	}
}

// errMissingFunction is raised when history.run lacks run or undo.
var errMissingFunction = errors.New("history.run needs run and undo functions")

// runCommand implements history.run{name=, run=, undo=}.
func (r *Runner) runCommand(L *lua.LState) int {
	spec := L.CheckTable(1)
	runFn, okRun := spec.RawGetString("run").(*lua.LFunction)
	undoFn, okUndo := spec.RawGetString("undo").(*lua.LFunction)
	if !okRun || !okUndo {
		return raise(L, errMissingFunction)
	}

	name := "Lua command"
	if s, ok := spec.RawGetString("name").(lua.LString); ok {
		name = string(s)
	}

	cmd := &command.Func{
		Name:     name,
		DoFunc:   r.callback(runFn),
		UndoFunc: r.callback(undoFn),
	}
	if err := r.hist.Run(cmd); err != nil {
		return raise(L, err)
	}
	return 0
}

// callback wraps a Lua function as a Go closure.
func (r *Runner) callback(fn *lua.LFunction) func() error {
	return func() error {
		return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	}
}
