package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undoctl/internal/action"
	"github.com/dshills/undoctl/internal/document"
)

func newSession(t *testing.T, doc *document.Document) (*Session, *bytes.Buffer) {
	t.Helper()
	if doc == nil {
		doc = document.New()
	}
	var out bytes.Buffer
	s := New(doc, Options{Out: &out})
	t.Cleanup(func() { _ = s.Close() })
	return s, &out
}

func execAll(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, s.Exec(line), line)
	}
}

func TestSetUndoRedo(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "set name ada", "set age 36")
	age, _ := s.Document().Get("age")
	assert.Equal(t, 36, age)

	execAll(t, s, "undo")
	_, ok := s.Document().Get("age")
	assert.False(t, ok)

	execAll(t, s, "redo")
	age, _ = s.Document().Get("age")
	assert.Equal(t, 36, age)
}

func TestUndoDisabledWhenEmpty(t *testing.T) {
	s, _ := newSession(t, nil)

	err := s.Exec("undo")
	assert.ErrorIs(t, err, action.ErrDisabled)
	assert.ErrorIs(t, s.Exec("redo"), action.ErrDisabled)
}

func TestIgnoresBlankAndComments(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "", "   ", "# set x 1")
	assert.Equal(t, 0, s.History().Len())
}

func TestUnknownCommandAndUsage(t *testing.T) {
	s, _ := newSession(t, nil)

	assert.ErrorIs(t, s.Exec("frobnicate"), ErrUnknownCommand)
	assert.ErrorIs(t, s.Exec("set onlykey"), ErrUsage)
	assert.ErrorIs(t, s.Exec("del"), ErrUsage)
	assert.ErrorIs(t, s.Exec("reset sideways"), ErrUsage)
	assert.ErrorIs(t, s.Exec("quit"), ErrQuit)
}

func TestDeleteMissingField(t *testing.T) {
	s, _ := newSession(t, nil)

	assert.ErrorIs(t, s.Exec("del ghost"), document.ErrNoField)
	assert.ErrorIs(t, s.Exec("get ghost"), document.ErrNoField)
	assert.Equal(t, 0, s.History().Len())
}

func TestGetShowQuery(t *testing.T) {
	s, out := newSession(t, nil)

	execAll(t, s, "set b 2", "set a hello", "select a")
	out.Reset()

	execAll(t, s, "get a", "show")
	assert.Equal(t, "hello\n* a = hello\n  b = 2\n", out.String())

	out.Reset()
	execAll(t, s, `set owner {name: ada}`, "query owner.name")
	assert.Equal(t, "ada\n", out.String())
}

func TestGroupCommit(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "begin rename", "set first ada", "set last lovelace")
	assert.True(t, s.Grouping())
	assert.Equal(t, 0, s.History().Len())
	assert.Equal(t, "+ > ", s.Prompt("> "))

	execAll(t, s, "commit")
	assert.False(t, s.Grouping())
	require.Equal(t, 1, s.History().Len())
	assert.Equal(t, "rename", s.History().UndoInfo()[0].Description)

	execAll(t, s, "undo")
	assert.Equal(t, 0, s.Document().Len())
}

func TestGroupErrors(t *testing.T) {
	s, _ := newSession(t, nil)

	assert.ErrorIs(t, s.Exec("commit"), ErrNoGroup)
	assert.ErrorIs(t, s.Exec("abort"), ErrNoGroup)

	execAll(t, s, "begin")
	assert.ErrorIs(t, s.Exec("begin"), ErrGroupOpen)

	execAll(t, s, "set x 1", "abort")
	assert.Equal(t, 0, s.History().Len())
	assert.Equal(t, 0, s.Document().Len())
}

func TestCommitSingleEditKeepsItsDescription(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "begin", "set x 1", "commit", "begin", "commit")
	require.Equal(t, 1, s.History().Len())
	assert.Equal(t, "Update x", s.History().UndoInfo()[0].Description)
}

func TestDeleteSelected(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "set a 1", "set b 2", "set c 3")
	a, ok := s.Actions().Get("delete-selected")
	require.True(t, ok)
	assert.False(t, a.Enabled())
	assert.ErrorIs(t, s.Exec("delete-selected"), action.ErrDisabled)

	execAll(t, s, "select a c")
	assert.True(t, a.Enabled())

	execAll(t, s, "delete-selected")
	assert.Equal(t, []string{"b"}, s.Document().Keys())
	assert.Equal(t, 0, s.Selection().Len())
	assert.False(t, a.Enabled())
	assert.Equal(t, "Delete selected", s.History().UndoInfo()[3].Description)

	execAll(t, s, "undo")
	assert.Equal(t, []string{"a", "b", "c"}, s.Document().Keys())
}

func TestSelectUnknownField(t *testing.T) {
	s, _ := newSession(t, nil)

	assert.ErrorIs(t, s.Exec("select nope"), document.ErrNoField)
	assert.ErrorIs(t, s.Exec("select"), ErrUsage)
	assert.Equal(t, 0, s.Selection().Len())
}

func TestSaveAndRevert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	doc, err := document.Load(path)
	require.NoError(t, err)
	s, _ := newSession(t, doc)

	save, ok := s.Actions().Get("save")
	require.True(t, ok)
	assert.False(t, save.Enabled())

	execAll(t, s, "set x 1")
	assert.True(t, save.Enabled())
	assert.Equal(t, "* > ", s.Prompt("> "))

	execAll(t, s, "save")
	assert.False(t, save.Enabled())
	assert.False(t, s.History().IsModified())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "x: 1")

	execAll(t, s, "set y 2", "set z 3", "revert")
	assert.Equal(t, []string{"x"}, s.Document().Keys())
	assert.False(t, s.History().IsModified())
}

func TestSaveWithoutPath(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "set x 1")
	assert.ErrorIs(t, s.Exec("save"), document.ErrNoPath)
	assert.True(t, s.History().IsModified())

	path := filepath.Join(t.TempDir(), "out.json")
	execAll(t, s, "save "+path)
	assert.Equal(t, path, s.Document().Path())
	assert.False(t, s.History().IsModified())
}

func TestReset(t *testing.T) {
	s, _ := newSession(t, nil)

	execAll(t, s, "set x 1", "reset")
	assert.Equal(t, 0, s.History().Len())
	assert.False(t, s.History().IsModified())

	execAll(t, s, "set y 1", "reset dirty")
	assert.Equal(t, 0, s.History().Len())
	assert.True(t, s.History().IsModified())
}

func TestReloadIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	doc, err := document.Load(path)
	require.NoError(t, err)
	s, _ := newSession(t, doc)

	reloaded, err := s.ReloadIfChanged()
	require.NoError(t, err)
	assert.False(t, reloaded)

	execAll(t, s, "set y 2", "save", "select x")
	reloaded, err = s.ReloadIfChanged()
	require.NoError(t, err)
	assert.False(t, reloaded)

	require.NoError(t, os.WriteFile(path, []byte("z = 3\n"), 0o644))
	reloaded, err = s.ReloadIfChanged()
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, []string{"z"}, s.Document().Keys())
	assert.Equal(t, 0, s.History().Len())
	assert.Equal(t, 0, s.Selection().Len())
}

func TestReloadIfChangedKeepsUnsavedEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))
	doc, err := document.Load(path)
	require.NoError(t, err)
	s, _ := newSession(t, doc)

	execAll(t, s, "set b 2")
	require.NoError(t, os.WriteFile(path, []byte("z = 3\n"), 0o644))

	reloaded, err := s.ReloadIfChanged()
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, reloaded)
	assert.True(t, s.History().IsModified())
	assert.True(t, s.History().CanUndo())
	_, ok := s.Document().Get("b")
	assert.True(t, ok)

	execAll(t, s, "reload")
	assert.Equal(t, []string{"z"}, s.Document().Keys())
	assert.False(t, s.History().CanUndo())
}

func TestFormatError(t *testing.T) {
	s, _ := newSession(t, nil)
	assert.Equal(t, "error: usage: set <key> <value>", s.FormatError(s.Exec("set x")))
}

func TestSourceScript(t *testing.T) {
	s, out := newSession(t, nil)
	path := filepath.Join(t.TempDir(), "edit.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
doc.set("a", 1)
doc.set("b", 2)
print(history.len())
`), 0o644))

	execAll(t, s, "source "+path)
	assert.Equal(t, "2\n", out.String())
	assert.Equal(t, 2, s.History().Len())

	execAll(t, s, "undo", "undo")
	assert.Equal(t, 0, s.Document().Len())
	assert.ErrorIs(t, s.Exec("source"), ErrUsage)
}

func TestStatusLogHelp(t *testing.T) {
	s, out := newSession(t, nil)

	execAll(t, s, "set a 1", "set b 2", "undo")
	out.Reset()
	execAll(t, s, "status")
	status := out.String()
	assert.Contains(t, status, "document: (unsaved)")
	assert.Contains(t, status, "position: 1/2")
	assert.Contains(t, status, "modified: yes")
	assert.Contains(t, status, "actions: redo, save, undo")

	out.Reset()
	execAll(t, s, "log")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Update a")
	assert.Contains(t, lines[1], "position")
	assert.Contains(t, lines[2], "Update b")
	assert.Contains(t, lines[0], s.History().UndoInfo()[0].ID.String()[:8])
	assert.Contains(t, lines[2], s.History().RedoInfo()[0].ID.String()[:8])

	out.Reset()
	execAll(t, s, "help")
	assert.Contains(t, out.String(), "set <key> <value>")
	assert.Contains(t, out.String(), "source <file.lua>")
}

func TestMaxEntries(t *testing.T) {
	s := New(document.New(), Options{MaxEntries: 2})
	defer s.Close()

	execAll(t, s, "set a 1", "set b 2", "set c 3")
	assert.Equal(t, 2, s.History().Len())
	execAll(t, s, "undo", "undo")
	assert.ErrorIs(t, s.Exec("undo"), action.ErrDisabled)
	assert.Equal(t, []string{"a"}, s.Document().Keys())
}

func TestCutWord(t *testing.T) {
	tests := []struct {
		in, word, rest string
	}{
		{"set a b c", "set", "a b c"},
		{"  undo  ", "undo", ""},
		{"set\tkey   value", "set", "key   value"},
		{"", "", ""},
	}
	for _, tt := range tests {
		word, rest := cutWord(tt.in)
		assert.Equal(t, tt.word, word, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}
