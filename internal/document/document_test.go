package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undoctl/internal/command"
	"github.com/dshills/undoctl/internal/history"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "doc.yaml", "a: 42\nb: spam\n"},
		{"yml", "doc.yml", "a: 42\nb: spam\n"},
		{"toml", "doc.toml", "a = 42\nb = \"spam\"\n"},
		{"json", "doc.json", `{"a": 42, "b": "spam"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, d.Keys())
			b, _ := d.Get("b")
			assert.Equal(t, "spam", b)
			a, ok := d.Query("a")
			assert.True(t, ok)
			assert.Equal(t, "42", a)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, path, d.Path())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "doc.ini", "a=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "doc.json", "{not json"))
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc"+ext)
			d := New()
			d.Set("title", "draft")
			d.Set("count", 3)
			require.NoError(t, d.SaveAs(path))

			changed, err := d.ChangedOnDisk()
			require.NoError(t, err)
			assert.False(t, changed)

			loaded, err := Load(path)
			require.NoError(t, err)
			title, _ := loaded.Get("title")
			assert.Equal(t, "draft", title)
			count, ok := loaded.Query("count")
			assert.True(t, ok)
			assert.Equal(t, "3", count)
		})
	}
}

func TestSave_NoPath(t *testing.T) {
	assert.ErrorIs(t, New().Save(), ErrNoPath)
	assert.ErrorIs(t, New().Reload(), ErrNoPath)
}

func TestChangedOnDisk(t *testing.T) {
	path := writeFile(t, "doc.yaml", "a: 1\n")
	d, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o644))
	changed, err := d.ChangedOnDisk()
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, d.Reload())
	a, _ := d.Get("a")
	assert.Equal(t, 2, a)
}

func TestStateful(t *testing.T) {
	d := New()
	d.Set("a", 42)
	d.Set("b", "spam")

	state, err := d.GetState()
	require.NoError(t, err)
	state["a"] = 0
	a, _ := d.Get("a")
	assert.Equal(t, 42, a, "GetState must return a copy")

	require.NoError(t, d.SetState(command.State{"c": true}))
	assert.Equal(t, []string{"c"}, d.Keys())
}

func TestSetFieldThroughHistory(t *testing.T) {
	d := New()
	d.Set("a", 42)
	d.Set("b", "spam")
	h := history.New()

	require.NoError(t, h.Run(SetField(d, "a", 13)))
	a, _ := d.Get("a")
	b, _ := d.Get("b")
	assert.Equal(t, 13, a)
	assert.Equal(t, "spam", b)

	require.NoError(t, h.Undo())
	a, _ = d.Get("a")
	assert.Equal(t, 42, a)

	require.NoError(t, h.Redo())
	a, _ = d.Get("a")
	assert.Equal(t, 13, a)
}

func TestSetFields(t *testing.T) {
	d := New()
	d.Set("keep", 1)
	cmd := SetFields(d, map[string]any{"x": 1, "y": 2})
	require.NoError(t, cmd.Do())
	assert.Equal(t, []string{"keep", "x", "y"}, d.Keys())
	require.NoError(t, cmd.Undo())
	assert.Equal(t, []string{"keep"}, d.Keys())
}

func TestDeleteField(t *testing.T) {
	d := New()
	d.Set("a", 42)
	cmd := NewDeleteField(d, "a")

	require.NoError(t, cmd.Do())
	_, ok := d.Get("a")
	assert.False(t, ok)
	assert.Equal(t, "Delete a", cmd.Description())

	require.NoError(t, cmd.Undo())
	a, _ := d.Get("a")
	assert.Equal(t, 42, a)

	assert.ErrorIs(t, NewDeleteField(d, "missing").Do(), ErrNoField)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", 42},
		{"1.5", 1.5},
		{"true", true},
		{"spam", "spam"},
		{"null", "null"},
		{"two words", "two words"},
		{"[a, b]", []any{"a", "b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.in), "ParseValue(%q)", tt.in)
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "toml", FormatTOML.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", Format(9).String())
}

func TestSelection(t *testing.T) {
	s := NewSelection()
	var changes int
	s.Subscribe(func() { changes++ })

	s.Add("b", "a")
	s.Add("a")
	assert.Equal(t, 1, changes, "re-adding an item is not a change")
	assert.Equal(t, []string{"a", "b"}, s.Items())
	assert.True(t, s.Has("a"))

	s.Remove("missing")
	assert.Equal(t, 1, changes)
	s.Remove("a")
	assert.Equal(t, 2, changes)
	assert.Equal(t, 1, s.Len())

	s.Clear()
	s.Clear()
	assert.Equal(t, 3, changes)
	assert.Equal(t, 0, s.Len())
}

func TestWatch(t *testing.T) {
	path := writeFile(t, "doc.yaml", "a: 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := Watch(ctx, path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o644))

	select {
	case <-w.Events():
	case err := <-w.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event received")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
