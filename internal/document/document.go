package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/zeebo/blake3"

	"github.com/dshills/undoctl/internal/command"
)

// Errors returned by document operations.
var (
	// ErrNoPath indicates a save was attempted on a document with no file.
	ErrNoPath = errors.New("document has no file path")

	// ErrNoField indicates a field does not exist.
	ErrNoField = errors.New("no such field")
)

// Document is a record of named fields.
type Document struct {
	path   string
	fields map[string]any

	// diskSum is the hash of the bytes last read from or written to path.
	diskSum [32]byte
}

// New creates an empty document that is not backed by a file.
func New() *Document {
	return &Document{fields: make(map[string]any)}
}

// Load reads a document from path. A missing file yields an empty document
// bound to path.
func Load(path string) (*Document, error) {
	d := &Document{path: path, fields: make(map[string]any)}
	if err := d.Reload(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, err
	}
	return d, nil
}

// Path returns the backing file path, if any.
func (d *Document) Path() string {
	return d.path
}

// Get returns the value of a field.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Set assigns a field directly, bypassing history.
func (d *Document) Set(key string, value any) {
	d.fields[key] = value
}

// Delete removes a field directly, bypassing history.
func (d *Document) Delete(key string) bool {
	if _, ok := d.fields[key]; !ok {
		return false
	}
	delete(d.fields, key)
	return true
}

// Keys returns the field names in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.fields)
}

// GetState implements command.Stateful.
func (d *Document) GetState() (command.State, error) {
	return command.State(d.fields).Clone(), nil
}

// SetState implements command.Stateful. All fields are replaced.
func (d *Document) SetState(s command.State) error {
	d.fields = map[string]any(s.Clone())
	return nil
}

// Query evaluates a gjson path against the JSON form of the document.
func (d *Document) Query(path string) (string, bool) {
	data, err := json.Marshal(d.fields)
	if err != nil {
		return "", false
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// Save writes the document to its path.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to path and binds it to that path.
func (d *Document) SaveAs(path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := format.Encode(d.fields)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	d.path = path
	d.diskSum = blake3.Sum256(data)
	return nil
}

// Reload replaces all fields with the contents of the backing file.
func (d *Document) Reload() error {
	if d.path == "" {
		return ErrNoPath
	}
	format, err := FormatFor(d.path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.path, err)
	}
	fields, err := format.Decode(data)
	if err != nil {
		return &ParseError{Path: d.path, Err: err}
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	d.fields = fields
	d.diskSum = blake3.Sum256(data)
	return nil
}

// ChangedOnDisk reports whether the backing file differs from what the
// document last read or wrote.
func (d *Document) ChangedOnDisk() (bool, error) {
	if d.path == "" {
		return false, ErrNoPath
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		return false, err
	}
	return blake3.Sum256(data) != d.diskSum, nil
}

// ParseError describes a document file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
