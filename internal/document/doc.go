// Package document provides a flat, file-backed record of named fields that
// can be edited through the undo/redo engine.
//
// A Document implements command.Stateful, so any set of field updates can be
// expressed as a command.UpdateState. Documents are stored as YAML, TOML or
// JSON, selected by file extension.
package document
