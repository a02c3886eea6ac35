// Package storage implements the whole-document JSON file store backing the
// credential record and the note collection. A file holds exactly one JSON
// document; every load reads it in full and every save truncates and rewrites
// it in full. There is no locking and no atomic rename, so concurrent writers
// race (last save wins) and a crash mid-write can leave a corrupt file. Both
// properties are accepted limitations of the single-user design.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ParseError reports a file whose contents are non-empty but not valid JSON.
type ParseError struct {
	Path string
	err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("storage: parse %s: %v", e.Path, e.err)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// Load reads the named file and decodes its contents into a value of type T.
// A missing file, or a file whose trimmed contents are empty, yields fallback
// unchanged; fallback is never written back. Malformed contents yield a
// *ParseError.
func Load[T any](path string, fallback T) (T, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("storage: read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fallback, nil
	}

	var value T
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fallback, &ParseError{Path: path, err: err}
	}
	return value, nil
}

// Save encodes value as indent-2 JSON and overwrites the named file in full.
func Save[T any](path string, value T) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return nil
}
