// Package notes implements the note collection and its list, search, add,
// edit, and delete operations. Every operation loads the whole collection
// from the store, transforms it in memory, and (for mutations) writes the
// whole collection back. The file is the sole source of truth; nothing is
// cached between calls.
package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	errMissingStore      = errors.New("note store is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew = "notes.service.new"
	opList       = "notes.list"
	opAdd        = "notes.add"
	opEdit       = "notes.edit"
	opDelete     = "notes.delete"
)

// ServiceError carries an operation-scoped error code alongside its cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the note service.
type ServiceConfig struct {
	Store      Store
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service exposes the note collection operations over an injected store.
type Service struct {
	store      Store
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService constructs the note service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		store:      cfg.Store,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// List returns the collection in storage order. A non-empty query keeps only
// notes whose lower-cased title or content contains the lower-cased query.
func (s *Service) List(query string) ([]Note, error) {
	collection, err := s.store.LoadAll()
	if err != nil {
		s.logError(opList, "load_failed", err)
		return nil, newServiceError(opList, "load_failed", err)
	}

	needle := strings.ToLower(query)
	if needle == "" {
		return collection, nil
	}

	filtered := make([]Note, 0, len(collection))
	for _, note := range collection {
		if strings.Contains(strings.ToLower(note.Title), needle) ||
			strings.Contains(strings.ToLower(note.Content), needle) {
			filtered = append(filtered, note)
		}
	}
	return filtered, nil
}

// Add appends a new note with a fresh identifier and a timestamp captured at
// the moment of the call, then persists the full collection.
func (s *Service) Add(title, content string) (Note, error) {
	collection, err := s.store.LoadAll()
	if err != nil {
		s.logError(opAdd, "load_failed", err)
		return Note{}, newServiceError(opAdd, "load_failed", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAdd, "id_generation_failed", err)
		return Note{}, newServiceError(opAdd, "id_generation_failed", err)
	}

	note := Note{
		ID:      id,
		Title:   title,
		Content: content,
		Time:    s.clock().Format(TimestampLayout),
	}
	collection = append(collection, note)

	if err := s.store.SaveAll(collection); err != nil {
		s.logError(opAdd, "save_failed", err, zap.String("note_id", note.ID))
		return Note{}, newServiceError(opAdd, "save_failed", err)
	}

	s.logger.Debug("note added", zap.String("note_id", note.ID))
	return note, nil
}

// Edit overwrites title and content in place on every note matching the id,
// leaving the timestamp untouched, then persists the full collection. An
// unknown id persists the collection unchanged.
func (s *Service) Edit(id, title, content string) error {
	collection, err := s.store.LoadAll()
	if err != nil {
		s.logError(opEdit, "load_failed", err, zap.String("note_id", id))
		return newServiceError(opEdit, "load_failed", err)
	}

	for i := range collection {
		if collection[i].ID == id {
			collection[i].Title = title
			collection[i].Content = content
		}
	}

	if err := s.store.SaveAll(collection); err != nil {
		s.logError(opEdit, "save_failed", err, zap.String("note_id", id))
		return newServiceError(opEdit, "save_failed", err)
	}
	return nil
}

// Delete retains every note whose id differs, then persists the result. An
// unknown id is a silent no-op.
func (s *Service) Delete(id string) error {
	collection, err := s.store.LoadAll()
	if err != nil {
		s.logError(opDelete, "load_failed", err, zap.String("note_id", id))
		return newServiceError(opDelete, "load_failed", err)
	}

	remaining := make([]Note, 0, len(collection))
	for _, note := range collection {
		if note.ID != id {
			remaining = append(remaining, note)
		}
	}

	if err := s.store.SaveAll(remaining); err != nil {
		s.logError(opDelete, "save_failed", err, zap.String("note_id", id))
		return newServiceError(opDelete, "save_failed", err)
	}
	return nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("notes service error", attrs...)
}
