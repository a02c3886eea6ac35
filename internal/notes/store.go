package notes

import "github.com/quillco/pocketnote/internal/storage"

// Store abstracts persistence of the note collection. Implementations hold
// the collection as one document: LoadAll always returns every note and
// SaveAll always rewrites every note.
type Store interface {
	LoadAll() ([]Note, error)
	SaveAll([]Note) error
}

// FileStore persists the collection as one JSON array in a flat file.
type FileStore struct {
	path string
}

// NewFileStore constructs a FileStore rooted at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadAll() ([]Note, error) {
	return storage.Load(s.path, []Note{})
}

func (s *FileStore) SaveAll(collection []Note) error {
	return storage.Save(s.path, collection)
}
