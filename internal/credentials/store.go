package credentials

import "github.com/quillco/pocketnote/internal/storage"

// Store abstracts persistence of the credential record so the service can be
// tested against an in-memory double.
type Store interface {
	// Load returns the persisted record and whether one exists. A missing or
	// empty file reports found == false.
	Load() (Record, bool, error)
	// Save persists the record, overwriting any previous contents.
	Save(Record) error
}

// FileStore persists the record as one JSON object in a flat file.
type FileStore struct {
	path string
}

// NewFileStore constructs a FileStore rooted at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Record, bool, error) {
	// Existence follows the document, not its field values: a record whose
	// fields are all empty is still a persisted record.
	record, err := storage.Load[*Record](s.path, nil)
	if err != nil {
		return Record{}, false, err
	}
	if record == nil {
		return Record{}, false, nil
	}
	return *record, true, nil
}

func (s *FileStore) Save(record Record) error {
	return storage.Save(s.path, record)
}
