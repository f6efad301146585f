package uploadstore

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// URLPrefix is the path uploads are served under.
const URLPrefix = "/uploads"

// Store persists processed upload data under a single directory and hands
// back the URL path the file is served at.
type Store struct {
	dir string
}

// New creates the uploads directory if needed and verifies it is writable.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create uploads directory: %s", dir)
	}

	testFile := filepath.Join(dir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return nil, errors.Wrapf(err, "uploads directory is not writable: %s", dir)
	}
	f.Close()
	if err := os.Remove(testFile); err != nil {
		return nil, errors.Wrapf(err, "failed to clean up write test file: %s", testFile)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a fresh unique name with the given extension and
// returns the URL path clients can fetch it from.
func (s *Store) Save(data []byte, ext string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.WithStack(err)
	}

	name := id.String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", errors.WithStack(err)
	}

	return URLPrefix + "/" + name, nil
}
