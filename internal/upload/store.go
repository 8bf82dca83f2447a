package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store writes uploaded files under a single directory with generated
// names, so client filenames never touch the filesystem.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save copies the uploaded file to disk and returns its stored name.
// The original extension is kept so previews and downloads keep their
// content type.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	storedName := uuid.New().String() + filepath.Ext(header.Filename)

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("creating stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("writing stored file: %w", err)
	}
	return storedName, nil
}

// Remove deletes a stored file. A missing file is not an error, so
// cleanup after a failed insert cannot fail twice.
func (s *Store) Remove(storedName string) error {
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stored file: %w", err)
	}
	return nil
}

// Path returns the absolute location of a stored file.
func (s *Store) Path(storedName string) string {
	return filepath.Join(s.dir, storedName)
}
