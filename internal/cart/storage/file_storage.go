package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const FILE_EXTENSION = ".json"
const TEMP_FILE_SUFFIX = "_temp"

type fileStorage struct {
	folderPath string
}

func NewFileStorage(folderPath string) Storage {
	return &fileStorage{folderPath: folderPath}
}

func (fs *fileStorage) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(fs.fileName(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

func (fs *fileStorage) Save(key string, value []byte) error {
	if err := os.MkdirAll(fs.folderPath, 0755); err != nil {
		return err
	}

	// Write to a temp file first so a crash mid-write never leaves a
	// truncated state file behind.
	fileName := fs.fileName(key)
	tempName := fileName + TEMP_FILE_SUFFIX
	if err := os.WriteFile(tempName, value, 0644); err != nil {
		return err
	}
	return os.Rename(tempName, fileName)
}

func (fs *fileStorage) fileName(key string) string {
	return filepath.Join(fs.folderPath, key+FILE_EXTENSION)
}
