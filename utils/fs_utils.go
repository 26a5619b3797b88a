package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CreateFile creates (or truncates) fileName inside directory, creating the directory first if needed. If directory
// is the empty string, the file is created in the current working directory.
func CreateFile(directory string, fileName string) (*os.File, error) {
	filePath := fileName
	if directory != "" {
		if err := MakeDirectory(directory); err != nil {
			return nil, err
		}
		filePath = filepath.Join(directory, fileName)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return file, nil
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist. It is a
// no-op if the directory exists already, and an error if a non-directory file exists at the path.
func MakeDirectory(directory string) error {
	info, err := os.Stat(directory)
	if os.IsNotExist(err) {
		return errors.WithStack(os.MkdirAll(directory, 0755))
	} else if err != nil {
		return errors.WithStack(err)
	}

	if !info.IsDir() {
		return errors.Errorf("cannot create directory %s, a file with the same name exists", directory)
	}
	return nil
}

// MakeParentDirectory creates the directory containing filePath, if it does not exist.
func MakeParentDirectory(filePath string) error {
	directory := filepath.Dir(filePath)
	if directory == "." || directory == "" {
		return nil
	}
	return MakeDirectory(directory)
}
