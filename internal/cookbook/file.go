package cookbook

import (
	"errors"
	"os"
	"path/filepath"

	"cookbook/internal/logger"
)

// emptyCatalog is what a freshly created backing file contains.
var emptyCatalog = []byte("[]\n")

// EnsureFile creates the backing file with an empty catalog when it does not
// exist yet, so that Connect never fails on a first run. Missing parent
// directories are created as well. An existing file is left untouched.
func EnsureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return &IOError{Op: "open", Path: path, Err: err}
	}

	logger.Info("creating empty cookbook", "path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, emptyCatalog, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
