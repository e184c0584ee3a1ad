// Package files provides the filesystem capability used by the move service.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Files is the set of filesystem operations a move needs.
// Paths are absolute; callers resolve them against the project root first.
type Files interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Delete(path string) error
	EnsureDirectory(path string) error
}

// RealPather is implemented by a Files whose paths can pass through symlinks.
// RealPath returns path with every symlink in its existing prefix resolved.
type RealPather interface {
	RealPath(path string) (string, error)
}

// Service implements Files on top of an afero filesystem.
type Service struct {
	fs afero.Fs
}

// New creates a Service over fsys. A nil fsys means the host filesystem.
func New(fsys afero.Fs) *Service {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Service{fs: fsys}
}

// Exists checks if a file or directory exists at path.
func (s *Service) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// Read returns the full contents of the file at path.
func (s *Service) Read(path string) ([]byte, error) {
	isDir, err := afero.IsDir(s.fs, path)
	if err == nil && isDir {
		return nil, fmt.Errorf("cannot read directory as file: %s", path)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("permission denied: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %s - %w", path, err)
	}
	return data, nil
}

// Write creates or truncates the file at path with data.
// The parent directory must already exist.
func (s *Service) Write(path string, data []byte) error {
	if err := afero.WriteFile(s.fs, path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write file: %s - %w", path, err)
	}
	return nil
}

// Delete removes the file at path.
func (s *Service) Delete(path string) error {
	isDir, err := afero.IsDir(s.fs, path)
	if err == nil && isDir {
		return fmt.Errorf("cannot delete: %s is not a file", path)
	}

	if err := s.fs.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to delete file: %s - %w", path, err)
	}
	return nil
}

// EnsureDirectory creates path and any missing parents.
func (s *Service) EnsureDirectory(path string) error {
	if err := s.fs.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %s - %w", path, err)
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to create directory: %s - %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("failed to create directory: %s - %w", path, os.ErrExist)
	}
	return nil
}

// RealPath resolves symlinks in the deepest existing ancestor of path and
// rejoins the components that do not exist yet. Filesystems other than the
// host one have no symlinks, so the cleaned path is returned unchanged.
func (s *Service) RealPath(path string) (string, error) {
	path = filepath.Clean(path)
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return path, nil
	}

	existing, rest := path, ""
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return path, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %s - %w", path, err)
	}
	return filepath.Join(resolved, rest), nil
}
