package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	temporaryFilePatternConstant      = ".relman-*.tmp"
	parentDirectoryPermissionConstant = 0o755
	createParentTemplateConstant      = "unable to create directory %s: %w"
	createTemporaryTemplateConstant   = "unable to create temporary file in %s: %w"
	writeTemporaryTemplateConstant    = "unable to write temporary file %s: %w"
	replaceFileTemplateConstant       = "unable to replace %s: %w"
)

// FileSystem exposes the file operations required by release components.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFileAtomically(path string, data []byte, permissions fs.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
	MkdirAll(path string, permissions fs.FileMode) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// Remove deletes a single file. Missing files are not an error.
func (OSFileSystem) Remove(path string) error {
	removeError := os.Remove(path)
	if removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return removeError
	}
	return nil
}

// RemoveAll deletes a path and any children it contains.
func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// WriteFileAtomically writes data next to the target and renames it into place,
// so readers observe either the previous content or the complete new content.
func (OSFileSystem) WriteFileAtomically(path string, data []byte, permissions fs.FileMode) error {
	directory := filepath.Dir(path)
	if mkdirError := os.MkdirAll(directory, parentDirectoryPermissionConstant); mkdirError != nil {
		return fmt.Errorf(createParentTemplateConstant, directory, mkdirError)
	}

	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePatternConstant)
	if createError != nil {
		return fmt.Errorf(createTemporaryTemplateConstant, directory, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf(writeTemporaryTemplateConstant, temporaryPath, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf(writeTemporaryTemplateConstant, temporaryPath, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(writeTemporaryTemplateConstant, temporaryPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, permissions); chmodError != nil {
		return fmt.Errorf(writeTemporaryTemplateConstant, temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf(replaceFileTemplateConstant, path, renameError)
	}
	committed = true
	return nil
}

// Resolve returns the provided filesystem or an OS-backed default.
func Resolve(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return OSFileSystem{}
}
