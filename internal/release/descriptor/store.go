package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/relman/internal/filesystem"
)

const (
	// DefaultFileNameConstant is the file the descriptor is persisted to inside the working directory.
	DefaultFileNameConstant = "release.yaml"

	storeFilePermissionsConstant           = 0o600
	missingWorkingDirectoryMessageConstant = "release descriptor has no working directory"
	encodeDescriptorTemplateConstant       = "unable to encode release descriptor: %w"
	decodeDescriptorTemplateConstant       = "unable to decode release descriptor %s: %w"
)

// ErrMissingWorkingDirectory indicates a descriptor that cannot be located in the store.
var ErrMissingWorkingDirectory = errors.New(missingWorkingDirectoryMessageConstant)

// Store persists release descriptors keyed by working directory.
type Store interface {
	Read(workingDirectory string) (ReleaseDescriptor, error)
	Write(descriptor ReleaseDescriptor) error
	Delete(workingDirectory string) error
	Path(workingDirectory string) string
}

// FileStore keeps one YAML document per working directory.
type FileStore struct {
	fileSystem filesystem.FileSystem
	fileName   string
}

// NewFileStore constructs a FileStore. Empty file names fall back to release.yaml.
func NewFileStore(fileSystem filesystem.FileSystem, fileName string) *FileStore {
	trimmedFileName := strings.TrimSpace(fileName)
	if len(trimmedFileName) == 0 {
		trimmedFileName = DefaultFileNameConstant
	}
	return &FileStore{fileSystem: filesystem.Resolve(fileSystem), fileName: trimmedFileName}
}

// Path returns the descriptor file location for the working directory.
func (store *FileStore) Path(workingDirectory string) string {
	return filepath.Join(workingDirectory, store.fileName)
}

// Read loads the descriptor persisted for the working directory.
func (store *FileStore) Read(workingDirectory string) (ReleaseDescriptor, error) {
	if len(strings.TrimSpace(workingDirectory)) == 0 {
		return ReleaseDescriptor{}, ErrMissingWorkingDirectory
	}

	descriptorPath := store.Path(workingDirectory)
	content, readError := store.fileSystem.ReadFile(descriptorPath)
	if readError != nil {
		return ReleaseDescriptor{}, readError
	}

	loaded := ReleaseDescriptor{}
	if unmarshalError := yaml.Unmarshal(content, &loaded); unmarshalError != nil {
		return ReleaseDescriptor{}, fmt.Errorf(decodeDescriptorTemplateConstant, descriptorPath, unmarshalError)
	}
	if len(loaded.WorkingDirectory) == 0 {
		loaded.WorkingDirectory = workingDirectory
	}
	return loaded, nil
}

// Write persists the descriptor, replacing any previous document atomically.
func (store *FileStore) Write(descriptor ReleaseDescriptor) error {
	if len(strings.TrimSpace(descriptor.WorkingDirectory)) == 0 {
		return ErrMissingWorkingDirectory
	}

	content, marshalError := yaml.Marshal(descriptor)
	if marshalError != nil {
		return fmt.Errorf(encodeDescriptorTemplateConstant, marshalError)
	}
	return store.fileSystem.WriteFileAtomically(store.Path(descriptor.WorkingDirectory), content, storeFilePermissionsConstant)
}

// Delete removes the persisted descriptor. A missing document is not an error.
func (store *FileStore) Delete(workingDirectory string) error {
	if len(strings.TrimSpace(workingDirectory)) == 0 {
		return ErrMissingWorkingDirectory
	}
	removeError := store.fileSystem.Remove(store.Path(workingDirectory))
	if removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return removeError
	}
	return nil
}
