package phase

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/relman/internal/filesystem"
	"github.com/temirov/relman/internal/reactor"
)

const (
	cleanupFailedMessageConstant = "unable to remove release scratch file"
	logFieldPathConstant         = "path"
)

var scratchFileSuffixes = []string{".tag", ".next", ".branch", ".releaseBackup", ".backup"}

// ScratchFileCleaner removes the copies of build files a release leaves next to them.
type ScratchFileCleaner struct {
	fileSystem filesystem.FileSystem
}

// NewScratchFileCleaner constructs a cleaner. A nil filesystem uses the operating system.
func NewScratchFileCleaner(fileSystem filesystem.FileSystem) ScratchFileCleaner {
	return ScratchFileCleaner{fileSystem: filesystem.Resolve(fileSystem)}
}

// Clean removes every scratch copy of each module build file. Failures are logged and skipped.
func (cleaner ScratchFileCleaner) Clean(logger *zap.Logger, modules []reactor.Module) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, module := range modules {
		buildFilePath := filepath.Join(module.BaseDirectory, module.BuildFileName())
		for _, suffix := range scratchFileSuffixes {
			scratchPath := buildFilePath + suffix
			if removeError := cleaner.fileSystem.Remove(scratchPath); removeError != nil {
				logger.Warn(cleanupFailedMessageConstant, zap.String(logFieldPathConstant, scratchPath), zap.String(logFieldModuleConstant, module.Key()), zap.Error(removeError))
			}
		}
	}
}
