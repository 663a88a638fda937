package dependencies

import (
	"io"

	"go.uber.org/zap"

	"github.com/temirov/relman/internal/execshell"
	"github.com/temirov/relman/internal/filesystem"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/phase"
	"github.com/temirov/relman/internal/scm"
	"github.com/temirov/relman/internal/scm/gitprovider"
)

// ScmCollaborators groups the repository configurator and operation executor used by phases.
type ScmCollaborators struct {
	Configurator phase.RepositoryConfigurator
	Executor     phase.OperationExecutor
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human readable mode echoes every git command to the console writer.
func ResolveGitExecutor(existing gitprovider.GitExecutor, logger *zap.Logger, humanReadable bool, console io.Writer) (gitprovider.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadable {
		return shellExecutor.WithObserver(execshell.NewConsoleObserver(console)), nil
	}
	return shellExecutor, nil
}

// ResolveScmCollaborators registers the git provider and builds the configurator and executor.
func ResolveScmCollaborators(gitExecutor gitprovider.GitExecutor, logger *zap.Logger) (ScmCollaborators, error) {
	gitProvider, providerError := gitprovider.NewProvider(gitExecutor)
	if providerError != nil {
		return ScmCollaborators{}, providerError
	}
	registry, registryError := scm.NewProviderRegistry(gitProvider)
	if registryError != nil {
		return ScmCollaborators{}, registryError
	}
	return ScmCollaborators{
		Configurator: scm.NewConfigurator(registry),
		Executor:     scm.NewOperationExecutor(logger),
	}, nil
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing filesystem.FileSystem) filesystem.FileSystem {
	return filesystem.Resolve(existing)
}

// ResolveDescriptorStore returns the provided store or a YAML file store named fileName.
func ResolveDescriptorStore(existing descriptor.Store, fileSystem filesystem.FileSystem, fileName string) descriptor.Store {
	if existing != nil {
		return existing
	}
	return descriptor.NewFileStore(ResolveFileSystem(fileSystem), fileName)
}

// ResolveSleeper returns the provided sleeper or a timer-backed default.
func ResolveSleeper(existing phase.Sleeper) phase.Sleeper {
	if existing != nil {
		return existing
	}
	return phase.TimerSleeper{}
}
