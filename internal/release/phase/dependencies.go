package phase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/relman/internal/filesystem"
	"github.com/temirov/relman/internal/scm"
)

const (
	configuratorMissingMessageConstant = "release phases require a repository configurator"
	executorMissingMessageConstant     = "release phases require an scm operation executor"
)

var (
	errConfiguratorMissing = errors.New(configuratorMissingMessageConstant)
	errExecutorMissing     = errors.New(executorMissingMessageConstant)
)

// RepositoryConfigurator resolves an SCM source URL into a repository handle and its provider.
type RepositoryConfigurator interface {
	ConfigureRepository(sourceURL string, credentials scm.Credentials) (*scm.Repository, scm.Provider, error)
}

// OperationExecutor runs provider primitives.
type OperationExecutor interface {
	Status(executionContext context.Context, scope scm.OperationScope, repository *scm.Repository, provider scm.Provider, fileSet scm.FileSet) (scm.Result, error)
	Tag(executionContext context.Context, scope scm.OperationScope, repository *scm.Repository, provider scm.Provider, fileSet scm.FileSet, tagName string, parameters scm.TagParameters) (scm.Result, error)
	Branch(executionContext context.Context, scope scm.OperationScope, repository *scm.Repository, provider scm.Provider, fileSet scm.FileSet, branchName string, parameters scm.BranchParameters) (scm.Result, error)
	Commit(executionContext context.Context, scope scm.OperationScope, repository *scm.Repository, provider scm.Provider, fileSet scm.FileSet, parameters scm.CommitParameters) (scm.Result, error)
	Checkout(executionContext context.Context, scope scm.OperationScope, repository *scm.Repository, provider scm.Provider, fileSet scm.FileSet, parameters scm.CheckoutParameters) (scm.Result, error)
}

// Dependencies holds the collaborators shared by SCM phases.
// DescriptorFileName is the file the descriptor store writes; the modification check ignores it.
type Dependencies struct {
	Configurator       RepositoryConfigurator
	Executor           OperationExecutor
	FileSystem         filesystem.FileSystem
	Sleeper            Sleeper
	Logger             *zap.Logger
	DescriptorFileName string
}

func (dependencies Dependencies) resolve() (Dependencies, error) {
	if dependencies.Configurator == nil {
		return Dependencies{}, errConfiguratorMissing
	}
	if dependencies.Executor == nil {
		return Dependencies{}, errExecutorMissing
	}
	dependencies.FileSystem = filesystem.Resolve(dependencies.FileSystem)
	if dependencies.Sleeper == nil {
		dependencies.Sleeper = TimerSleeper{}
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return dependencies, nil
}

// NewDefaultPhases builds every phase the prepare, branch and perform workflows use.
// finalPreparePhaseName is the marker perform expects; it defaults to end-release.
func NewDefaultPhases(dependencies Dependencies, finalPreparePhaseName string) ([]Phase, error) {
	resolvedDependencies, resolveError := dependencies.resolve()
	if resolveError != nil {
		return nil, resolveError
	}
	if len(finalPreparePhaseName) == 0 {
		finalPreparePhaseName = EndReleasePhaseNameConstant
	}
	return []Phase{
		newCheckModificationsPhase(resolvedDependencies),
		newCommitReleasePhase(resolvedDependencies),
		newTagPhase(resolvedDependencies),
		newBranchPhase(resolvedDependencies),
		newCommitDevelopmentPhase(resolvedDependencies),
		EndReleasePhase{},
		NewVerifyCompletedPreparePhase(finalPreparePhaseName),
		newCheckoutProjectPhase(resolvedDependencies),
	}, nil
}
