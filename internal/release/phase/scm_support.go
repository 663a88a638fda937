package phase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/releaseerrors"
	"github.com/temirov/relman/internal/release/strategy"
	"github.com/temirov/relman/internal/scm"
)

const (
	messageSeparatorConstant = " "
)

// scmSupport resolves repositories and classifies provider outcomes for one phase.
type scmSupport struct {
	phaseName    string
	dependencies Dependencies
}

func (support scmSupport) repository(sourceURL string, moduleKey string, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment) (*scm.Repository, scm.Provider, error) {
	repository, provider, configureError := support.dependencies.Configurator.ConfigureRepository(sourceURL, environment.ResolveCredentials(releaseDescriptor))
	if configureError != nil {
		return nil, nil, &releaseerrors.RepositoryError{Phase: support.phaseName, Module: moduleKey, Err: configureError}
	}
	repository.SetPushChanges(releaseDescriptor.PushChanges)
	return repository, provider, nil
}

func (support scmSupport) scope(moduleKey string) scm.OperationScope {
	return scm.OperationScope{Phase: support.phaseName, Module: moduleKey}
}

// classify converts a provider outcome into the release error taxonomy.
func (support scmSupport) classify(moduleKey string, result scm.Result, operationError error, executionMessage string, refusalMessage string) error {
	if operationError != nil {
		return &releaseerrors.ScmExecutionError{Phase: support.phaseName, Module: moduleKey, Message: executionMessage, Err: operationError}
	}
	if !result.Success {
		return &releaseerrors.ScmCommandFailedError{Phase: support.phaseName, Module: moduleKey, Message: refusalMessage, Result: result}
	}
	return nil
}

func (support scmSupport) planner() strategy.Planner {
	return strategy.NewPlanner(support.phaseName)
}

// requireLabels checks that every label the phase will use is present.
func (support scmSupport) requireLabels(releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) error {
	if !releaseDescriptor.CommitByProject {
		if len(strings.TrimSpace(releaseDescriptor.ReleaseLabel)) == 0 {
			return &releaseerrors.MissingReleaseLabelError{Phase: support.phaseName}
		}
		return nil
	}
	for _, module := range modules {
		if _, found := releaseDescriptor.ReleaseLabelFor(module.Key()); !found {
			return &releaseerrors.MissingReleaseLabelError{Phase: support.phaseName, ModuleKey: module.Key()}
		}
	}
	return nil
}

func (support scmSupport) wait(executionContext context.Context, phaseRecorder *recorder, releaseDescriptor descriptor.ReleaseDescriptor, announcement string) {
	if releaseDescriptor.WaitBeforeTagging <= 0 {
		return
	}
	phaseRecorder.info(announcement)
	support.dependencies.Sleeper.Sleep(executionContext, releaseDescriptor.WaitBeforeTagging)
}

// composeMessage prefixes a commit, tag or branch message with the configured comment prefix.
func composeMessage(commentPrefix string, body string) string {
	trimmedPrefix := strings.TrimSpace(commentPrefix)
	if len(trimmedPrefix) == 0 {
		return body
	}
	return trimmedPrefix + messageSeparatorConstant + body
}

// buildFiles lists the build descriptors of the unit's modules relative to its working directory.
func buildFiles(unit strategy.WorkUnit) []string {
	files := make([]string, 0, len(unit.Modules))
	for _, module := range unit.Modules {
		buildFilePath := filepath.Join(module.BaseDirectory, module.BuildFileName())
		relativePath, relativeError := filepath.Rel(unit.WorkingDirectory, buildFilePath)
		if relativeError != nil {
			relativePath = buildFilePath
		}
		files = append(files, filepath.ToSlash(relativePath))
	}
	return files
}
