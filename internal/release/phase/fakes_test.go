package phase_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/temirov/relman/internal/filesystem"
	"github.com/temirov/relman/internal/scm"
)

type configuredRepositoryRequest struct {
	sourceURL   string
	credentials scm.Credentials
	repository  *scm.Repository
}

type recordingConfigurator struct {
	configureError error
	requests       []*configuredRepositoryRequest
}

func (configurator *recordingConfigurator) ConfigureRepository(sourceURL string, credentials scm.Credentials) (*scm.Repository, scm.Provider, error) {
	if configurator.configureError != nil {
		return nil, nil, configurator.configureError
	}
	repository := &scm.Repository{ProviderType: "git", SourceURL: sourceURL, Credentials: credentials}
	configurator.requests = append(configurator.requests, &configuredRepositoryRequest{sourceURL: sourceURL, credentials: credentials, repository: repository})
	return repository, nil, nil
}

type recordedOperation struct {
	operation   scm.Operation
	scope       scm.OperationScope
	fileSet     scm.FileSet
	name        string
	message     string
	revision    string
	remote      bool
	pushChanges bool
}

type recordingExecutor struct {
	operations   []recordedOperation
	results      []scm.Result
	errors       []error
	statusResult scm.Result
	statusError  error
}

func (executor *recordingExecutor) next(operation recordedOperation) (scm.Result, error) {
	executor.operations = append(executor.operations, operation)
	if len(executor.errors) > 0 {
		nextError := executor.errors[0]
		executor.errors = executor.errors[1:]
		if nextError != nil {
			return scm.Result{}, nextError
		}
	}
	if len(executor.results) > 0 {
		nextResult := executor.results[0]
		executor.results = executor.results[1:]
		return nextResult, nil
	}
	return scm.Result{Success: true}, nil
}

func (executor *recordingExecutor) Status(_ context.Context, scope scm.OperationScope, repository *scm.Repository, _ scm.Provider, fileSet scm.FileSet) (scm.Result, error) {
	executor.operations = append(executor.operations, recordedOperation{operation: scm.OperationStatus, scope: scope, fileSet: fileSet, pushChanges: repository.PushChanges()})
	if executor.statusError != nil {
		return scm.Result{}, executor.statusError
	}
	return executor.statusResult, nil
}

func (executor *recordingExecutor) Tag(_ context.Context, scope scm.OperationScope, repository *scm.Repository, _ scm.Provider, fileSet scm.FileSet, tagName string, parameters scm.TagParameters) (scm.Result, error) {
	return executor.next(recordedOperation{operation: scm.OperationTag, scope: scope, fileSet: fileSet, name: tagName, message: parameters.Message, revision: parameters.Revision, remote: parameters.Remote, pushChanges: repository.PushChanges()})
}

func (executor *recordingExecutor) Branch(_ context.Context, scope scm.OperationScope, repository *scm.Repository, _ scm.Provider, fileSet scm.FileSet, branchName string, parameters scm.BranchParameters) (scm.Result, error) {
	return executor.next(recordedOperation{operation: scm.OperationBranch, scope: scope, fileSet: fileSet, name: branchName, message: parameters.Message, revision: parameters.Revision, remote: parameters.Remote, pushChanges: repository.PushChanges()})
}

func (executor *recordingExecutor) Commit(_ context.Context, scope scm.OperationScope, repository *scm.Repository, _ scm.Provider, fileSet scm.FileSet, parameters scm.CommitParameters) (scm.Result, error) {
	return executor.next(recordedOperation{operation: scm.OperationCommit, scope: scope, fileSet: fileSet, message: parameters.Message, revision: parameters.Revision, pushChanges: repository.PushChanges()})
}

func (executor *recordingExecutor) Checkout(_ context.Context, scope scm.OperationScope, repository *scm.Repository, _ scm.Provider, fileSet scm.FileSet, parameters scm.CheckoutParameters) (scm.Result, error) {
	return executor.next(recordedOperation{operation: scm.OperationCheckout, scope: scope, fileSet: fileSet, revision: parameters.Revision, pushChanges: repository.PushChanges()})
}

type recordingSleeper struct {
	durations []time.Duration
}

func (sleeper *recordingSleeper) Sleep(_ context.Context, duration time.Duration) {
	sleeper.durations = append(sleeper.durations, duration)
}

type recordingFileSystem struct {
	filesystem.OSFileSystem
	removed     []string
	removeError error
	removedAll  []string
}

func (fileSystem *recordingFileSystem) Remove(path string) error {
	fileSystem.removed = append(fileSystem.removed, path)
	return fileSystem.removeError
}

func (fileSystem *recordingFileSystem) RemoveAll(path string) error {
	fileSystem.removedAll = append(fileSystem.removedAll, path)
	return nil
}

func (fileSystem *recordingFileSystem) MkdirAll(string, fs.FileMode) error {
	return nil
}

type recordingReporter struct {
	lines []string
}

func (reporter *recordingReporter) Printf(format string, args ...any) {
	reporter.lines = append(reporter.lines, fmt.Sprintf(format, args...))
}

var errTransport = errors.New("connection reset by peer")
