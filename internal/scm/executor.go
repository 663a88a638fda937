package scm

import (
	"context"

	"go.uber.org/zap"
)

const (
	operationStartedMessageConstant   = "scm operation started"
	operationCompletedMessageConstant = "scm operation completed"
	operationRefusedMessageConstant   = "scm operation refused by provider"
	operationFailedMessageConstant    = "scm operation failed"
	logFieldOperationConstant         = "operation"
	logFieldPhaseConstant             = "phase"
	logFieldModuleConstant            = "module"
	logFieldWorkingDirectoryConstant  = "working_directory"
	logFieldProviderConstant          = "provider"
	logFieldFileCountConstant         = "file_count"
	logFieldProviderMessageConstant   = "provider_message"
)

// OperationExecutor invokes provider primitives and normalizes their outcome.
type OperationExecutor struct {
	logger *zap.Logger
}

// NewOperationExecutor constructs an executor. A nil logger discards log output.
func NewOperationExecutor(logger *zap.Logger) *OperationExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperationExecutor{logger: logger}
}

// Status reports the changed files of the working copy.
func (executor *OperationExecutor) Status(executionContext context.Context, scope OperationScope, repository *Repository, provider Provider, fileSet FileSet) (Result, error) {
	return executor.invoke(scope, OperationStatus, repository, fileSet, func() (Result, error) {
		return provider.Status(executionContext, repository, fileSet)
	})
}

// Tag labels the working copy with tagName.
func (executor *OperationExecutor) Tag(executionContext context.Context, scope OperationScope, repository *Repository, provider Provider, fileSet FileSet, tagName string, parameters TagParameters) (Result, error) {
	return executor.invoke(scope, OperationTag, repository, fileSet, func() (Result, error) {
		return provider.Tag(executionContext, repository, fileSet, tagName, parameters)
	})
}

// Branch creates branchName from the working copy.
func (executor *OperationExecutor) Branch(executionContext context.Context, scope OperationScope, repository *Repository, provider Provider, fileSet FileSet, branchName string, parameters BranchParameters) (Result, error) {
	return executor.invoke(scope, OperationBranch, repository, fileSet, func() (Result, error) {
		return provider.Branch(executionContext, repository, fileSet, branchName, parameters)
	})
}

// Commit records the file set with the provided message.
func (executor *OperationExecutor) Commit(executionContext context.Context, scope OperationScope, repository *Repository, provider Provider, fileSet FileSet, parameters CommitParameters) (Result, error) {
	return executor.invoke(scope, OperationCommit, repository, fileSet, func() (Result, error) {
		return provider.Commit(executionContext, repository, fileSet, parameters)
	})
}

// Checkout materializes the requested revision into the file set base directory.
func (executor *OperationExecutor) Checkout(executionContext context.Context, scope OperationScope, repository *Repository, provider Provider, fileSet FileSet, parameters CheckoutParameters) (Result, error) {
	return executor.invoke(scope, OperationCheckout, repository, fileSet, func() (Result, error) {
		return provider.Checkout(executionContext, repository, fileSet, parameters)
	})
}

func (executor *OperationExecutor) invoke(scope OperationScope, operation Operation, repository *Repository, fileSet FileSet, call func() (Result, error)) (Result, error) {
	logFields := []zap.Field{
		zap.String(logFieldOperationConstant, string(operation)),
		zap.String(logFieldPhaseConstant, scope.Phase),
		zap.String(logFieldModuleConstant, scope.Module),
		zap.String(logFieldWorkingDirectoryConstant, fileSet.BaseDirectory),
	}
	if repository != nil {
		logFields = append(logFields, zap.String(logFieldProviderConstant, repository.ProviderType))
	}
	executor.logger.Debug(operationStartedMessageConstant, logFields...)

	result, callError := call()
	if callError != nil {
		executor.logger.Warn(operationFailedMessageConstant, append(logFields, zap.Error(callError))...)
		return Result{}, &OperationTransportError{Operation: operation, Scope: scope, Err: callError}
	}

	resultFields := append(logFields, zap.Int(logFieldFileCountConstant, len(result.Files)))
	if !result.Success {
		executor.logger.Warn(operationRefusedMessageConstant, append(resultFields, zap.String(logFieldProviderMessageConstant, result.ProviderMessage))...)
		return result, nil
	}
	executor.logger.Info(operationCompletedMessageConstant, resultFields...)
	return result, nil
}
