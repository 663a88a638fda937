package scm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/relman/internal/scm"
)

func TestOperationExecutorNormalizesOutcomes(testInstance *testing.T) {
	scope := scm.OperationScope{Phase: "scm-tag", Module: "org.example:core"}
	repository := &scm.Repository{ProviderType: testProviderTypeConstant}
	fileSet := scm.NewFileSet("/work/core")

	testCases := []struct {
		name          string
		provider      *stubProvider
		expectSuccess bool
		expectError   bool
		expectedLevel zapcore.Level
	}{
		{
			name:          "success",
			provider:      &stubProvider{result: scm.Result{Success: true, Files: []scm.File{{Path: "pom.xml", Status: scm.FileStatusTagged}}}},
			expectSuccess: true,
			expectedLevel: zapcore.InfoLevel,
		},
		{
			name:          "refused",
			provider:      &stubProvider{result: scm.Result{Success: false, ProviderMessage: "tag already exists"}},
			expectedLevel: zapcore.WarnLevel,
		},
		{
			name:          "transport_failure",
			provider:      &stubProvider{resultError: errors.New("connection reset")},
			expectError:   true,
			expectedLevel: zapcore.WarnLevel,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			executor := scm.NewOperationExecutor(zap.New(observerCore))

			result, tagError := executor.Tag(context.Background(), scope, repository, testCase.provider, fileSet, "v1.0", scm.TagParameters{})

			if testCase.expectError {
				var transportError *scm.OperationTransportError
				require.ErrorAs(testInstance, tagError, &transportError)
				require.Equal(testInstance, scm.OperationTag, transportError.Operation)
				require.Equal(testInstance, scope, transportError.Scope)
				require.EqualError(testInstance, tagError, "scm tag failed in phase scm-tag for module org.example:core: connection reset")
			} else {
				require.NoError(testInstance, tagError)
				require.Equal(testInstance, testCase.expectSuccess, result.Success)
			}

			require.Equal(testInstance, []string{"v1.0"}, testCase.provider.recordedNames)
			loggedEntries := observerLogs.All()
			require.Len(testInstance, loggedEntries, 2)
			lastEntry := loggedEntries[1]
			require.Equal(testInstance, testCase.expectedLevel, lastEntry.Level)
			require.Equal(testInstance, "scm-tag", lastEntry.ContextMap()["phase"])
			require.Equal(testInstance, "/work/core", lastEntry.ContextMap()["working_directory"])
		})
	}
}

func TestOperationExecutorDispatchesEveryOperation(testInstance *testing.T) {
	provider := &stubProvider{result: scm.Result{Success: true}}
	executor := scm.NewOperationExecutor(nil)
	executionContext := context.Background()
	repository := &scm.Repository{}
	fileSet := scm.NewFileSet("/work")
	scope := scm.OperationScope{}

	_, statusError := executor.Status(executionContext, scope, repository, provider, fileSet)
	require.NoError(testInstance, statusError)
	_, branchError := executor.Branch(executionContext, scope, repository, provider, fileSet, "release-1.x", scm.BranchParameters{})
	require.NoError(testInstance, branchError)
	_, commitError := executor.Commit(executionContext, scope, repository, provider, fileSet, scm.CommitParameters{Message: "prepare"})
	require.NoError(testInstance, commitError)
	_, checkoutError := executor.Checkout(executionContext, scope, repository, provider, fileSet, scm.CheckoutParameters{Revision: "v1"})
	require.NoError(testInstance, checkoutError)

	require.Equal(testInstance, []scm.Operation{scm.OperationStatus, scm.OperationBranch, scm.OperationCommit, scm.OperationCheckout}, provider.recordedOperations)
}
