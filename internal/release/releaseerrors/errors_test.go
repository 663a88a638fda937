package releaseerrors_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relman/internal/release/releaseerrors"
	"github.com/temirov/relman/internal/scm"
)

const (
	tagPhaseNameConstant  = "scm-tag"
	coreModuleKeyConstant = "org.example:core"
)

func TestKindOfClassifiesErrors(testInstance *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected releaseerrors.Kind
	}{
		{
			name:     "missing_label",
			err:      &releaseerrors.MissingReleaseLabelError{Phase: tagPhaseNameConstant},
			expected: releaseerrors.KindConfigurationFailure,
		},
		{
			name:     "missing_scm_info",
			err:      &releaseerrors.MissingOriginalScmInfoError{Phase: tagPhaseNameConstant, ModuleKey: coreModuleKeyConstant},
			expected: releaseerrors.KindConfigurationFailure,
		},
		{
			name:     "local_modifications",
			err:      &releaseerrors.LocalModificationsError{Phase: "scm-check-modifications", Files: []string{"src/main.go"}},
			expected: releaseerrors.KindConfigurationFailure,
		},
		{
			name:     "incomplete_prepare",
			err:      &releaseerrors.IncompletePrepareError{Phase: "verify-completed-prepare-phases"},
			expected: releaseerrors.KindConfigurationFailure,
		},
		{
			name: "repository_configuration",
			err: &releaseerrors.RepositoryError{
				Phase: tagPhaseNameConstant,
				Err:   &scm.RepositoryConfigurationError{SourceURL: "git:oops", ValidationMessages: []string{"the scm url must start with 'scm:'"}},
			},
			expected: releaseerrors.KindRepositoryConfiguration,
		},
		{
			name:     "unsupported_provider",
			err:      &releaseerrors.RepositoryError{Phase: tagPhaseNameConstant, Err: &scm.UnsupportedProviderError{ProviderType: "svn"}},
			expected: releaseerrors.KindUnsupportedProvider,
		},
		{
			name:     "scm_execution",
			err:      &releaseerrors.ScmExecutionError{Phase: tagPhaseNameConstant, Message: "An error is occurred in the tag process", Err: errors.New("broken pipe")},
			expected: releaseerrors.KindScmExecution,
		},
		{
			name:     "scm_command_failed",
			err:      &releaseerrors.ScmCommandFailedError{Phase: tagPhaseNameConstant, Message: "Unable to tag SCM"},
			expected: releaseerrors.KindScmCommandFailed,
		},
		{
			name:     "config_store",
			err:      fmt.Errorf("resume: %w", &releaseerrors.ConfigStoreError{Operation: "read", Path: "/tmp/release.yaml", Err: fs.ErrNotExist}),
			expected: releaseerrors.KindConfigStore,
		},
		{
			name:     "unknown",
			err:      errors.New("unexpected"),
			expected: releaseerrors.KindUnknown,
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, releaseerrors.KindOf(testCase.err))
		})
	}
}

func TestErrorMessagesNameThePhase(testInstance *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "label_without_module",
			err:      &releaseerrors.MissingReleaseLabelError{Phase: tagPhaseNameConstant},
			expected: "a release label is required (phase scm-tag)",
		},
		{
			name:     "label_with_module",
			err:      &releaseerrors.MissingReleaseLabelError{Phase: tagPhaseNameConstant, ModuleKey: coreModuleKeyConstant},
			expected: "a release label is required (phase scm-tag, module org.example:core)",
		},
		{
			name:     "command_failed_with_provider_message",
			err:      &releaseerrors.ScmCommandFailedError{Phase: tagPhaseNameConstant, Message: "Unable to tag SCM", Result: scm.Result{ProviderMessage: "tag exists\n"}},
			expected: "Unable to tag SCM (phase scm-tag): tag exists",
		},
		{
			name:     "execution_failure",
			err:      &releaseerrors.ScmExecutionError{Phase: "scm-branch", Module: coreModuleKeyConstant, Message: "An error is occurred in the branch process", Err: errors.New("timeout")},
			expected: "An error is occurred in the branch process (phase scm-branch, module org.example:core): timeout",
		},
		{
			name:     "local_modifications",
			err:      &releaseerrors.LocalModificationsError{Files: []string{"a.txt", "b.txt"}},
			expected: "Cannot prepare the release because you have local modifications : \na.txt\nb.txt\n",
		},
		{
			name:     "local_modifications_with_phase",
			err:      &releaseerrors.LocalModificationsError{Phase: "scm-check-modifications", Files: []string{"state.yaml"}},
			expected: "Cannot prepare the release because you have local modifications (phase scm-check-modifications) : \nstate.yaml\n",
		},
		{
			name:     "incomplete_prepare",
			err:      &releaseerrors.IncompletePrepareError{Phase: "verify-completed-prepare-phases", CompletedPhase: "scm-tag"},
			expected: "the preparation step was stopped unexpectedly, last completed phase is \"scm-tag\" (phase verify-completed-prepare-phases)",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.err.Error())
		})
	}
}

func TestErrorsUnwrapToCause(testInstance *testing.T) {
	cause := errors.New("connection reset")

	executionError := &releaseerrors.ScmExecutionError{Phase: tagPhaseNameConstant, Err: cause}
	require.ErrorIs(testInstance, executionError, cause)
	require.ErrorIs(testInstance, executionError, releaseerrors.ErrScmExecution)

	storeError := &releaseerrors.ConfigStoreError{Operation: "write", Path: "release.yaml", Err: cause}
	require.ErrorIs(testInstance, storeError, cause)
	require.ErrorIs(testInstance, storeError, releaseerrors.ErrConfigStore)
	require.Equal(testInstance, "unable to write release descriptor release.yaml: connection reset", storeError.Error())

	var unsupported *scm.UnsupportedProviderError
	repositoryError := &releaseerrors.RepositoryError{Phase: tagPhaseNameConstant, Err: &scm.UnsupportedProviderError{ProviderType: "svn"}}
	require.ErrorAs(testInstance, repositoryError, &unsupported)
	require.Equal(testInstance, "svn", unsupported.ProviderType)
}
