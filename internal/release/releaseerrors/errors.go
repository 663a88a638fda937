package releaseerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/relman/internal/scm"
)

// Kind classifies release failures.
type Kind string

// Known kinds.
const (
	KindConfigurationFailure    Kind = "configuration-failure"
	KindRepositoryConfiguration Kind = "repository-configuration"
	KindUnsupportedProvider     Kind = "unsupported-provider"
	KindScmExecution            Kind = "scm-execution"
	KindScmCommandFailed        Kind = "scm-command-failed"
	KindConfigStore             Kind = "config-store"
	KindUnknown                 Kind = "unknown"
)

const (
	configurationFailureMessageConstant = "release configuration failure"
	scmExecutionMessageConstant         = "scm execution failure"
	scmCommandFailedMessageConstant     = "scm command failed"
	configStoreMessageConstant          = "release descriptor store failure"
	missingReleaseLabelMessageConstant  = "a release label is required"
	missingScmInfoMessageConstant       = "no original scm info is recorded"
	localModificationsMessageConstant   = "Cannot prepare the release because you have local modifications"
	fileListHeaderConstant              = " : \n"
	repositoryMessageConstant           = "unable to configure scm repository"
	incompletePrepareTemplateConstant   = "the preparation step was stopped unexpectedly, last completed phase is %q"
	configStoreTemplateConstant         = "unable to %s release descriptor %s: %v"
	phaseScopeTemplateConstant          = "%s (phase %s)"
	moduleScopeTemplateConstant         = "%s (phase %s, module %s)"
	causeTemplateConstant               = "%s: %v"
	providerMessageTemplateConstant     = "%s: %s"
	fileListSeparatorConstant           = "\n"
)

var (
	// ErrConfigurationFailure matches every configuration failure.
	ErrConfigurationFailure = errors.New(configurationFailureMessageConstant)
	// ErrScmExecution matches provider transport failures.
	ErrScmExecution = errors.New(scmExecutionMessageConstant)
	// ErrScmCommandFailed matches commands the provider refused.
	ErrScmCommandFailed = errors.New(scmCommandFailedMessageConstant)
	// ErrConfigStore matches descriptor persistence failures.
	ErrConfigStore = errors.New(configStoreMessageConstant)
)

// MissingReleaseLabelError reports a phase that needs a label it was not given.
type MissingReleaseLabelError struct {
	Phase     string
	ModuleKey string
}

// Error names the phase and module missing a label.
func (labelError *MissingReleaseLabelError) Error() string {
	return scoped(missingReleaseLabelMessageConstant, labelError.Phase, labelError.ModuleKey)
}

// Is matches ErrConfigurationFailure.
func (labelError *MissingReleaseLabelError) Is(target error) bool {
	return target == ErrConfigurationFailure
}

// MissingOriginalScmInfoError reports a module whose original SCM connections were never recorded.
type MissingOriginalScmInfoError struct {
	Phase     string
	ModuleKey string
}

// Error names the phase and module without SCM info.
func (scmInfoError *MissingOriginalScmInfoError) Error() string {
	return scoped(missingScmInfoMessageConstant, scmInfoError.Phase, scmInfoError.ModuleKey)
}

// Is matches ErrConfigurationFailure.
func (scmInfoError *MissingOriginalScmInfoError) Is(target error) bool {
	return target == ErrConfigurationFailure
}

// LocalModificationsError lists files that block the release.
type LocalModificationsError struct {
	Phase string
	Files []string
}

// Error names the phase and lists the modified files.
func (modificationsError *LocalModificationsError) Error() string {
	var builder strings.Builder
	builder.WriteString(scoped(localModificationsMessageConstant, modificationsError.Phase, ""))
	builder.WriteString(fileListHeaderConstant)
	for _, file := range modificationsError.Files {
		builder.WriteString(file)
		builder.WriteString(fileListSeparatorConstant)
	}
	return builder.String()
}

// Is matches ErrConfigurationFailure.
func (modificationsError *LocalModificationsError) Is(target error) bool {
	return target == ErrConfigurationFailure
}

// IncompletePrepareError reports a perform attempted before preparation finished.
type IncompletePrepareError struct {
	Phase          string
	CompletedPhase string
}

// Error names the last completed phase.
func (prepareError *IncompletePrepareError) Error() string {
	return scoped(fmt.Sprintf(incompletePrepareTemplateConstant, prepareError.CompletedPhase), prepareError.Phase, "")
}

// Is matches ErrConfigurationFailure.
func (prepareError *IncompletePrepareError) Is(target error) bool {
	return target == ErrConfigurationFailure
}

// RepositoryError wraps a failure to resolve the SCM repository of a work unit.
type RepositoryError struct {
	Phase  string
	Module string
	Err    error
}

// Error describes the resolution failure.
func (repositoryError *RepositoryError) Error() string {
	return fmt.Sprintf(causeTemplateConstant, scoped(repositoryMessageConstant, repositoryError.Phase, repositoryError.Module), repositoryError.Err)
}

// Unwrap exposes the resolver error.
func (repositoryError *RepositoryError) Unwrap() error {
	return repositoryError.Err
}

// ScmExecutionError wraps a provider transport failure.
type ScmExecutionError struct {
	Phase   string
	Module  string
	Message string
	Err     error
}

// Error describes the transport failure.
func (executionError *ScmExecutionError) Error() string {
	return fmt.Sprintf(causeTemplateConstant, scoped(executionError.Message, executionError.Phase, executionError.Module), executionError.Err)
}

// Unwrap exposes the transport error.
func (executionError *ScmExecutionError) Unwrap() error {
	return executionError.Err
}

// Is matches ErrScmExecution.
func (executionError *ScmExecutionError) Is(target error) bool {
	return target == ErrScmExecution
}

// ScmCommandFailedError carries the result of a command the provider refused.
type ScmCommandFailedError struct {
	Phase   string
	Module  string
	Message string
	Result  scm.Result
}

// Error includes the provider message when present.
func (commandError *ScmCommandFailedError) Error() string {
	description := scoped(commandError.Message, commandError.Phase, commandError.Module)
	if providerMessage := strings.TrimSpace(commandError.Result.ProviderMessage); len(providerMessage) > 0 {
		return fmt.Sprintf(providerMessageTemplateConstant, description, providerMessage)
	}
	return description
}

// Is matches ErrScmCommandFailed.
func (commandError *ScmCommandFailedError) Is(target error) bool {
	return target == ErrScmCommandFailed
}

// ConfigStoreError reports a failure to read, write or delete the persisted descriptor.
type ConfigStoreError struct {
	Operation string
	Path      string
	Err       error
}

// Error describes the store failure.
func (storeError *ConfigStoreError) Error() string {
	return fmt.Sprintf(configStoreTemplateConstant, storeError.Operation, storeError.Path, storeError.Err)
}

// Unwrap exposes the store error.
func (storeError *ConfigStoreError) Unwrap() error {
	return storeError.Err
}

// Is matches ErrConfigStore.
func (storeError *ConfigStoreError) Is(target error) bool {
	return target == ErrConfigStore
}

// KindOf classifies an error. Repository resolution errors are classified by the scm error they wrap.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var configurationError *scm.RepositoryConfigurationError
	if errors.As(err, &configurationError) {
		return KindRepositoryConfiguration
	}
	var providerError *scm.UnsupportedProviderError
	if errors.As(err, &providerError) {
		return KindUnsupportedProvider
	}

	switch {
	case errors.Is(err, ErrScmCommandFailed):
		return KindScmCommandFailed
	case errors.Is(err, ErrScmExecution):
		return KindScmExecution
	case errors.Is(err, ErrConfigStore):
		return KindConfigStore
	case errors.Is(err, ErrConfigurationFailure):
		return KindConfigurationFailure
	default:
		return KindUnknown
	}
}

func scoped(message string, phase string, module string) string {
	if len(phase) == 0 {
		return message
	}
	if len(module) == 0 {
		return fmt.Sprintf(phaseScopeTemplateConstant, message, phase)
	}
	return fmt.Sprintf(moduleScopeTemplateConstant, message, phase, module)
}
