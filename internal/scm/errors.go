package scm

import (
	"fmt"
	"strings"
)

const (
	repositoryConfigurationTemplateConstant = "invalid scm url %q: %s"
	unsupportedProviderTemplateConstant     = "no scm provider registered for type %q"
	operationTransportTemplateConstant      = "scm %s failed in phase %s for module %s: %v"
	validationMessagesSeparatorConstant     = "; "
	unspecifiedScopeValueConstant           = "<none>"
)

// RepositoryConfigurationError reports a source URL that no provider can act on.
type RepositoryConfigurationError struct {
	SourceURL          string
	ValidationMessages []string
}

// Error lists the validation messages.
func (configurationError *RepositoryConfigurationError) Error() string {
	return fmt.Sprintf(repositoryConfigurationTemplateConstant, configurationError.SourceURL, strings.Join(configurationError.ValidationMessages, validationMessagesSeparatorConstant))
}

// UnsupportedProviderError reports a provider type without a registered implementation.
type UnsupportedProviderError struct {
	ProviderType string
}

// Error names the provider type.
func (providerError *UnsupportedProviderError) Error() string {
	return fmt.Sprintf(unsupportedProviderTemplateConstant, providerError.ProviderType)
}

// OperationTransportError wraps a provider failure with the operation and scope it happened in.
type OperationTransportError struct {
	Operation Operation
	Scope     OperationScope
	Err       error
}

// Error describes the failed operation.
func (transportError *OperationTransportError) Error() string {
	return fmt.Sprintf(operationTransportTemplateConstant, transportError.Operation, scopeValue(transportError.Scope.Phase), scopeValue(transportError.Scope.Module), transportError.Err)
}

// Unwrap exposes the provider error.
func (transportError *OperationTransportError) Unwrap() error {
	return transportError.Err
}

func scopeValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return unspecifiedScopeValueConstant
	}
	return value
}
