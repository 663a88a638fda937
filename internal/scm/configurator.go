package scm

import (
	"strings"
)

const (
	scmURLPrefixConstant              = "scm"
	scmURLDelimiterConstant           = ":"
	missingScmPrefixMessageConstant   = "the scm url must start with 'scm:'"
	missingProviderMessageConstant    = "the scm url does not name a provider"
	missingProviderURLMessageConstant = "the scm url does not contain a provider specific part"
	emptyScmURLMessageConstant        = "the scm url cannot be empty"
)

// Configurator resolves source URLs into repository handles.
type Configurator struct {
	registry *ProviderRegistry
}

// NewConfigurator constructs a Configurator backed by the registry.
func NewConfigurator(registry *ProviderRegistry) *Configurator {
	return &Configurator{registry: registry}
}

// ConfigureRepository parses sourceURL of the form scm:<provider>:<provider specific part>
// and returns a repository handle with the provider that acts on it. Callers must apply
// SetPushChanges to the returned repository before use.
func (configurator *Configurator) ConfigureRepository(sourceURL string, credentials Credentials) (*Repository, Provider, error) {
	providerType, providerURL, validationMessages := splitScmURL(sourceURL)
	if len(validationMessages) > 0 {
		return nil, nil, &RepositoryConfigurationError{SourceURL: sourceURL, ValidationMessages: validationMessages}
	}

	provider, registered := configurator.registry.Lookup(providerType)
	if !registered {
		return nil, nil, &UnsupportedProviderError{ProviderType: providerType}
	}

	if providerMessages := provider.ValidateRepositoryURL(providerURL); len(providerMessages) > 0 {
		return nil, nil, &RepositoryConfigurationError{SourceURL: sourceURL, ValidationMessages: append([]string{}, providerMessages...)}
	}

	repository := &Repository{
		ProviderType: providerType,
		ProviderURL:  providerURL,
		SourceURL:    sourceURL,
		Credentials:  credentials,
	}
	return repository, provider, nil
}

func splitScmURL(sourceURL string) (string, string, []string) {
	trimmedURL := strings.TrimSpace(sourceURL)
	if len(trimmedURL) == 0 {
		return "", "", []string{emptyScmURLMessageConstant}
	}

	urlParts := strings.SplitN(trimmedURL, scmURLDelimiterConstant, 3)
	if urlParts[0] != scmURLPrefixConstant {
		return "", "", []string{missingScmPrefixMessageConstant}
	}
	if len(urlParts) < 2 || len(strings.TrimSpace(urlParts[1])) == 0 {
		return "", "", []string{missingProviderMessageConstant}
	}
	providerType := strings.ToLower(strings.TrimSpace(urlParts[1]))
	if len(urlParts) < 3 || len(strings.TrimSpace(urlParts[2])) == 0 {
		return providerType, "", []string{missingProviderURLMessageConstant}
	}
	return providerType, strings.TrimSpace(urlParts[2]), nil
}
