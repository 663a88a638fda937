package scm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relman/internal/scm"
)

const (
	testProviderTypeConstant = "git"
	testScmURLConstant       = "scm:git:https://example.com/org/project.git"
)

func TestConfiguratorConfigureRepository(testInstance *testing.T) {
	registry, registryError := scm.NewProviderRegistry(&stubProvider{providerType: testProviderTypeConstant})
	require.NoError(testInstance, registryError)
	configurator := scm.NewConfigurator(registry)

	credentials := scm.Credentials{Username: "releaser"}
	repository, provider, configureError := configurator.ConfigureRepository(testScmURLConstant, credentials)
	require.NoError(testInstance, configureError)
	require.NotNil(testInstance, provider)
	require.Equal(testInstance, testProviderTypeConstant, repository.ProviderType)
	require.Equal(testInstance, "https://example.com/org/project.git", repository.ProviderURL)
	require.Equal(testInstance, testScmURLConstant, repository.SourceURL)
	require.Equal(testInstance, credentials, repository.Credentials)
	require.False(testInstance, repository.PushChanges())

	repository.SetPushChanges(true)
	require.True(testInstance, repository.PushChanges())
}

func TestConfiguratorRejectsMalformedURLs(testInstance *testing.T) {
	registry, registryError := scm.NewProviderRegistry(&stubProvider{providerType: testProviderTypeConstant})
	require.NoError(testInstance, registryError)
	configurator := scm.NewConfigurator(registry)

	testCases := []struct {
		name            string
		sourceURL       string
		expectedMessage string
	}{
		{name: "empty", sourceURL: " ", expectedMessage: "the scm url cannot be empty"},
		{name: "missing_prefix", sourceURL: "git:https://example.com/repo", expectedMessage: "the scm url must start with 'scm:'"},
		{name: "missing_provider", sourceURL: "scm::https://example.com/repo", expectedMessage: "the scm url does not name a provider"},
		{name: "missing_provider_url", sourceURL: "scm:git:", expectedMessage: "the scm url does not contain a provider specific part"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, _, configureError := configurator.ConfigureRepository(testCase.sourceURL, scm.Credentials{})
			var configurationError *scm.RepositoryConfigurationError
			require.ErrorAs(testInstance, configureError, &configurationError)
			require.Equal(testInstance, []string{testCase.expectedMessage}, configurationError.ValidationMessages)
		})
	}
}

func TestConfiguratorReportsUnsupportedProvider(testInstance *testing.T) {
	registry, registryError := scm.NewProviderRegistry(&stubProvider{providerType: testProviderTypeConstant})
	require.NoError(testInstance, registryError)

	_, _, configureError := scm.NewConfigurator(registry).ConfigureRepository("scm:svn:https://svn.example.com/repo", scm.Credentials{})
	var providerError *scm.UnsupportedProviderError
	require.ErrorAs(testInstance, configureError, &providerError)
	require.Equal(testInstance, "svn", providerError.ProviderType)
}

func TestConfiguratorSurfacesProviderValidationMessages(testInstance *testing.T) {
	validationMessages := []string{"remote url has no host"}
	registry, registryError := scm.NewProviderRegistry(&stubProvider{providerType: testProviderTypeConstant, validationMessages: validationMessages})
	require.NoError(testInstance, registryError)

	_, _, configureError := scm.NewConfigurator(registry).ConfigureRepository(testScmURLConstant, scm.Credentials{})
	var configurationError *scm.RepositoryConfigurationError
	require.ErrorAs(testInstance, configureError, &configurationError)
	require.Equal(testInstance, validationMessages, configurationError.ValidationMessages)
	require.Contains(testInstance, configurationError.Error(), "remote url has no host")
}

func TestProviderRegistryRejectsDuplicates(testInstance *testing.T) {
	_, registryError := scm.NewProviderRegistry(&stubProvider{providerType: "git"}, &stubProvider{providerType: " GIT "})
	require.Error(testInstance, registryError)

	_, registryError = scm.NewProviderRegistry(&stubProvider{providerType: ""})
	require.Error(testInstance, registryError)

	registry, registryError := scm.NewProviderRegistry(&stubProvider{providerType: "git"}, &stubProvider{providerType: "hg"})
	require.NoError(testInstance, registryError)
	require.Equal(testInstance, []string{"git", "hg"}, registry.Types())
	_, found := registry.Lookup("Git")
	require.True(testInstance, found)
}

func TestResolveRevision(testInstance *testing.T) {
	require.Equal(testInstance, "", scm.ResolveRevision("HEAD"))
	require.Equal(testInstance, "", scm.ResolveRevision(" head "))
	require.Equal(testInstance, "a1b2c3", scm.ResolveRevision("a1b2c3"))
}
