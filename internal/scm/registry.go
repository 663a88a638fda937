package scm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	nilProviderMessageConstant            = "scm provider must not be nil"
	emptyProviderTypeMessageConstant      = "scm provider type must not be empty"
	duplicateProviderTypeTemplateConstant = "scm provider %q registered twice"
)

// ProviderRegistry maps provider types to their implementations.
type ProviderRegistry struct {
	providers map[string]Provider
}

// NewProviderRegistry registers every provided provider.
func NewProviderRegistry(providers ...Provider) (*ProviderRegistry, error) {
	registry := &ProviderRegistry{providers: map[string]Provider{}}
	for _, provider := range providers {
		if registrationError := registry.Register(provider); registrationError != nil {
			return nil, registrationError
		}
	}
	return registry, nil
}

// Register adds a provider. Registering the same type twice is an error.
func (registry *ProviderRegistry) Register(provider Provider) error {
	if provider == nil {
		return errors.New(nilProviderMessageConstant)
	}
	providerType := normalizeProviderType(provider.Type())
	if len(providerType) == 0 {
		return errors.New(emptyProviderTypeMessageConstant)
	}
	if _, exists := registry.providers[providerType]; exists {
		return fmt.Errorf(duplicateProviderTypeTemplateConstant, providerType)
	}
	registry.providers[providerType] = provider
	return nil
}

// Lookup returns the provider registered for providerType.
func (registry *ProviderRegistry) Lookup(providerType string) (Provider, bool) {
	if registry == nil {
		return nil, false
	}
	provider, exists := registry.providers[normalizeProviderType(providerType)]
	return provider, exists
}

// Types lists the registered provider types in sorted order.
func (registry *ProviderRegistry) Types() []string {
	if registry == nil {
		return nil
	}
	providerTypes := make([]string, 0, len(registry.providers))
	for providerType := range registry.providers {
		providerTypes = append(providerTypes, providerType)
	}
	sort.Strings(providerTypes)
	return providerTypes
}

func normalizeProviderType(providerType string) string {
	return strings.ToLower(strings.TrimSpace(providerType))
}
