package scm_test

import (
	"context"

	"github.com/temirov/relman/internal/scm"
)

type stubProvider struct {
	providerType       string
	validationMessages []string
	result             scm.Result
	resultError        error
	recordedOperations []scm.Operation
	recordedNames      []string
}

func (provider *stubProvider) Type() string {
	return provider.providerType
}

func (provider *stubProvider) ValidateRepositoryURL(string) []string {
	return provider.validationMessages
}

func (provider *stubProvider) Status(context.Context, *scm.Repository, scm.FileSet) (scm.Result, error) {
	provider.recordedOperations = append(provider.recordedOperations, scm.OperationStatus)
	return provider.result, provider.resultError
}

func (provider *stubProvider) Tag(_ context.Context, _ *scm.Repository, _ scm.FileSet, tagName string, _ scm.TagParameters) (scm.Result, error) {
	provider.recordedOperations = append(provider.recordedOperations, scm.OperationTag)
	provider.recordedNames = append(provider.recordedNames, tagName)
	return provider.result, provider.resultError
}

func (provider *stubProvider) Branch(_ context.Context, _ *scm.Repository, _ scm.FileSet, branchName string, _ scm.BranchParameters) (scm.Result, error) {
	provider.recordedOperations = append(provider.recordedOperations, scm.OperationBranch)
	provider.recordedNames = append(provider.recordedNames, branchName)
	return provider.result, provider.resultError
}

func (provider *stubProvider) Commit(context.Context, *scm.Repository, scm.FileSet, scm.CommitParameters) (scm.Result, error) {
	provider.recordedOperations = append(provider.recordedOperations, scm.OperationCommit)
	return provider.result, provider.resultError
}

func (provider *stubProvider) Checkout(context.Context, *scm.Repository, scm.FileSet, scm.CheckoutParameters) (scm.Result, error) {
	provider.recordedOperations = append(provider.recordedOperations, scm.OperationCheckout)
	return provider.result, provider.resultError
}
