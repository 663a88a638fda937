package scm

import "context"

// Provider implements SCM primitives for one provider type.
//
// Returning an error means the provider could not complete the call. A call that
// completed but was refused is reported through Result.Success.
type Provider interface {
	Type() string
	ValidateRepositoryURL(providerURL string) []string
	Status(executionContext context.Context, repository *Repository, fileSet FileSet) (Result, error)
	Tag(executionContext context.Context, repository *Repository, fileSet FileSet, tagName string, parameters TagParameters) (Result, error)
	Branch(executionContext context.Context, repository *Repository, fileSet FileSet, branchName string, parameters BranchParameters) (Result, error)
	Commit(executionContext context.Context, repository *Repository, fileSet FileSet, parameters CommitParameters) (Result, error)
	Checkout(executionContext context.Context, repository *Repository, fileSet FileSet, parameters CheckoutParameters) (Result, error)
}
