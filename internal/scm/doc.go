// Package scm is the provider-agnostic source control layer of the release engine.
//
// Configurator resolves scm:<provider>:<location> URLs into a Repository handle
// and the Provider registered for it. OperationExecutor invokes provider
// primitives (status, tag, branch, commit, checkout), logs each call, and
// separates transport failures (OperationTransportError) from commands the
// provider refused (Result.Success == false).
package scm
