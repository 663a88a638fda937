// Package phase implements the steps of a release. Each phase can execute against the
// repository, simulate what it would do without touching anything, and clean the scratch
// files it leaves behind.
//
// SCM phases resolve a repository per work unit through a RepositoryConfigurator and run
// provider primitives through an OperationExecutor; failures are reported with the error
// types of the releaseerrors package.
package phase
