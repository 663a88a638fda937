// Package gitrepo parses git repository locations.
//
// The git SCM provider uses ParseRemoteURL to validate the provider-specific
// part of scm:git: URLs before any command runs.
package gitrepo
