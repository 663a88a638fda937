// Package reactor describes the modules that take part in a release.
//
// A reactor file lists modules in build order. Each module has a
// group:artifact key, a base directory and the SCM connections recorded for it
// before the release started. The release engine treats modules as read-only.
package reactor
