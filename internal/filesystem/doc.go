// Package filesystem provides the operating system backed file operations used by
// the release descriptor store and the scratch file cleaner.
package filesystem
