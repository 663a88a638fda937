// Package dependencies resolves the collaborators release commands need, returning the
// provided instance when one is supplied and an operating system backed default otherwise.
package dependencies
