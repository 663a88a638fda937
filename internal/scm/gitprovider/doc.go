// Package gitprovider implements the scm.Provider contract with the git command line.
package gitprovider
