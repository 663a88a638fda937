// Package pathutils normalizes the directories relman works in.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant = "~"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander resolves "~" prefixes in reactor, descriptor and checkout paths.
// The home directory is looked up once.
type HomeExpander struct {
	lookup    func() string
	provider  HomeDirectoryProvider
	cacheOnce sync.Once
	cached    string
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	expander := &HomeExpander{provider: provider}
	expander.lookup = func() string {
		expander.cacheOnce.Do(func() {
			if homeDirectory, lookupError := expander.provider(); lookupError == nil {
				expander.cached = homeDirectory
			}
		})
		return expander.cached
	}
	return expander
}

// Expand replaces a leading "~" or "~/" with the home directory.
// Paths such as "~other" and paths without a home directory are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}
	remainder := strings.TrimPrefix(candidatePath, homeShortcutConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}
	homeDirectory := expander.lookup()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}
