package pathutils

import (
	"path/filepath"
	"strings"
)

// DirectoryResolver turns user supplied directories into clean absolute paths.
type DirectoryResolver struct {
	homeExpander *HomeExpander
	baseProvider func() (string, error)
}

// NewDirectoryResolver constructs a resolver relative to the provided base directory provider.
func NewDirectoryResolver(homeExpander *HomeExpander, baseProvider func() (string, error)) *DirectoryResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &DirectoryResolver{homeExpander: homeExpander, baseProvider: baseProvider}
}

// Resolve trims, expands the home shortcut and anchors relative paths at the base directory.
// An empty candidate resolves to the base directory itself.
func (resolver *DirectoryResolver) Resolve(candidatePath string) (string, error) {
	expandedPath := resolver.homeExpander.Expand(strings.TrimSpace(candidatePath))
	if filepath.IsAbs(expandedPath) {
		return filepath.Clean(expandedPath), nil
	}

	baseDirectory := ""
	if resolver.baseProvider != nil {
		resolvedBase, baseError := resolver.baseProvider()
		if baseError != nil {
			return "", baseError
		}
		baseDirectory = resolvedBase
	}
	if len(expandedPath) == 0 {
		return filepath.Clean(baseDirectory), nil
	}
	return filepath.Clean(filepath.Join(baseDirectory, expandedPath)), nil
}

// DetermineWorkingDirectory joins the checkout directory with the project path relative
// to the repository root. Trailing separators on either part are ignored.
func DetermineWorkingDirectory(checkoutDirectory string, relativePathProjectDirectory string) string {
	trimmedRelativePath := strings.Trim(filepath.ToSlash(strings.TrimSpace(relativePathProjectDirectory)), "/")
	if len(trimmedRelativePath) == 0 {
		return filepath.Clean(checkoutDirectory)
	}
	return filepath.Join(checkoutDirectory, filepath.FromSlash(trimmedRelativePath))
}

// RelativeDepth reports how many directory levels descendant sits below ancestor.
// It returns zero when descendant is not inside ancestor.
func RelativeDepth(ancestor string, descendant string) int {
	relativePath, relativeError := filepath.Rel(filepath.Clean(ancestor), filepath.Clean(descendant))
	if relativeError != nil || relativePath == "." || strings.HasPrefix(relativePath, "..") {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(relativePath), "/"))
}

// CommonBaseDirectory returns the deepest directory containing every provided directory.
func CommonBaseDirectory(directories []string) string {
	if len(directories) == 0 {
		return ""
	}

	commonSegments := splitSegments(directories[0])
	for _, directory := range directories[1:] {
		candidateSegments := splitSegments(directory)
		sharedCount := 0
		for sharedCount < len(commonSegments) && sharedCount < len(candidateSegments) && commonSegments[sharedCount] == candidateSegments[sharedCount] {
			sharedCount++
		}
		commonSegments = commonSegments[:sharedCount]
	}

	joined := strings.Join(commonSegments, "/")
	if strings.HasPrefix(filepath.ToSlash(filepath.Clean(directories[0])), "/") {
		joined = "/" + joined
	}
	if len(joined) == 0 {
		return "."
	}
	return filepath.FromSlash(joined)
}

func splitSegments(directory string) []string {
	cleaned := filepath.ToSlash(filepath.Clean(directory))
	segments := strings.Split(cleaned, "/")
	filtered := make([]string, 0, len(segments))
	for _, segment := range segments {
		if len(segment) > 0 {
			filtered = append(filtered, segment)
		}
	}
	return filtered
}
