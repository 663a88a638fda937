package gitprovider

import (
	"strings"

	"github.com/temirov/relman/internal/scm"
)

const (
	porcelainStatusWidthConstant   = 3
	porcelainRenameArrowConstant   = " -> "
	porcelainUntrackedCodeConstant = "??"
	porcelainQuoteConstant         = "\""
)

// parsePorcelainStatus converts `git status --porcelain` output into scm files.
func parsePorcelainStatus(output string) []scm.File {
	files := []scm.File{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) <= porcelainStatusWidthConstant {
			continue
		}

		statusCode := line[:2]
		path := line[porcelainStatusWidthConstant:]
		if _, renamedPath, renamed := strings.Cut(path, porcelainRenameArrowConstant); renamed {
			path = renamedPath
		}
		path = strings.Trim(path, porcelainQuoteConstant)

		files = append(files, scm.File{Path: path, Status: porcelainFileStatus(statusCode)})
	}
	return files
}

func porcelainFileStatus(statusCode string) scm.FileStatus {
	if statusCode == porcelainUntrackedCodeConstant {
		return scm.FileStatusUntracked
	}
	switch {
	case strings.ContainsRune(statusCode, 'U'):
		return scm.FileStatusConflict
	case strings.ContainsRune(statusCode, 'R'):
		return scm.FileStatusRenamed
	case strings.ContainsRune(statusCode, 'A'):
		return scm.FileStatusAdded
	case strings.ContainsRune(statusCode, 'D'):
		return scm.FileStatusDeleted
	case strings.ContainsRune(statusCode, 'M'):
		return scm.FileStatusModified
	default:
		return scm.FileStatusUnknown
	}
}
