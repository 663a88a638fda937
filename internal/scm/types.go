package scm

import "strings"

const (
	headRevisionConstant = "HEAD"
)

// Operation names an SCM primitive.
type Operation string

// Supported operations.
const (
	OperationStatus   Operation = Operation("status")
	OperationTag      Operation = Operation("tag")
	OperationBranch   Operation = Operation("branch")
	OperationCommit   Operation = Operation("commit")
	OperationCheckout Operation = Operation("checkout")
)

// FileStatus describes how an operation affected a file.
type FileStatus string

// Known file statuses.
const (
	FileStatusAdded      FileStatus = FileStatus("added")
	FileStatusModified   FileStatus = FileStatus("modified")
	FileStatusDeleted    FileStatus = FileStatus("deleted")
	FileStatusRenamed    FileStatus = FileStatus("renamed")
	FileStatusUntracked  FileStatus = FileStatus("untracked")
	FileStatusConflict   FileStatus = FileStatus("conflict")
	FileStatusTagged     FileStatus = FileStatus("tagged")
	FileStatusCheckedIn  FileStatus = FileStatus("checked-in")
	FileStatusCheckedOut FileStatus = FileStatus("checked-out")
	FileStatusUnknown    FileStatus = FileStatus("unknown")
)

// File is one entry of an operation result. Path is relative to the file set base directory.
type File struct {
	Path   string
	Status FileStatus
}

// FileSet is the working copy root an operation acts on plus an optional list of
// files relative to it. An empty list means the whole working copy.
type FileSet struct {
	BaseDirectory string
	Files         []string
}

// NewFileSet builds a FileSet rooted at baseDirectory.
func NewFileSet(baseDirectory string, files ...string) FileSet {
	return FileSet{BaseDirectory: baseDirectory, Files: append([]string{}, files...)}
}

// Credentials carries the authentication material used by providers.
type Credentials struct {
	Username   string
	Password   string
	PrivateKey string
	Passphrase string
}

// TagParameters describes a tag operation.
type TagParameters struct {
	Message  string
	Revision string
	Remote   bool
}

// BranchParameters describes a branch operation.
type BranchParameters struct {
	Message  string
	Revision string
	Remote   bool
}

// CommitParameters describes a commit operation.
type CommitParameters struct {
	Message  string
	Revision string
}

// CheckoutParameters describes a checkout of a tag or branch into the file set base directory.
type CheckoutParameters struct {
	Revision string
}

// Result is the normalized outcome of a provider call that completed.
// Success is false when the provider refused the command.
type Result struct {
	Success         bool
	Files           []File
	ProviderMessage string
	CommandOutput   string
}

// OperationScope names the phase and module an operation runs for.
type OperationScope struct {
	Phase  string
	Module string
}

// ResolveRevision maps the symbolic HEAD revision to no explicit revision.
func ResolveRevision(revision string) string {
	trimmedRevision := strings.TrimSpace(revision)
	if strings.EqualFold(trimmedRevision, headRevisionConstant) {
		return ""
	}
	return trimmedRevision
}
