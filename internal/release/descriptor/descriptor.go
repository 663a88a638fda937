package descriptor

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/scm"
)

// ReleaseDescriptor carries the configuration and progress of a release.
type ReleaseDescriptor struct {
	WorkingDirectory                string                 `yaml:"working_directory"`
	CheckoutDirectory               string                 `yaml:"checkout_directory,omitempty"`
	ScmSourceURL                    string                 `yaml:"scm_source_url,omitempty"`
	ScmCommentPrefix                string                 `yaml:"scm_comment_prefix,omitempty"`
	PushChanges                     bool                   `yaml:"push_changes"`
	RemoteTagging                   bool                   `yaml:"remote_tagging"`
	CommitByProject                 bool                   `yaml:"commit_by_project"`
	SuppressCommitBeforeTagOrBranch bool                   `yaml:"suppress_commit_before_tag_or_branch"`
	UpdateWorkingCopyVersions       bool                   `yaml:"update_working_copy_versions"`
	ReleaseLabel                    string                 `yaml:"release_label,omitempty"`
	ReleaseLabels                   map[string]string      `yaml:"release_labels,omitempty"`
	ReleasedRevision                string                 `yaml:"released_revision,omitempty"`
	TagBase                         string                 `yaml:"tag_base,omitempty"`
	BranchBase                      string                 `yaml:"branch_base,omitempty"`
	WaitBeforeTagging               time.Duration          `yaml:"wait_before_tagging,omitempty"`
	CheckModificationExcludes       []string               `yaml:"check_modification_excludes,omitempty"`
	OriginalScmInfo                 map[string]reactor.Scm `yaml:"original_scm_info,omitempty"`
	ScmUsername                     string                 `yaml:"scm_username,omitempty"`
	ScmPrivateKey                   string                 `yaml:"scm_private_key,omitempty"`
	ScmPassword                     string                 `yaml:"-"`
	ScmPassphrase                   string                 `yaml:"-"`
	CompletedPhase                  string                 `yaml:"completed_phase,omitempty"`
}

// ReleaseLabelFor returns the label configured for the module key.
func (descriptor ReleaseDescriptor) ReleaseLabelFor(moduleKey string) (string, bool) {
	label, found := descriptor.ReleaseLabels[moduleKey]
	if !found || len(strings.TrimSpace(label)) == 0 {
		return "", false
	}
	return label, true
}

// OriginalScmInfoFor returns the SCM connections recorded for the module key before the release started.
func (descriptor ReleaseDescriptor) OriginalScmInfoFor(moduleKey string) (reactor.Scm, bool) {
	scmInfo, found := descriptor.OriginalScmInfo[moduleKey]
	return scmInfo, found
}

// HasReleaseLabels reports whether every module key has a label.
func (descriptor ReleaseDescriptor) HasReleaseLabels(moduleKeys []string) bool {
	for _, moduleKey := range moduleKeys {
		if _, found := descriptor.ReleaseLabelFor(moduleKey); !found {
			return false
		}
	}
	return true
}

// CaptureOriginalScmInfo records the SCM connections of modules that have none recorded yet.
// Existing entries are never overwritten and modules without connections are skipped.
func (descriptor *ReleaseDescriptor) CaptureOriginalScmInfo(modules []reactor.Module) {
	for _, module := range modules {
		if len(module.Scm.Connection) == 0 && len(module.Scm.DeveloperConnection) == 0 {
			continue
		}
		moduleKey := module.Key()
		if _, recorded := descriptor.OriginalScmInfo[moduleKey]; recorded {
			continue
		}
		if descriptor.OriginalScmInfo == nil {
			descriptor.OriginalScmInfo = make(map[string]reactor.Scm)
		}
		descriptor.OriginalScmInfo[moduleKey] = module.Scm
	}
}

// Credentials returns the SCM credentials held by the descriptor.
func (descriptor ReleaseDescriptor) Credentials() scm.Credentials {
	return scm.Credentials{
		Username:   descriptor.ScmUsername,
		Password:   descriptor.ScmPassword,
		PrivateKey: descriptor.ScmPrivateKey,
		Passphrase: descriptor.ScmPassphrase,
	}
}

// Clone returns a deep copy of the descriptor.
func (descriptor ReleaseDescriptor) Clone() ReleaseDescriptor {
	duplicated := descriptor
	duplicated.ReleaseLabels = maps.Clone(descriptor.ReleaseLabels)
	duplicated.OriginalScmInfo = maps.Clone(descriptor.OriginalScmInfo)
	duplicated.CheckModificationExcludes = slices.Clone(descriptor.CheckModificationExcludes)
	return duplicated
}

// MergeForResume combines a persisted descriptor with the one built for the current run.
// The persisted descriptor is authoritative. Secrets, which are never persisted, come from
// the current run, as do string settings the persisted descriptor left empty.
func MergeForResume(persisted ReleaseDescriptor, current ReleaseDescriptor) ReleaseDescriptor {
	merged := persisted.Clone()
	merged.ScmPassword = current.ScmPassword
	merged.ScmPassphrase = current.ScmPassphrase

	fillString(&merged.WorkingDirectory, current.WorkingDirectory)
	fillString(&merged.CheckoutDirectory, current.CheckoutDirectory)
	fillString(&merged.ScmSourceURL, current.ScmSourceURL)
	fillString(&merged.ScmCommentPrefix, current.ScmCommentPrefix)
	fillString(&merged.ReleaseLabel, current.ReleaseLabel)
	fillString(&merged.ReleasedRevision, current.ReleasedRevision)
	fillString(&merged.TagBase, current.TagBase)
	fillString(&merged.BranchBase, current.BranchBase)
	fillString(&merged.ScmUsername, current.ScmUsername)
	fillString(&merged.ScmPrivateKey, current.ScmPrivateKey)

	if len(merged.ReleaseLabels) == 0 {
		merged.ReleaseLabels = maps.Clone(current.ReleaseLabels)
	}
	if len(merged.CheckModificationExcludes) == 0 {
		merged.CheckModificationExcludes = slices.Clone(current.CheckModificationExcludes)
	}
	for moduleKey, scmInfo := range current.OriginalScmInfo {
		if _, recorded := merged.OriginalScmInfo[moduleKey]; recorded {
			continue
		}
		if merged.OriginalScmInfo == nil {
			merged.OriginalScmInfo = make(map[string]reactor.Scm)
		}
		merged.OriginalScmInfo[moduleKey] = scmInfo
	}
	return merged
}

func fillString(target *string, fallback string) {
	if len(*target) == 0 {
		*target = fallback
	}
}
