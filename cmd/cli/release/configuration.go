package release

import (
	"strings"
	"time"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/phase"
)

const (
	// DefaultReactorFileNameConstant is the reactor file looked up in the working directory.
	DefaultReactorFileNameConstant = "reactor.yaml"
	// DefaultCommentPrefixConstant prefixes every commit, tag and branch message.
	DefaultCommentPrefixConstant = "[relman] "

	configurationWorkingDirectoryKeyConstant  = "working_directory"
	configurationReactorKeyConstant           = "reactor"
	configurationScmSourceURLKeyConstant      = "scm_source_url"
	configurationCommentPrefixKeyConstant     = "scm_comment_prefix"
	configurationPushChangesKeyConstant       = "push_changes"
	configurationRemoteTaggingKeyConstant     = "remote_tagging"
	configurationCommitByProjectKeyConstant   = "commit_by_project"
	configurationSuppressCommitKeyConstant    = "suppress_commit_before_tag_or_branch"
	configurationUpdateWorkingCopyKeyConstant = "update_working_copy_versions"
	configurationTagBaseKeyConstant           = "tag_base"
	configurationBranchBaseKeyConstant        = "branch_base"
	configurationWaitBeforeTaggingKeyConstant = "wait_before_tagging"
	configurationExcludesKeyConstant          = "check_modification_excludes"
	configurationCheckoutDirectoryKeyConstant = "checkout_directory"
	configurationDescriptorFileKeyConstant    = "descriptor_file"
	configurationWorkflowFileKeyConstant      = "workflow_file"
	configurationCleanAfterPerformKeyConstant = "clean_after_perform"
	configurationDryRunKeyConstant            = "dry_run"
	configurationResumeKeyConstant            = "resume"
	configurationCredentialsKeyConstant       = "credentials"
	configurationUsernameKeyConstant          = "username"
	configurationPasswordKeyConstant          = "password"
	configurationPrivateKeyKeyConstant        = "private_key"
	configurationPassphraseKeyConstant        = "passphrase"
)

// CommandConfiguration describes the tools.release configuration section.
type CommandConfiguration struct {
	WorkingDirectory                string                   `mapstructure:"working_directory"`
	Reactor                         string                   `mapstructure:"reactor"`
	ScmSourceURL                    string                   `mapstructure:"scm_source_url"`
	ScmCommentPrefix                string                   `mapstructure:"scm_comment_prefix"`
	PushChanges                     bool                     `mapstructure:"push_changes"`
	RemoteTagging                   bool                     `mapstructure:"remote_tagging"`
	CommitByProject                 bool                     `mapstructure:"commit_by_project"`
	SuppressCommitBeforeTagOrBranch bool                     `mapstructure:"suppress_commit_before_tag_or_branch"`
	UpdateWorkingCopyVersions       bool                     `mapstructure:"update_working_copy_versions"`
	TagBase                         string                   `mapstructure:"tag_base"`
	BranchBase                      string                   `mapstructure:"branch_base"`
	WaitBeforeTagging               time.Duration            `mapstructure:"wait_before_tagging"`
	CheckModificationExcludes       []string                 `mapstructure:"check_modification_excludes"`
	CheckoutDirectory               string                   `mapstructure:"checkout_directory"`
	DescriptorFile                  string                   `mapstructure:"descriptor_file"`
	WorkflowFile                    string                   `mapstructure:"workflow_file"`
	Workflows                       map[string][]string      `mapstructure:"workflows"`
	CleanAfterPerform               bool                     `mapstructure:"clean_after_perform"`
	DryRun                          bool                     `mapstructure:"dry_run"`
	Resume                          bool                     `mapstructure:"resume"`
	Credentials                     CredentialsConfiguration `mapstructure:"credentials"`
}

// CredentialsConfiguration holds the SCM credentials. Secrets are never persisted with the descriptor.
type CredentialsConfiguration struct {
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	PrivateKey string `mapstructure:"private_key"`
	Passphrase string `mapstructure:"passphrase"`
}

// DefaultCommandConfiguration returns baseline values for the release commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Reactor:                   DefaultReactorFileNameConstant,
		ScmCommentPrefix:          DefaultCommentPrefixConstant,
		PushChanges:               true,
		RemoteTagging:             true,
		UpdateWorkingCopyVersions: true,
		CheckModificationExcludes: []string{},
		DescriptorFile:            descriptor.DefaultFileNameConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the release section rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	credentialsKey := rootKey + "." + configurationCredentialsKeyConstant
	return map[string]any{
		rootKey + "." + configurationWorkingDirectoryKeyConstant:  defaults.WorkingDirectory,
		rootKey + "." + configurationReactorKeyConstant:           defaults.Reactor,
		rootKey + "." + configurationScmSourceURLKeyConstant:      defaults.ScmSourceURL,
		rootKey + "." + configurationCommentPrefixKeyConstant:     defaults.ScmCommentPrefix,
		rootKey + "." + configurationPushChangesKeyConstant:       defaults.PushChanges,
		rootKey + "." + configurationRemoteTaggingKeyConstant:     defaults.RemoteTagging,
		rootKey + "." + configurationCommitByProjectKeyConstant:   defaults.CommitByProject,
		rootKey + "." + configurationSuppressCommitKeyConstant:    defaults.SuppressCommitBeforeTagOrBranch,
		rootKey + "." + configurationUpdateWorkingCopyKeyConstant: defaults.UpdateWorkingCopyVersions,
		rootKey + "." + configurationTagBaseKeyConstant:           defaults.TagBase,
		rootKey + "." + configurationBranchBaseKeyConstant:        defaults.BranchBase,
		rootKey + "." + configurationWaitBeforeTaggingKeyConstant: defaults.WaitBeforeTagging,
		rootKey + "." + configurationExcludesKeyConstant:          defaults.CheckModificationExcludes,
		rootKey + "." + configurationCheckoutDirectoryKeyConstant: defaults.CheckoutDirectory,
		rootKey + "." + configurationDescriptorFileKeyConstant:    defaults.DescriptorFile,
		rootKey + "." + configurationWorkflowFileKeyConstant:      defaults.WorkflowFile,
		rootKey + "." + configurationCleanAfterPerformKeyConstant: defaults.CleanAfterPerform,
		rootKey + "." + configurationDryRunKeyConstant:            defaults.DryRun,
		rootKey + "." + configurationResumeKeyConstant:            defaults.Resume,
		credentialsKey + "." + configurationUsernameKeyConstant:   defaults.Credentials.Username,
		credentialsKey + "." + configurationPasswordKeyConstant:   defaults.Credentials.Password,
		credentialsKey + "." + configurationPrivateKeyKeyConstant: defaults.Credentials.PrivateKey,
		credentialsKey + "." + configurationPassphraseKeyConstant: defaults.Credentials.Passphrase,
	}
}

// Sanitize trims string values and drops blank excludes.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	sanitized.Reactor = strings.TrimSpace(configuration.Reactor)
	if len(sanitized.Reactor) == 0 {
		sanitized.Reactor = DefaultReactorFileNameConstant
	}
	sanitized.ScmSourceURL = strings.TrimSpace(configuration.ScmSourceURL)
	sanitized.TagBase = strings.TrimSpace(configuration.TagBase)
	sanitized.BranchBase = strings.TrimSpace(configuration.BranchBase)
	sanitized.CheckoutDirectory = strings.TrimSpace(configuration.CheckoutDirectory)
	sanitized.DescriptorFile = strings.TrimSpace(configuration.DescriptorFile)
	sanitized.WorkflowFile = strings.TrimSpace(configuration.WorkflowFile)
	sanitized.Workflows = make(map[string][]string, len(configuration.Workflows))
	for workflowName, phaseNames := range configuration.Workflows {
		trimmedPhaseNames := make([]string, 0, len(phaseNames))
		for _, phaseName := range phaseNames {
			trimmedPhaseNames = append(trimmedPhaseNames, strings.TrimSpace(phaseName))
		}
		sanitized.Workflows[strings.TrimSpace(workflowName)] = trimmedPhaseNames
	}
	if sanitized.WaitBeforeTagging < 0 {
		sanitized.WaitBeforeTagging = 0
	}

	excludes := make([]string, 0, len(configuration.CheckModificationExcludes))
	for _, exclude := range configuration.CheckModificationExcludes {
		if trimmedExclude := strings.TrimSpace(exclude); len(trimmedExclude) > 0 {
			excludes = append(excludes, trimmedExclude)
		}
	}
	sanitized.CheckModificationExcludes = excludes
	sanitized.Credentials = CredentialsConfiguration{
		Username:   strings.TrimSpace(configuration.Credentials.Username),
		Password:   configuration.Credentials.Password,
		PrivateKey: strings.TrimSpace(configuration.Credentials.PrivateKey),
		Passphrase: configuration.Credentials.Passphrase,
	}
	return sanitized
}

// Descriptor builds the release descriptor for the working directory. A blank SCM source URL
// falls back to the developer connection of the root module, then to its read-only connection.
func (configuration CommandConfiguration) Descriptor(workingDirectory string, checkoutDirectory string, rootModule reactor.Module) descriptor.ReleaseDescriptor {
	sourceURL := configuration.ScmSourceURL
	if len(sourceURL) == 0 {
		sourceURL = rootModule.Scm.DeveloperConnection
	}
	if len(sourceURL) == 0 {
		sourceURL = rootModule.Scm.Connection
	}

	excludes := configuration.CheckModificationExcludes
	if len(excludes) == 0 {
		excludes = nil
	}

	return descriptor.ReleaseDescriptor{
		WorkingDirectory:                workingDirectory,
		CheckoutDirectory:               checkoutDirectory,
		ScmSourceURL:                    sourceURL,
		ScmCommentPrefix:                configuration.ScmCommentPrefix,
		PushChanges:                     configuration.PushChanges,
		RemoteTagging:                   configuration.RemoteTagging,
		CommitByProject:                 configuration.CommitByProject,
		SuppressCommitBeforeTagOrBranch: configuration.SuppressCommitBeforeTagOrBranch,
		UpdateWorkingCopyVersions:       configuration.UpdateWorkingCopyVersions,
		TagBase:                         configuration.TagBase,
		BranchBase:                      configuration.BranchBase,
		WaitBeforeTagging:               configuration.WaitBeforeTagging,
		CheckModificationExcludes:       append([]string(nil), excludes...),
		ScmUsername:                     configuration.Credentials.Username,
		ScmPassword:                     configuration.Credentials.Password,
		ScmPrivateKey:                   configuration.Credentials.PrivateKey,
		ScmPassphrase:                   configuration.Credentials.Passphrase,
	}
}

// finalPreparePhase returns the phase the perform verification expects, honoring workflow overrides.
func finalPreparePhase(workflowFinalPhase string) string {
	if len(workflowFinalPhase) == 0 {
		return phase.EndReleasePhaseNameConstant
	}
	return workflowFinalPhase
}
