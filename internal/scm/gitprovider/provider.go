package gitprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/relman/internal/execshell"
	"github.com/temirov/relman/internal/gitrepo"
	"github.com/temirov/relman/internal/scm"
)

const (
	// ProviderTypeConstant is the provider name used in scm:git: URLs.
	ProviderTypeConstant = "git"

	gitStatusSubcommandConstant         = "status"
	gitPorcelainFlagConstant            = "--porcelain"
	gitTagSubcommandConstant            = "tag"
	gitAnnotateFlagConstant             = "-a"
	gitMessageFlagConstant              = "-m"
	gitBranchSubcommandConstant         = "branch"
	gitAddSubcommandConstant            = "add"
	gitAllFlagConstant                  = "--all"
	gitCommitSubcommandConstant         = "commit"
	gitPushSubcommandConstant           = "push"
	gitCloneSubcommandConstant          = "clone"
	gitBranchFlagConstant               = "--branch"
	gitPathSeparatorArgumentConstant    = "--"
	gitHeadReferenceConstant            = "HEAD"
	tagReferencePrefixConstant          = "refs/tags/"
	branchReferencePrefixConstant       = "refs/heads/"
	terminalPromptEnvironmentConstant   = "GIT_TERMINAL_PROMPT"
	sshCommandEnvironmentConstant       = "GIT_SSH_COMMAND"
	disabledValueConstant               = "0"
	sshCommandTemplateConstant          = "ssh -i %s -o IdentitiesOnly=yes"
	missingExecutorMessageConstant      = "git provider requires a git executor"
	missingRepositoryMessageConstant    = "git provider requires a repository"
	missingBaseDirectoryMessageConstant = "git provider requires a working directory"
	missingLabelMessageConstant         = "git provider requires a non-empty %s name"
	providerMessageTemplateConstant     = "git %s exited with code %d"
	credentialsSeparatorConstant        = ":"
)

// ErrExecutorNotConfigured indicates the provider was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(missingExecutorMessageConstant)

var (
	errRepositoryNotConfigured = errors.New(missingRepositoryMessageConstant)
	errBaseDirectoryMissing    = errors.New(missingBaseDirectoryMessageConstant)
)

// GitExecutor exposes the subset of shell execution used by the provider.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Provider runs scm operations through git.
type Provider struct {
	executor GitExecutor
}

// NewProvider constructs a git provider.
func NewProvider(executor GitExecutor) (*Provider, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Provider{executor: executor}, nil
}

// Type returns the provider name.
func (provider *Provider) Type() string {
	return ProviderTypeConstant
}

// ValidateRepositoryURL reports why providerURL is not a usable git location.
func (provider *Provider) ValidateRepositoryURL(providerURL string) []string {
	if _, parseError := gitrepo.ParseRemoteURL(providerURL); parseError != nil {
		return []string{parseError.Error()}
	}
	return nil
}

// Status lists the changed files of the working copy.
func (provider *Provider) Status(executionContext context.Context, repository *scm.Repository, fileSet scm.FileSet) (scm.Result, error) {
	arguments := []string{gitStatusSubcommandConstant, gitPorcelainFlagConstant}
	if len(fileSet.Files) > 0 {
		arguments = append(append(arguments, gitPathSeparatorArgumentConstant), fileSet.Files...)
	}

	output, refused, runError := provider.run(executionContext, repository, fileSet.BaseDirectory, arguments)
	if runError != nil || refused != nil {
		return refusedResult(refused), runError
	}
	return scm.Result{Success: true, Files: parsePorcelainStatus(output.StandardOutput), CommandOutput: output.StandardOutput}, nil
}

// Tag creates an annotated tag and pushes it when the repository publishes changes.
func (provider *Provider) Tag(executionContext context.Context, repository *scm.Repository, fileSet scm.FileSet, tagName string, parameters scm.TagParameters) (scm.Result, error) {
	trimmedTagName := strings.TrimSpace(tagName)
	if len(trimmedTagName) == 0 {
		return scm.Result{}, fmt.Errorf(missingLabelMessageConstant, gitTagSubcommandConstant)
	}

	arguments := []string{gitTagSubcommandConstant, gitAnnotateFlagConstant, trimmedTagName, gitMessageFlagConstant, parameters.Message}
	if revision := scm.ResolveRevision(parameters.Revision); len(revision) > 0 {
		arguments = append(arguments, revision)
	}

	return provider.runAndPublish(executionContext, repository, fileSet, arguments, tagReferencePrefixConstant+trimmedTagName, scm.FileStatusTagged)
}

// Branch creates a branch and pushes it when the repository publishes changes.
func (provider *Provider) Branch(executionContext context.Context, repository *scm.Repository, fileSet scm.FileSet, branchName string, parameters scm.BranchParameters) (scm.Result, error) {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return scm.Result{}, fmt.Errorf(missingLabelMessageConstant, gitBranchSubcommandConstant)
	}

	arguments := []string{gitBranchSubcommandConstant, trimmedBranchName}
	if revision := scm.ResolveRevision(parameters.Revision); len(revision) > 0 {
		arguments = append(arguments, revision)
	}

	return provider.runAndPublish(executionContext, repository, fileSet, arguments, branchReferencePrefixConstant+trimmedBranchName, scm.FileStatusTagged)
}

// Commit stages the file set, commits it and pushes HEAD when the repository publishes changes.
func (provider *Provider) Commit(executionContext context.Context, repository *scm.Repository, fileSet scm.FileSet, parameters scm.CommitParameters) (scm.Result, error) {
	addArguments := []string{gitAddSubcommandConstant, gitAllFlagConstant}
	if len(fileSet.Files) > 0 {
		addArguments = append([]string{gitAddSubcommandConstant, gitPathSeparatorArgumentConstant}, fileSet.Files...)
	}
	if _, refused, runError := provider.run(executionContext, repository, fileSet.BaseDirectory, addArguments); runError != nil || refused != nil {
		return refusedResult(refused), runError
	}

	commitArguments := []string{gitCommitSubcommandConstant, gitMessageFlagConstant, parameters.Message}
	return provider.runAndPublish(executionContext, repository, fileSet, commitArguments, gitHeadReferenceConstant, scm.FileStatusCheckedIn)
}

// Checkout clones the repository at the requested revision into the file set base directory.
func (provider *Provider) Checkout(executionContext context.Context, repository *scm.Repository, fileSet scm.FileSet, parameters scm.CheckoutParameters) (scm.Result, error) {
	if repository == nil {
		return scm.Result{}, errRepositoryNotConfigured
	}
	if len(strings.TrimSpace(fileSet.BaseDirectory)) == 0 {
		return scm.Result{}, errBaseDirectoryMissing
	}

	arguments := []string{gitCloneSubcommandConstant}
	if revision := scm.ResolveRevision(parameters.Revision); len(revision) > 0 {
		arguments = append(arguments, gitBranchFlagConstant, revision)
	}
	arguments = append(arguments, authenticatedURL(repository), fileSet.BaseDirectory)

	output, refused, runError := provider.run(executionContext, repository, "", arguments)
	if runError != nil || refused != nil {
		return refusedResult(refused), runError
	}
	return scm.Result{Success: true, Files: []scm.File{{Path: ".", Status: scm.FileStatusCheckedOut}}, CommandOutput: output.StandardOutput}, nil
}

func (provider *Provider) runAndPublish(executionContext context.Context, repository *scm.Repository, fileSet scm.FileSet, arguments []string, reference string, fileStatus scm.FileStatus) (scm.Result, error) {
	output, refused, runError := provider.run(executionContext, repository, fileSet.BaseDirectory, arguments)
	if runError != nil || refused != nil {
		return refusedResult(refused), runError
	}

	commandOutput := output.StandardOutput
	if repository.PushChanges() {
		pushOutput, pushRefused, pushError := provider.run(executionContext, repository, fileSet.BaseDirectory, []string{gitPushSubcommandConstant, authenticatedURL(repository), reference})
		if pushError != nil || pushRefused != nil {
			return refusedResult(pushRefused), pushError
		}
		commandOutput += pushOutput.StandardOutput
	}

	return scm.Result{Success: true, Files: filesWithStatus(fileSet.Files, fileStatus), CommandOutput: commandOutput}, nil
}

// run executes git and separates refused commands from execution failures.
func (provider *Provider) run(executionContext context.Context, repository *scm.Repository, workingDirectory string, arguments []string) (execshell.ExecutionResult, *execshell.CommandFailedError, error) {
	if repository == nil {
		return execshell.ExecutionResult{}, nil, errRepositoryNotConfigured
	}

	details := execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: commandEnvironment(repository.Credentials),
	}

	output, executionError := provider.executor.ExecuteGit(executionContext, details)
	if executionError == nil {
		return output, nil, nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return execshell.ExecutionResult{}, &commandFailure, nil
	}
	return execshell.ExecutionResult{}, nil, executionError
}

func refusedResult(refused *execshell.CommandFailedError) scm.Result {
	if refused == nil {
		return scm.Result{}
	}
	subcommand := ""
	if len(refused.Command.Details.Arguments) > 0 {
		subcommand = refused.Command.Details.Arguments[0]
	}
	providerMessage := strings.TrimSpace(refused.Result.StandardError)
	if len(providerMessage) == 0 {
		providerMessage = fmt.Sprintf(providerMessageTemplateConstant, subcommand, refused.Result.ExitCode)
	}
	return scm.Result{
		Success:         false,
		ProviderMessage: providerMessage,
		CommandOutput:   refused.Result.StandardOutput,
	}
}

func commandEnvironment(credentials scm.Credentials) map[string]string {
	environment := map[string]string{terminalPromptEnvironmentConstant: disabledValueConstant}
	if privateKey := strings.TrimSpace(credentials.PrivateKey); len(privateKey) > 0 {
		environment[sshCommandEnvironmentConstant] = fmt.Sprintf(sshCommandTemplateConstant, privateKey)
	}
	return environment
}

// authenticatedURL embeds username and password into http(s) locations.
func authenticatedURL(repository *scm.Repository) string {
	username := strings.TrimSpace(repository.Credentials.Username)
	if len(username) == 0 {
		return repository.ProviderURL
	}

	remoteURL, parseError := gitrepo.ParseRemoteURL(repository.ProviderURL)
	if parseError != nil || len(remoteURL.User) > 0 {
		return repository.ProviderURL
	}
	if remoteURL.Protocol != gitrepo.RemoteProtocolHTTPS && remoteURL.Protocol != gitrepo.RemoteProtocolHTTP {
		return repository.ProviderURL
	}

	remoteURL.User = username
	if len(repository.Credentials.Password) > 0 {
		remoteURL.User = username + credentialsSeparatorConstant + repository.Credentials.Password
	}
	formattedURL, formatError := gitrepo.FormatRemoteURL(remoteURL)
	if formatError != nil {
		return repository.ProviderURL
	}
	return formattedURL
}

func filesWithStatus(paths []string, status scm.FileStatus) []scm.File {
	files := make([]scm.File, 0, len(paths))
	for _, path := range paths {
		files = append(files, scm.File{Path: path, Status: status})
	}
	return files
}
