package phase

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/releaseerrors"
	"github.com/temirov/relman/internal/scm"
)

const (
	verifyingModificationsMessageConstant = "Verifying that there are no local modifications..."
	ignoringChangesMessagePrefixConstant  = "  ignoring changes on: "
	statusExecutionMessageConstant        = "An error occurred during the status check process"
	statusRefusedMessageConstant          = "Unable to check for local modifications"
	excludeListSeparatorConstant          = ", "
	windowsPathSeparatorConstant          = "\\"
	slashPathSeparatorConstant            = "/"
)

// DefaultCheckModificationExcludes lists the scratch files a release is allowed to leave behind.
var DefaultCheckModificationExcludes = []string{
	"pom.xml.backup",
	"pom.xml.tag",
	"pom.xml.next",
	"pom.xml.branch",
	"release.properties",
	"pom.xml.releaseBackup",
	descriptor.DefaultFileNameConstant,
}

// CheckModificationsPhase fails when the working copy has changes outside the excluded files.
type CheckModificationsPhase struct {
	support scmSupport
}

func newCheckModificationsPhase(dependencies Dependencies) *CheckModificationsPhase {
	return &CheckModificationsPhase{support: scmSupport{phaseName: CheckModificationsPhaseNameConstant, dependencies: dependencies}}
}

// Name returns scm-check-modifications.
func (phase *CheckModificationsPhase) Name() string {
	return CheckModificationsPhaseNameConstant
}

// Execute runs a status check on the working directory.
func (phase *CheckModificationsPhase) Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, _ []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	excludedFiles := phase.excludedFiles(releaseDescriptor)
	phaseRecorder.info(verifyingModificationsMessageConstant)
	phaseRecorder.info(ignoringChangesMessagePrefixConstant + strings.Join(excludedFiles, excludeListSeparatorConstant))

	repository, provider, repositoryError := phase.support.repository(releaseDescriptor.ScmSourceURL, "", releaseDescriptor, environment)
	if repositoryError != nil {
		return phaseRecorder.fail(repositoryError)
	}

	statusResult, statusError := phase.support.dependencies.Executor.Status(executionContext, phase.support.scope(""), repository, provider, scm.NewFileSet(releaseDescriptor.WorkingDirectory))
	if classifiedError := phase.support.classify("", statusResult, statusError, statusExecutionMessageConstant, statusRefusedMessageConstant); classifiedError != nil {
		return phaseRecorder.fail(classifiedError)
	}

	remainingFiles := RemainingModifications(statusResult.Files, excludedFiles)
	if len(remainingFiles) > 0 {
		return phaseRecorder.fail(&releaseerrors.LocalModificationsError{Phase: phase.Name(), Files: remainingFiles})
	}
	return phaseRecorder.success()
}

// Simulate is identical to Execute because a status check changes nothing.
func (phase *CheckModificationsPhase) Simulate(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.Execute(executionContext, releaseDescriptor, environment, modules)
}

// Clean does nothing; the phase leaves no files behind.
func (phase *CheckModificationsPhase) Clean(context.Context, descriptor.ReleaseDescriptor, []reactor.Module) {}

func (phase *CheckModificationsPhase) excludedFiles(releaseDescriptor descriptor.ReleaseDescriptor) []string {
	excludedFiles := append(append([]string{}, DefaultCheckModificationExcludes...), releaseDescriptor.CheckModificationExcludes...)
	descriptorFileName := strings.TrimSpace(phase.support.dependencies.DescriptorFileName)
	if len(descriptorFileName) == 0 {
		return excludedFiles
	}
	descriptorBaseName := path.Base(strings.ReplaceAll(descriptorFileName, windowsPathSeparatorConstant, slashPathSeparatorConstant))
	if slices.Contains(excludedFiles, descriptorBaseName) {
		return excludedFiles
	}
	return append(excludedFiles, descriptorBaseName)
}

// RemainingModifications drops files whose base name is excluded and returns the rest in order.
func RemainingModifications(changedFiles []scm.File, excludedFiles []string) []string {
	excluded := make(map[string]struct{}, len(excludedFiles))
	for _, excludedFile := range excludedFiles {
		excluded[strings.TrimSpace(excludedFile)] = struct{}{}
	}

	remaining := make([]string, 0, len(changedFiles))
	for _, changedFile := range changedFiles {
		normalizedPath := strings.ReplaceAll(changedFile.Path, windowsPathSeparatorConstant, slashPathSeparatorConstant)
		if _, skip := excluded[path.Base(normalizedPath)]; skip {
			continue
		}
		remaining = append(remaining, changedFile.Path)
	}
	return remaining
}
