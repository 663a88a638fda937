package phase

import (
	"context"
	"fmt"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/strategy"
	"github.com/temirov/relman/internal/scm"
)

const (
	waitBeforeBranchingTemplateConstant = "Waiting for %s before branching the release."
	branchingTemplateConstant           = "Branching release with the label %s..."
	branchMessageTemplateConstant       = "copy for branch %s"
	branchExecutionMessageConstant      = "An error is occurred in the branch process"
	branchRefusedMessageConstant        = "Unable to branch SCM"
	simulateBranchingTemplateConstant   = "Full run would be branching %s"
)

// BranchPhase creates a release branch for every work unit.
type BranchPhase struct {
	support scmSupport
	cleaner ScratchFileCleaner
}

func newBranchPhase(dependencies Dependencies) *BranchPhase {
	return &BranchPhase{
		support: scmSupport{phaseName: BranchPhaseNameConstant, dependencies: dependencies},
		cleaner: NewScratchFileCleaner(dependencies.FileSystem),
	}
}

// Name returns scm-branch.
func (phase *BranchPhase) Name() string {
	return BranchPhaseNameConstant
}

// Execute branches each work unit and stops at the first unit that fails.
func (phase *BranchPhase) Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	if labelError := phase.support.requireLabels(releaseDescriptor, modules); labelError != nil {
		return phaseRecorder.fail(labelError)
	}
	units, planError := phase.support.planner().Plan(releaseDescriptor, modules)
	if planError != nil {
		return phaseRecorder.fail(planError)
	}
	phase.support.wait(executionContext, phaseRecorder, releaseDescriptor, fmt.Sprintf(waitBeforeBranchingTemplateConstant, releaseDescriptor.WaitBeforeTagging))

	iterationError := strategy.Iterate(units, strategy.StopAtFirstFailure, func(unit strategy.WorkUnit) error {
		phaseRecorder.info(fmt.Sprintf(branchingTemplateConstant, unit.ReleaseLabel))
		repository, provider, repositoryError := phase.support.repository(unit.SourceURL, unit.ModuleKey, releaseDescriptor, environment)
		if repositoryError != nil {
			return repositoryError
		}
		parameters := scm.BranchParameters{
			Message:  composeMessage(releaseDescriptor.ScmCommentPrefix, fmt.Sprintf(branchMessageTemplateConstant, unit.ReleaseLabel)),
			Revision: releaseDescriptor.ReleasedRevision,
			Remote:   releaseDescriptor.RemoteTagging,
		}
		branchResult, branchError := phase.support.dependencies.Executor.Branch(executionContext, phase.support.scope(unit.ModuleKey), repository, provider, scm.NewFileSet(unit.WorkingDirectory), unit.ReleaseLabel, parameters)
		return phase.support.classify(unit.ModuleKey, branchResult, branchError, branchExecutionMessageConstant, branchRefusedMessageConstant)
	})
	if iterationError != nil {
		return phaseRecorder.fail(iterationError)
	}
	return phaseRecorder.success()
}

// Simulate reports the directory, URL and label each work unit would be branched with.
// The reported URL is the branch base when one is configured.
func (phase *BranchPhase) Simulate(_ context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	if labelError := phase.support.requireLabels(releaseDescriptor, modules); labelError != nil {
		return phaseRecorder.fail(labelError)
	}
	units, planError := phase.support.planner().Plan(releaseDescriptor, modules)
	if planError != nil {
		return phaseRecorder.fail(planError)
	}

	for _, unit := range units {
		phaseRecorder.info(fmt.Sprintf(simulateBranchingTemplateConstant, unit.WorkingDirectory))
		if releaseDescriptor.RemoteTagging {
			targetURL := unit.SourceURL
			if len(releaseDescriptor.BranchBase) > 0 {
				targetURL = releaseDescriptor.BranchBase
			}
			phaseRecorder.info(fmt.Sprintf(simulateScmURLTemplateConstant, targetURL))
		}
		phaseRecorder.info(fmt.Sprintf(simulateLabelTemplateConstant, unit.ReleaseLabel))
	}
	return phaseRecorder.success()
}

// Clean removes build file scratch copies.
func (phase *BranchPhase) Clean(_ context.Context, _ descriptor.ReleaseDescriptor, modules []reactor.Module) {
	phase.cleaner.Clean(phase.support.dependencies.Logger, modules)
}
