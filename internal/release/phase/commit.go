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
	checkingInMessageConstant                    = "Checking in modified build files..."
	commitExecutionMessageConstant               = "An error is occurred in the checkin process"
	commitRefusedMessageConstant                 = "Unable to commit files"
	simulateCommitTemplateConstant               = "Full run would be commit %d files with message:"
	prepareReleaseMessageTemplateConstant        = "prepare release %s"
	rollbackMessageTemplateConstant              = "rollback the release of %s"
	developmentMessageConstant                   = "prepare for next development iteration"
	releaseCommitSuppressedMessageConstant       = "Release changes are not committed because suppressCommitBeforeTagOrBranch is set."
	simulateReleaseSuppressedMessageConstant     = "Full run would not commit changes, because suppressCommitBeforeTagOrBranch is set."
	developmentNotUpdatedMessageConstant         = "Modified POMs are not committed because updateWorkingCopyVersions is set to false."
	simulateDevelopmentNotUpdatedMessageConstant = "Full run would not commit changes, because updateWorkingCopyVersions is false."
)

// commitRequest is one commit of a work unit with its message.
type commitRequest struct {
	unit    strategy.WorkUnit
	message string
}

// commitSupport commits build files for the commit phases.
type commitSupport struct {
	support scmSupport
	cleaner ScratchFileCleaner
}

func (commits commitSupport) perform(executionContext context.Context, phaseRecorder *recorder, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, requests []commitRequest) (Result, error) {
	phaseRecorder.info(checkingInMessageConstant)
	for _, request := range requests {
		repository, provider, repositoryError := commits.support.repository(request.unit.SourceURL, request.unit.ModuleKey, releaseDescriptor, environment)
		if repositoryError != nil {
			return phaseRecorder.fail(repositoryError)
		}
		fileSet := scm.NewFileSet(request.unit.WorkingDirectory, buildFiles(request.unit)...)
		commitResult, commitError := commits.support.dependencies.Executor.Commit(executionContext, commits.support.scope(request.unit.ModuleKey), repository, provider, fileSet, scm.CommitParameters{Message: request.message})
		if classifiedError := commits.support.classify(request.unit.ModuleKey, commitResult, commitError, commitExecutionMessageConstant, commitRefusedMessageConstant); classifiedError != nil {
			return phaseRecorder.fail(classifiedError)
		}
	}
	return phaseRecorder.success()
}

func (commits commitSupport) simulate(phaseRecorder *recorder, requests []commitRequest) (Result, error) {
	fileCount := 0
	for _, request := range requests {
		fileCount += len(buildFiles(request.unit))
	}
	phaseRecorder.info(fmt.Sprintf(simulateCommitTemplateConstant, fileCount))
	for _, request := range requests {
		phaseRecorder.info(request.message)
	}
	return phaseRecorder.success()
}

// CommitReleasePhase commits the build files prepared for the release.
type CommitReleasePhase struct {
	commits commitSupport
}

func newCommitReleasePhase(dependencies Dependencies) *CommitReleasePhase {
	return &CommitReleasePhase{commits: commitSupport{
		support: scmSupport{phaseName: CommitReleasePhaseNameConstant, dependencies: dependencies},
		cleaner: NewScratchFileCleaner(dependencies.FileSystem),
	}}
}

// Name returns scm-commit-release.
func (phase *CommitReleasePhase) Name() string {
	return CommitReleasePhaseNameConstant
}

// Execute commits the release build files unless commits before tagging are suppressed.
func (phase *CommitReleasePhase) Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.run(executionContext, releaseDescriptor, environment, modules, false)
}

// Simulate reports the files and messages Execute would commit.
func (phase *CommitReleasePhase) Simulate(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.run(executionContext, releaseDescriptor, environment, modules, true)
}

// Clean removes build file scratch copies.
func (phase *CommitReleasePhase) Clean(_ context.Context, _ descriptor.ReleaseDescriptor, modules []reactor.Module) {
	phase.commits.cleaner.Clean(phase.commits.support.dependencies.Logger, modules)
}

func (phase *CommitReleasePhase) run(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module, simulating bool) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	if releaseDescriptor.SuppressCommitBeforeTagOrBranch {
		if simulating {
			phaseRecorder.info(simulateReleaseSuppressedMessageConstant)
		} else {
			phaseRecorder.info(releaseCommitSuppressedMessageConstant)
		}
		return phaseRecorder.success()
	}

	if labelError := phase.commits.support.requireLabels(releaseDescriptor, modules); labelError != nil {
		return phaseRecorder.fail(labelError)
	}
	units, planError := phase.commits.support.planner().Plan(releaseDescriptor, modules)
	if planError != nil {
		return phaseRecorder.fail(planError)
	}

	requests := make([]commitRequest, 0, len(units))
	for _, unit := range units {
		requests = append(requests, commitRequest{
			unit:    unit,
			message: composeMessage(releaseDescriptor.ScmCommentPrefix, fmt.Sprintf(prepareReleaseMessageTemplateConstant, unit.ReleaseLabel)),
		})
	}

	if simulating {
		return phase.commits.simulate(phaseRecorder, requests)
	}
	return phase.commits.perform(executionContext, phaseRecorder, releaseDescriptor, environment, requests)
}

// CommitDevelopmentPhase commits the working copy after tagging or branching. It either
// records the next development iteration, rolls back the release changes when the working
// copy versions are not updated, or does nothing when no release commit was made.
type CommitDevelopmentPhase struct {
	commits commitSupport
}

func newCommitDevelopmentPhase(dependencies Dependencies) *CommitDevelopmentPhase {
	return &CommitDevelopmentPhase{commits: commitSupport{
		support: scmSupport{phaseName: CommitDevelopmentPhaseNameConstant, dependencies: dependencies},
		cleaner: NewScratchFileCleaner(dependencies.FileSystem),
	}}
}

// Name returns scm-commit-development.
func (phase *CommitDevelopmentPhase) Name() string {
	return CommitDevelopmentPhaseNameConstant
}

// Execute commits the development or rollback changes.
func (phase *CommitDevelopmentPhase) Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.run(executionContext, releaseDescriptor, environment, modules, false)
}

// Simulate reports the files and messages Execute would commit.
func (phase *CommitDevelopmentPhase) Simulate(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.run(executionContext, releaseDescriptor, environment, modules, true)
}

// Clean removes build file scratch copies.
func (phase *CommitDevelopmentPhase) Clean(_ context.Context, _ descriptor.ReleaseDescriptor, modules []reactor.Module) {
	phase.commits.cleaner.Clean(phase.commits.support.dependencies.Logger, modules)
}

func (phase *CommitDevelopmentPhase) run(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module, simulating bool) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	if releaseDescriptor.SuppressCommitBeforeTagOrBranch && !releaseDescriptor.UpdateWorkingCopyVersions {
		if simulating {
			phaseRecorder.info(simulateDevelopmentNotUpdatedMessageConstant)
		} else {
			phaseRecorder.info(developmentNotUpdatedMessageConstant)
		}
		return phaseRecorder.success()
	}

	rollback := !releaseDescriptor.UpdateWorkingCopyVersions
	planner := phase.commits.support.planner()
	var units []strategy.WorkUnit
	var planError error
	if rollback {
		if labelError := phase.commits.support.requireLabels(releaseDescriptor, modules); labelError != nil {
			return phaseRecorder.fail(labelError)
		}
		units, planError = planner.Plan(releaseDescriptor, modules)
	} else {
		units, planError = planner.PlanWithoutLabels(releaseDescriptor, modules)
	}
	if planError != nil {
		return phaseRecorder.fail(planError)
	}

	requests := make([]commitRequest, 0, len(units))
	for _, unit := range units {
		message := composeMessage(releaseDescriptor.ScmCommentPrefix, developmentMessageConstant)
		if rollback {
			message = composeMessage(releaseDescriptor.ScmCommentPrefix, fmt.Sprintf(rollbackMessageTemplateConstant, unit.ReleaseLabel))
		}
		requests = append(requests, commitRequest{unit: unit, message: message})
	}

	if simulating {
		return phase.commits.simulate(phaseRecorder, requests)
	}
	return phase.commits.perform(executionContext, phaseRecorder, releaseDescriptor, environment, requests)
}
