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
	waitBeforeTaggingTemplateConstant = "Waiting for %s before tagging the release."
	taggingTemplateConstant           = "Tagging release with the label %s..."
	tagMessageTemplateConstant        = "copy for tag %s"
	tagExecutionMessageConstant       = "An error is occurred in the tag process"
	tagRefusedMessageConstant         = "Unable to tag SCM"
	simulateTaggingTemplateConstant   = "Full run would be tagging %s"
	simulateScmURLTemplateConstant    = "  To SCM URL: %s"
	simulateLabelTemplateConstant     = "  with label: '%s'"
)

// TagPhase labels the released revision of every work unit.
type TagPhase struct {
	support scmSupport
	cleaner ScratchFileCleaner
}

func newTagPhase(dependencies Dependencies) *TagPhase {
	return &TagPhase{
		support: scmSupport{phaseName: TagPhaseNameConstant, dependencies: dependencies},
		cleaner: NewScratchFileCleaner(dependencies.FileSystem),
	}
}

// Name returns scm-tag.
func (phase *TagPhase) Name() string {
	return TagPhaseNameConstant
}

// Execute tags each work unit and stops at the first unit that fails.
func (phase *TagPhase) Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	if labelError := phase.support.requireLabels(releaseDescriptor, modules); labelError != nil {
		return phaseRecorder.fail(labelError)
	}
	units, planError := phase.support.planner().Plan(releaseDescriptor, modules)
	if planError != nil {
		return phaseRecorder.fail(planError)
	}
	phase.support.wait(executionContext, phaseRecorder, releaseDescriptor, fmt.Sprintf(waitBeforeTaggingTemplateConstant, releaseDescriptor.WaitBeforeTagging))

	iterationError := strategy.Iterate(units, strategy.StopAtFirstFailure, func(unit strategy.WorkUnit) error {
		phaseRecorder.info(fmt.Sprintf(taggingTemplateConstant, unit.ReleaseLabel))
		repository, provider, repositoryError := phase.support.repository(unit.SourceURL, unit.ModuleKey, releaseDescriptor, environment)
		if repositoryError != nil {
			return repositoryError
		}
		parameters := scm.TagParameters{
			Message:  composeMessage(releaseDescriptor.ScmCommentPrefix, fmt.Sprintf(tagMessageTemplateConstant, unit.ReleaseLabel)),
			Revision: releaseDescriptor.ReleasedRevision,
			Remote:   releaseDescriptor.RemoteTagging,
		}
		tagResult, tagError := phase.support.dependencies.Executor.Tag(executionContext, phase.support.scope(unit.ModuleKey), repository, provider, scm.NewFileSet(unit.WorkingDirectory), unit.ReleaseLabel, parameters)
		return phase.support.classify(unit.ModuleKey, tagResult, tagError, tagExecutionMessageConstant, tagRefusedMessageConstant)
	})
	if iterationError != nil {
		return phaseRecorder.fail(iterationError)
	}
	return phaseRecorder.success()
}

// Simulate reports the directory, URL and label each work unit would be tagged with.
func (phase *TagPhase) Simulate(_ context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)

	if labelError := phase.support.requireLabels(releaseDescriptor, modules); labelError != nil {
		return phaseRecorder.fail(labelError)
	}
	units, planError := phase.support.planner().Plan(releaseDescriptor, modules)
	if planError != nil {
		return phaseRecorder.fail(planError)
	}

	for _, unit := range units {
		phaseRecorder.info(fmt.Sprintf(simulateTaggingTemplateConstant, unit.WorkingDirectory))
		if releaseDescriptor.RemoteTagging {
			phaseRecorder.info(fmt.Sprintf(simulateScmURLTemplateConstant, unit.SourceURL))
		}
		phaseRecorder.info(fmt.Sprintf(simulateLabelTemplateConstant, unit.ReleaseLabel))
	}
	return phaseRecorder.success()
}

// Clean removes build file scratch copies.
func (phase *TagPhase) Clean(_ context.Context, _ descriptor.ReleaseDescriptor, modules []reactor.Module) {
	phase.cleaner.Clean(phase.support.dependencies.Logger, modules)
}
