package release

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/temirov/relman/internal/release/manager"
	flagutils "github.com/temirov/relman/internal/utils/flags"
)

const (
	prepareUseConstant              = "prepare"
	prepareShortDescriptionConstant = "Check, commit and tag the reactor for release"
	prepareLongDescriptionConstant  = "prepare verifies the working copy has no local modifications, commits the release versions, tags the reactor and commits the next development versions. Progress is recorded so an interrupted run can continue with --resume."
	prepareExampleConstant          = "relman release prepare --label v1.2.0\nrelman release prepare --resume"

	branchUseConstant              = "branch"
	branchShortDescriptionConstant = "Create a release branch for the reactor"
	branchLongDescriptionConstant  = "branch verifies the working copy, creates the release branch from it and commits the next development versions. Branch runs are never recorded for resume."
	branchExampleConstant          = "relman release branch --label release-1.2.x"

	performUseConstant              = "perform"
	performShortDescriptionConstant = "Check out the tagged sources of a prepared release"
	performLongDescriptionConstant  = "perform reads release.yaml, confirms prepare completed and checks the released tag out into the checkout directory."
	performExampleConstant          = "relman release perform\nrelman release perform --clean"
	cleanFlagNameConstant           = "clean"
	cleanFlagUsageConstant          = "Remove release.yaml and scratch files after a successful perform"

	cleanUseConstant              = "clean"
	cleanShortDescriptionConstant = "Remove release.yaml and the scratch files left by release phases"
	cleanLongDescriptionConstant  = "clean asks every phase to remove its scratch files and deletes release.yaml. Failures are logged and never abort."
)

func (builder *GroupBuilder) buildPrepareCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     prepareUseConstant,
		Short:   prepareShortDescriptionConstant,
		Long:    prepareLongDescriptionConstant,
		Example: prepareExampleConstant,
		Args:    cobra.NoArgs,
	}
	releaseFlags := bindLabelFlags(command)
	command.RunE = func(command *cobra.Command, _ []string) error {
		releaseSession, sessionError := builder.newSession(command, releaseFlags)
		if sessionError != nil {
			return sessionError
		}
		result, prepareError := releaseSession.manager.Prepare(commandContext(command), manager.PrepareRequest{
			Descriptor:  releaseSession.descriptor,
			Environment: releaseSession.environment,
			Modules:     releaseSession.modules,
			Resume:      releaseSession.executionFlag.Resume,
			Simulate:    releaseSession.executionFlag.DryRun,
		})
		printSummary(releaseSession.output, manager.PrepareWorkflowNameConstant, result, releaseSession.executionFlag.DryRun)
		return describeFailure(prepareError)
	}
	return command, nil
}

func (builder *GroupBuilder) buildBranchCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     branchUseConstant,
		Short:   branchShortDescriptionConstant,
		Long:    branchLongDescriptionConstant,
		Example: branchExampleConstant,
		Args:    cobra.NoArgs,
	}
	releaseFlags := bindLabelFlags(command)
	command.RunE = func(command *cobra.Command, _ []string) error {
		releaseSession, sessionError := builder.newSession(command, releaseFlags)
		if sessionError != nil {
			return sessionError
		}
		result, branchError := releaseSession.manager.Branch(commandContext(command), manager.BranchRequest{
			Descriptor:  releaseSession.descriptor,
			Environment: releaseSession.environment,
			Modules:     releaseSession.modules,
			Simulate:    releaseSession.executionFlag.DryRun,
		})
		printSummary(releaseSession.output, manager.BranchWorkflowNameConstant, result, releaseSession.executionFlag.DryRun)
		return describeFailure(branchError)
	}
	return command, nil
}

func (builder *GroupBuilder) buildPerformCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     performUseConstant,
		Short:   performShortDescriptionConstant,
		Long:    performLongDescriptionConstant,
		Example: performExampleConstant,
		Args:    cobra.NoArgs,
	}
	releaseFlags := flagutils.BindReleaseFlags(command, flagutils.ReleaseFlagValues{}, flagutils.ReleaseFlagDefinition{Reactor: true})
	cleanAfterPerform := false
	flagutils.AddToggleFlag(command.Flags(), &cleanAfterPerform, cleanFlagNameConstant, false, cleanFlagUsageConstant)
	command.RunE = func(command *cobra.Command, _ []string) error {
		releaseSession, sessionError := builder.newSession(command, releaseFlags)
		if sessionError != nil {
			return sessionError
		}
		clean := releaseSession.configuration.CleanAfterPerform
		if command.Flags().Changed(cleanFlagNameConstant) {
			clean = cleanAfterPerform
		}
		result, performError := releaseSession.manager.Perform(commandContext(command), manager.PerformRequest{
			Descriptor:  releaseSession.descriptor,
			Environment: releaseSession.environment,
			Modules:     releaseSession.modules,
			Clean:       clean,
			Simulate:    releaseSession.executionFlag.DryRun,
		})
		printSummary(releaseSession.output, manager.PerformWorkflowNameConstant, result, releaseSession.executionFlag.DryRun)
		return describeFailure(performError)
	}
	return command, nil
}

func (builder *GroupBuilder) buildCleanCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cleanUseConstant,
		Short: cleanShortDescriptionConstant,
		Long:  cleanLongDescriptionConstant,
		Args:  cobra.NoArgs,
	}
	releaseFlags := flagutils.BindReleaseFlags(command, flagutils.ReleaseFlagValues{}, flagutils.ReleaseFlagDefinition{Reactor: true})
	command.RunE = func(command *cobra.Command, _ []string) error {
		releaseSession, sessionError := builder.newSession(command, releaseFlags)
		if sessionError != nil {
			return sessionError
		}
		result := releaseSession.manager.Clean(commandContext(command), manager.CleanRequest{
			Descriptor:  releaseSession.descriptor,
			Environment: releaseSession.environment,
			Modules:     releaseSession.modules,
		})
		printSummary(releaseSession.output, cleanUseConstant, result, false)
		return nil
	}
	return command, nil
}

func bindLabelFlags(command *cobra.Command) *flagutils.ReleaseFlagValues {
	return flagutils.BindReleaseFlags(command, flagutils.ReleaseFlagValues{}, flagutils.ReleaseFlagDefinition{
		Reactor:      true,
		ReleaseLabel: true,
		ModuleLabels: true,
	})
}

func commandContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}
