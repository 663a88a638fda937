package release

import (
	"github.com/spf13/cobra"

	flagutils "github.com/temirov/relman/internal/utils/flags"
)

const (
	groupUseConstant      = "release"
	groupShortDescription = "Prepare, branch and perform releases of a module reactor"
	groupLongDescription  = "release drives the phases that tag or branch a reactor in its SCM, records progress in release.yaml and checks the tagged sources out again for the release build."
)

// GroupBuilder assembles the release command group.
type GroupBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	Dependencies                 Dependencies
}

// Build constructs the release command hierarchy.
func (builder *GroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	defaults := builder.resolveConfiguration()
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{DryRun: defaults.DryRun, Resume: defaults.Resume})

	subcommandBuilders := []func() (*cobra.Command, error){
		builder.buildPrepareCommand,
		builder.buildBranchCommand,
		builder.buildPerformCommand,
		builder.buildCleanCommand,
	}
	for _, buildSubcommand := range subcommandBuilders {
		subcommand, buildError := buildSubcommand()
		if buildError != nil {
			return nil, buildError
		}
		command.AddCommand(subcommand)
	}

	return command, nil
}

func (builder *GroupBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().Sanitize()
	}
	return builder.ConfigurationProvider().Sanitize()
}
