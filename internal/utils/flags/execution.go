// Package flags binds the flags shared by the relman release commands.
package flags

import (
	"github.com/spf13/cobra"

	"github.com/temirov/relman/internal/utils"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Simulate every phase without touching the repository"
	// ResumeFlagName exposes the shared resume flag name.
	ResumeFlagName = "resume"
	// ResumeFlagUsage describes the shared resume flag purpose.
	ResumeFlagUsage = "Resume from the last completed phase recorded in release.yaml"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun bool
	Resume bool
}

// BindExecutionFlags attaches the dry-run and resume toggles to the command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults) {
	if command == nil {
		return
	}
	persistentFlagSet := command.PersistentFlags()
	if persistentFlagSet.Lookup(DryRunFlagName) == nil {
		AddToggleFlag(persistentFlagSet, nil, DryRunFlagName, defaults.DryRun, DryRunFlagUsage)
	}
	if persistentFlagSet.Lookup(ResumeFlagName) == nil {
		AddToggleFlag(persistentFlagSet, nil, ResumeFlagName, defaults.Resume, ResumeFlagUsage)
	}
}

// ResolveExecutionFlags returns the execution flags stored in the command context,
// falling back to the parsed flag set when the context carries none.
func ResolveExecutionFlags(command *cobra.Command) (utils.ExecutionFlags, bool) {
	if command == nil {
		return utils.ExecutionFlags{}, false
	}

	contextAccessor := utils.NewCommandContextAccessor()
	if executionFlags, available := contextAccessor.ExecutionFlags(command.Context()); available {
		return executionFlags, true
	}

	dryRunFlag := command.Flag(DryRunFlagName)
	resumeFlag := command.Flag(ResumeFlagName)
	if dryRunFlag == nil && resumeFlag == nil {
		return utils.ExecutionFlags{}, false
	}

	executionFlags := utils.ExecutionFlags{}
	if dryRunFlag != nil {
		executionFlags.DryRun = dryRunFlag.Value.String() == toggleTrueCanonicalValue
		executionFlags.DryRunSet = dryRunFlag.Changed
	}
	if resumeFlag != nil {
		executionFlags.Resume = resumeFlag.Value.String() == toggleTrueCanonicalValue
		executionFlags.ResumeSet = resumeFlag.Changed
	}
	return executionFlags, true
}
