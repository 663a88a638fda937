package flags

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	// ReactorFlagName exposes the reactor file flag name.
	ReactorFlagName = "reactor"
	// ReactorFlagUsage describes the reactor file flag purpose.
	ReactorFlagUsage = "Path to the reactor file describing the modules to release"
	// ReleaseLabelFlagName exposes the global release label flag name.
	ReleaseLabelFlagName = "label"
	// ReleaseLabelFlagUsage describes the global release label flag purpose.
	ReleaseLabelFlagUsage = "Tag or branch name applied to the whole reactor"
	// ModuleLabelFlagName exposes the per-module release label flag name.
	ModuleLabelFlagName = "module-label"
	// ModuleLabelFlagUsage describes the per-module release label flag purpose.
	ModuleLabelFlagUsage = "Per-module label as group:artifact=label (repeatable)"
)

// ReleaseFlagValues stores release context flag values.
type ReleaseFlagValues struct {
	ReactorPath  string
	ReleaseLabel string
	ModuleLabels map[string]string
}

// ReleaseFlagDefinition enables the individual release context flags.
type ReleaseFlagDefinition struct {
	Reactor      bool
	ReleaseLabel bool
	ModuleLabels bool
}

// BindReleaseFlags attaches the reactor and label flags to the provided command.
func BindReleaseFlags(command *cobra.Command, defaults ReleaseFlagValues, definition ReleaseFlagDefinition) *ReleaseFlagValues {
	values := ReleaseFlagValues{
		ReactorPath:  defaults.ReactorPath,
		ReleaseLabel: defaults.ReleaseLabel,
		ModuleLabels: copyLabels(defaults.ModuleLabels),
	}
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	if definition.Reactor && flagSet.Lookup(ReactorFlagName) == nil {
		flagSet.StringVar(&values.ReactorPath, ReactorFlagName, values.ReactorPath, ReactorFlagUsage)
	}
	if definition.ReleaseLabel && flagSet.Lookup(ReleaseLabelFlagName) == nil {
		flagSet.StringVar(&values.ReleaseLabel, ReleaseLabelFlagName, values.ReleaseLabel, ReleaseLabelFlagUsage)
	}
	if definition.ModuleLabels && flagSet.Lookup(ModuleLabelFlagName) == nil {
		flagSet.StringToStringVar(&values.ModuleLabels, ModuleLabelFlagName, values.ModuleLabels, ModuleLabelFlagUsage)
	}
	return &values
}

// Sanitized trims whitespace and drops module labels with empty keys or values.
func (values ReleaseFlagValues) Sanitized() ReleaseFlagValues {
	sanitized := ReleaseFlagValues{
		ReactorPath:  strings.TrimSpace(values.ReactorPath),
		ReleaseLabel: strings.TrimSpace(values.ReleaseLabel),
		ModuleLabels: map[string]string{},
	}
	for moduleKey, moduleLabel := range values.ModuleLabels {
		trimmedKey := strings.TrimSpace(moduleKey)
		trimmedLabel := strings.TrimSpace(moduleLabel)
		if len(trimmedKey) == 0 || len(trimmedLabel) == 0 {
			continue
		}
		sanitized.ModuleLabels[trimmedKey] = trimmedLabel
	}
	return sanitized
}

func copyLabels(labels map[string]string) map[string]string {
	copied := make(map[string]string, len(labels))
	for labelKey, labelValue := range labels {
		copied[labelKey] = labelValue
	}
	return copied
}
