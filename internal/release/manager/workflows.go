package manager

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/relman/internal/filesystem"
	"github.com/temirov/relman/internal/release/phase"
)

// Workflow names.
const (
	PrepareWorkflowNameConstant = "prepare"
	BranchWorkflowNameConstant  = "branch"
	PerformWorkflowNameConstant = "perform"
)

const (
	workflowFilePathRequiredMessageConstant  = "workflow file path must be provided"
	workflowFileLoadErrorTemplateConstant    = "failed to load workflow file: %w"
	workflowFileParseErrorTemplateConstant   = "failed to parse workflow file %s: %w"
	workflowFileEmptyTemplateConstant        = "workflow file %s defines no workflows"
	workflowNameRequiredMessageConstant      = "workflow names must be non-empty"
	workflowEmptyTemplateConstant            = "workflow %s must list at least one phase"
	workflowPhaseNameMissingTemplateConstant = "workflow %s lists a phase without a name"
)

// Workflows maps a workflow name to its ordered phase names.
type Workflows map[string][]string

// DefaultWorkflows returns the built-in phase orders.
func DefaultWorkflows() Workflows {
	return Workflows{
		PrepareWorkflowNameConstant: {
			phase.CheckModificationsPhaseNameConstant,
			phase.CommitReleasePhaseNameConstant,
			phase.TagPhaseNameConstant,
			phase.CommitDevelopmentPhaseNameConstant,
			phase.EndReleasePhaseNameConstant,
		},
		BranchWorkflowNameConstant: {
			phase.CheckModificationsPhaseNameConstant,
			phase.BranchPhaseNameConstant,
			phase.CommitDevelopmentPhaseNameConstant,
		},
		PerformWorkflowNameConstant: {
			phase.VerifyCompletedPreparePhaseNameConstant,
			phase.CheckoutProjectPhaseNameConstant,
		},
	}
}

// Merge returns a copy of the receiver with the overrides replacing whole workflows.
func (workflows Workflows) Merge(overrides Workflows) Workflows {
	merged := make(Workflows, len(workflows)+len(overrides))
	for workflowName, phaseNames := range workflows {
		merged[workflowName] = slices.Clone(phaseNames)
	}
	for workflowName, phaseNames := range overrides {
		merged[workflowName] = slices.Clone(phaseNames)
	}
	return merged
}

// Names returns the workflow names in lexical order.
func (workflows Workflows) Names() []string {
	return slices.Sorted(maps.Keys(workflows))
}

// FinalPhase returns the last phase of the workflow.
func (workflows Workflows) FinalPhase(workflowName string) string {
	phaseNames := workflows[workflowName]
	if len(phaseNames) == 0 {
		return ""
	}
	return phaseNames[len(phaseNames)-1]
}

// ParseWorkflows decodes workflow overrides from YAML. The document is either a mapping of
// workflow names to phase lists or the same mapping nested under a workflows key.
func ParseWorkflows(sourceName string, content []byte) (Workflows, error) {
	var wrapper struct {
		Workflows Workflows `yaml:"workflows"`
	}
	if unmarshalError := yaml.Unmarshal(content, &wrapper); unmarshalError != nil {
		return nil, fmt.Errorf(workflowFileParseErrorTemplateConstant, sourceName, unmarshalError)
	}

	workflows := wrapper.Workflows
	if len(workflows) == 0 {
		var bare Workflows
		if unmarshalError := yaml.Unmarshal(content, &bare); unmarshalError != nil {
			return nil, fmt.Errorf(workflowFileParseErrorTemplateConstant, sourceName, unmarshalError)
		}
		workflows = bare
	}
	if len(workflows) == 0 {
		return nil, fmt.Errorf(workflowFileEmptyTemplateConstant, sourceName)
	}

	normalized := make(Workflows, len(workflows))
	for workflowName, phaseNames := range workflows {
		trimmedWorkflowName := strings.TrimSpace(workflowName)
		if len(trimmedWorkflowName) == 0 {
			return nil, errors.New(workflowNameRequiredMessageConstant)
		}
		if len(phaseNames) == 0 {
			return nil, fmt.Errorf(workflowEmptyTemplateConstant, trimmedWorkflowName)
		}
		trimmedPhaseNames := make([]string, 0, len(phaseNames))
		for _, phaseName := range phaseNames {
			trimmedPhaseName := strings.TrimSpace(phaseName)
			if len(trimmedPhaseName) == 0 {
				return nil, fmt.Errorf(workflowPhaseNameMissingTemplateConstant, trimmedWorkflowName)
			}
			trimmedPhaseNames = append(trimmedPhaseNames, trimmedPhaseName)
		}
		normalized[trimmedWorkflowName] = trimmedPhaseNames
	}
	return normalized, nil
}

// LoadWorkflowFile reads workflow overrides from disk.
func LoadWorkflowFile(fileSystem filesystem.FileSystem, filePath string) (Workflows, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, errors.New(workflowFilePathRequiredMessageConstant)
	}

	content, readError := filesystem.Resolve(fileSystem).ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(workflowFileLoadErrorTemplateConstant, readError)
	}
	return ParseWorkflows(trimmedPath, content)
}
