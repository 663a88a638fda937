package manager_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relman/internal/release/manager"
	"github.com/temirov/relman/internal/release/phase"
)

const (
	workflowFileNameConstant          = "workflows.yaml"
	nestedWorkflowContentConstant     = "workflows:\n  prepare:\n    - scm-check-modifications\n    - ' scm-tag '\n"
	bareWorkflowContentConstant       = "branch:\n  - scm-branch\n"
	emptyWorkflowContentConstant      = "workflows: {}\n"
	blankPhaseWorkflowContentConstant = "prepare:\n  - scm-tag\n  - ''\n"
	emptyListWorkflowContentConstant  = "perform: []\n"
	malformedWorkflowContentConstant  = "prepare: [unterminated"
)

func TestParseWorkflows(testInstance *testing.T) {
	testCases := []struct {
		name              string
		content           string
		expectedWorkflows manager.Workflows
		expectedMessage   string
	}{
		{
			name:    "nested_document",
			content: nestedWorkflowContentConstant,
			expectedWorkflows: manager.Workflows{
				manager.PrepareWorkflowNameConstant: {phase.CheckModificationsPhaseNameConstant, phase.TagPhaseNameConstant},
			},
		},
		{
			name:    "bare_document",
			content: bareWorkflowContentConstant,
			expectedWorkflows: manager.Workflows{
				manager.BranchWorkflowNameConstant: {phase.BranchPhaseNameConstant},
			},
		},
		{
			name:            "empty_document",
			content:         emptyWorkflowContentConstant,
			expectedMessage: "failed to parse workflow file inline",
		},
		{
			name:            "blank_phase_name",
			content:         blankPhaseWorkflowContentConstant,
			expectedMessage: "workflow prepare lists a phase without a name",
		},
		{
			name:            "empty_phase_list",
			content:         emptyListWorkflowContentConstant,
			expectedMessage: "workflow perform must list at least one phase",
		},
		{
			name:            "malformed_yaml",
			content:         malformedWorkflowContentConstant,
			expectedMessage: "failed to parse workflow file inline",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workflows, parseError := manager.ParseWorkflows("inline", []byte(testCase.content))
			if len(testCase.expectedMessage) > 0 {
				require.Error(testInstance, parseError)
				require.Contains(testInstance, parseError.Error(), testCase.expectedMessage)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedWorkflows, workflows)
		})
	}
}

func TestLoadWorkflowFile(testInstance *testing.T) {
	workflowPath := filepath.Join(testInstance.TempDir(), workflowFileNameConstant)
	require.NoError(testInstance, os.WriteFile(workflowPath, []byte(nestedWorkflowContentConstant), 0o600))

	workflows, loadError := manager.LoadWorkflowFile(nil, workflowPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{phase.CheckModificationsPhaseNameConstant, phase.TagPhaseNameConstant}, workflows[manager.PrepareWorkflowNameConstant])

	_, missingError := manager.LoadWorkflowFile(nil, filepath.Join(testInstance.TempDir(), workflowFileNameConstant))
	require.ErrorIs(testInstance, missingError, os.ErrNotExist)

	_, blankPathError := manager.LoadWorkflowFile(nil, "  ")
	require.EqualError(testInstance, blankPathError, "workflow file path must be provided")
}

func TestWorkflowsMergeReplacesWholeWorkflows(testInstance *testing.T) {
	defaults := manager.DefaultWorkflows()
	merged := defaults.Merge(manager.Workflows{manager.BranchWorkflowNameConstant: {phase.BranchPhaseNameConstant}})

	require.Equal(testInstance, []string{phase.BranchPhaseNameConstant}, merged[manager.BranchWorkflowNameConstant])
	require.Equal(testInstance, defaults[manager.PrepareWorkflowNameConstant], merged[manager.PrepareWorkflowNameConstant])
	require.Len(testInstance, defaults[manager.BranchWorkflowNameConstant], 3)
	require.Equal(testInstance, phase.EndReleasePhaseNameConstant, merged.FinalPhase(manager.PrepareWorkflowNameConstant))
	require.Empty(testInstance, merged.FinalPhase("deploy"))
	require.Equal(testInstance, []string{"branch", "perform", "prepare"}, merged.Names())
}
