package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relman/cmd/cli/release"
	"github.com/temirov/relman/internal/execshell"
	flagutils "github.com/temirov/relman/internal/utils/flags"
)

const (
	internalTestReactorContentConstant = "modules:\n  - group: org.example\n    artifact: parent\n    basedir: .\n    scm:\n      connection: scm:git:https://example.com/org/project.git\n"
)

type recordingGitExecutor struct {
	recorded [][]string
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details.Arguments)
	return execshell.ExecutionResult{}, nil
}

func TestInitializeConfigurationAttachesExecutionFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	application := NewApplication()
	prepareCommand, _, findError := application.rootCommand.Find([]string{"release", "prepare"})
	require.NoError(t, findError)
	prepareCommand.SetContext(context.Background())

	releaseCommand := prepareCommand.Parent()
	require.NoError(t, releaseCommand.PersistentFlags().Set(flagutils.DryRunFlagName, "yes"))

	require.NoError(t, application.initializeConfiguration(prepareCommand))

	executionFlags, executionFlagsAvailable := application.commandContextAccessor.ExecutionFlags(prepareCommand.Context())
	require.True(t, executionFlagsAvailable)
	require.True(t, executionFlags.DryRun)
	require.True(t, executionFlags.DryRunSet)
	require.False(t, executionFlags.ResumeSet)

	_, configurationPathAvailable := application.commandContextAccessor.ConfigurationFilePath(prepareCommand.Context())
	require.True(t, configurationPathAvailable)
}

func TestInitializeConfigurationAppliesLogFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(t, rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "CONSOLE"))
	require.NoError(t, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))

	require.NoError(t, application.initializeConfiguration(rootCommand))
	require.Equal(t, "console", application.configuration.Common.LogFormat)
	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.True(t, application.humanReadableLoggingEnabled())
}

func TestInitializeConfigurationRejectsUnknownLogFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(t, rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "xml"))

	require.Error(t, application.initializeConfiguration(rootCommand))
}

func TestApplicationExecutesReleasePrepare(t *testing.T) {
	workingDirectory := t.TempDir()
	t.Chdir(workingDirectory)
	require.NoError(t, os.WriteFile(filepath.Join(workingDirectory, release.DefaultReactorFileNameConstant), []byte(internalTestReactorContentConstant), 0o600))

	executor := &recordingGitExecutor{}
	application := NewApplicationWithDependencies(release.Dependencies{GitExecutor: executor})
	output := &bytes.Buffer{}
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(&bytes.Buffer{})

	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()
	os.Args = []string{applicationNameConstant, "release", "prepare", "--dry-run", "yes", "--label", "v1.0.0"}

	require.NoError(t, application.Execute())
	require.Len(t, executor.recorded, 1)
	require.Equal(t, "status", executor.recorded[0][0])
	require.Contains(t, output.String(), "RELEASE SUCCESS prepare")
	require.NoFileExists(t, filepath.Join(workingDirectory, "release.yaml"))
}

func TestInitializeConfigurationReadsUnitlessWaitAsSeconds(t *testing.T) {
	workingDirectory := t.TempDir()
	t.Chdir(workingDirectory)
	require.NoError(t, os.WriteFile(filepath.Join(workingDirectory, "config.yaml"), []byte("tools:\n  release:\n    wait_before_tagging: 10\n"), 0o600))

	application := NewApplication()
	require.NoError(t, application.InitializeForCommand("release prepare"))
	require.Equal(t, 10*time.Second, application.configuration.Tools.Release.WaitBeforeTagging)
}
