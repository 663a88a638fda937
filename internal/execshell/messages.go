package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	optionPrefixConstant                    = "-"
)

const (
	gitStatusSubcommandNameConstant = "status"
	gitTagSubcommandNameConstant    = "tag"
	gitBranchSubcommandNameConstant = "branch"
	gitAddSubcommandNameConstant    = "add"
	gitCommitSubcommandNameConstant = "commit"
	gitPushSubcommandNameConstant   = "push"
	gitCloneSubcommandNameConstant  = "clone"
	gitMessageFlagConstant          = "-m"
	gitBranchFlagConstant           = "--branch"
)

const (
	gitStatusStartTemplateConstant            = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant          = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant          = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant = "Unable to review working tree status in %s: %s"
	gitTagStartTemplateConstant               = "Creating tag %s in %s"
	gitTagSuccessTemplateConstant             = "Created tag %s in %s"
	gitTagFailureTemplateConstant             = "Failed to create tag %s in %s (exit code %d%s)"
	gitTagExecutionFailureTemplateConstant    = "Unable to create tag %s in %s: %s"
	gitBranchStartTemplateConstant            = "Creating branch %s in %s"
	gitBranchSuccessTemplateConstant          = "Created branch %s in %s"
	gitBranchFailureTemplateConstant          = "Failed to create branch %s in %s (exit code %d%s)"
	gitBranchExecutionFailureTemplateConstant = "Unable to create branch %s in %s: %s"
	gitAddStartTemplateConstant               = "Staging %s in %s"
	gitAddSuccessTemplateConstant             = "Staged %s in %s"
	gitAddFailureTemplateConstant             = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant    = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant            = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant          = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant          = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant = "Unable to create commit in %s with message %q: %s"
	gitPushStartTemplateConstant              = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant            = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant            = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant   = "Unable to push %s to %s from %s: %s"
	gitCloneStartTemplateConstant             = "Checking out %s from %s into %s"
	gitCloneSuccessTemplateConstant           = "Checked out %s from %s into %s"
	gitCloneFailureTemplateConstant           = "Failed to check out %s from %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant  = "Unable to check out %s from %s into %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitStatusSubcommandNameConstant:
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant},
			workingDirectory)
	case gitTagSubcommandNameConstant:
		tagName := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitTagStartTemplateConstant, gitTagSuccessTemplateConstant, gitTagFailureTemplateConstant, gitTagExecutionFailureTemplateConstant},
			tagName, workingDirectory)
	case gitBranchSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitBranchStartTemplateConstant, gitBranchSuccessTemplateConstant, gitBranchFailureTemplateConstant, gitBranchExecutionFailureTemplateConstant},
			branchName, workingDirectory)
	case gitAddSubcommandNameConstant:
		paths := formatter.ensureValue(strings.Join(formatter.positionalArguments(arguments[1:]), commandArgumentsJoinSeparatorConstant))
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitAddStartTemplateConstant, gitAddSuccessTemplateConstant, gitAddFailureTemplateConstant, gitAddExecutionFailureTemplateConstant},
			paths, workingDirectory)
	case gitCommitSubcommandNameConstant:
		message := formatter.flagValue(arguments, gitMessageFlagConstant)
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitCommitStartTemplateConstant, gitCommitSuccessTemplateConstant, gitCommitFailureTemplateConstant, gitCommitExecutionFailureTemplateConstant},
			workingDirectory, message)
	case gitPushSubcommandNameConstant:
		positional := formatter.positionalArguments(arguments[1:])
		remote := formatter.ensureValue(formatter.argumentAtIndex(positional, 0))
		reference := formatter.ensureValue(formatter.argumentAtIndex(positional, 1))
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitPushStartTemplateConstant, gitPushSuccessTemplateConstant, gitPushFailureTemplateConstant, gitPushExecutionFailureTemplateConstant},
			reference, remote, workingDirectory)
	case gitCloneSubcommandNameConstant:
		positional := formatter.positionalArguments(arguments[1:])
		reference := formatter.ensureValue(formatter.flagValue(arguments, gitBranchFlagConstant))
		source := formatter.ensureValue(formatter.argumentAtIndex(positional, 0))
		destination := formatter.ensureValue(formatter.argumentAtIndex(positional, 1))
		return formatter.selectTemplate(stage, result, failure,
			stageTemplates{gitCloneStartTemplateConstant, gitCloneSuccessTemplateConstant, gitCloneFailureTemplateConstant, gitCloneExecutionFailureTemplateConstant},
			reference, source, destination)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

func (formatter CommandMessageFormatter) selectTemplate(stage messageStage, result ExecutionResult, failure error, templates stageTemplates, values ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, values...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, values...)
	case messageStageFailure:
		failureValues := append(append([]any{}, values...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, failureValues...)
	default:
		failureValues := append(append([]any{}, values...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, failureValues...)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := emptyStringConstant
	if len(strings.TrimSpace(command.Details.WorkingDirectory)) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, strings.Join(commandParts, commandArgumentsJoinSeparatorConstant), workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmed := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmed) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	if len(trimmed) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmed)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return arguments[index]
}

// positionalArguments drops options and the values of flags that take one.
func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if argument == gitMessageFlagConstant || argument == gitBranchFlagConstant {
			argumentIndex++
			continue
		}
		if strings.HasPrefix(argument, optionPrefixConstant) {
			continue
		}
		positional = append(positional, argument)
	}
	return positional
}

func (formatter CommandMessageFormatter) firstPositionalArgument(arguments []string) string {
	return formatter.argumentAtIndex(formatter.positionalArguments(arguments), 0)
}

func (formatter CommandMessageFormatter) flagValue(arguments []string, flagName string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if arguments[argumentIndex] == flagName {
			return arguments[argumentIndex+1]
		}
	}
	return emptyStringConstant
}
