package execshell

import (
	"fmt"
	"io"
)

// CommandEventObserver receives lifecycle notifications for every command the executor runs.
type CommandEventObserver interface {
	// CommandStarted is called before the runner is invoked.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the runner produced a result, regardless of its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when the runner could not produce a result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// ConsoleObserver prints a human readable line for every command event.
type ConsoleObserver struct {
	writer    io.Writer
	formatter CommandMessageFormatter
}

// NewConsoleObserver constructs an observer writing to the provided writer.
func NewConsoleObserver(writer io.Writer) *ConsoleObserver {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleObserver{writer: writer}
}

// CommandStarted prints the started message.
func (observer *ConsoleObserver) CommandStarted(command ShellCommand) {
	fmt.Fprintln(observer.writer, observer.formatter.BuildStartedMessage(command))
}

// CommandCompleted prints the success or failure message depending on the exit code.
func (observer *ConsoleObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if result.ExitCode != 0 {
		fmt.Fprintln(observer.writer, observer.formatter.BuildFailureMessage(command, result))
		return
	}
	fmt.Fprintln(observer.writer, observer.formatter.BuildSuccessMessage(command))
}

// CommandExecutionFailed prints the execution failure message.
func (observer *ConsoleObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	fmt.Fprintln(observer.writer, observer.formatter.BuildExecutionFailureMessage(command, failure))
}
