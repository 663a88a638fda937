// Package execshell runs external tools on behalf of relman.
//
// ShellExecutor wraps a CommandRunner with zap-logged lifecycle messages and
// separates commands that exited with a non-zero code (CommandFailedError) from
// commands that could not run at all (CommandExecutionError). OSCommandRunner is
// the default os/exec backed runner used by the git provider.
package execshell
