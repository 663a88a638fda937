package release

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/relman/internal/release/manager"
	"github.com/temirov/relman/internal/release/phase"
)

const (
	summaryStatusTemplateConstant = "RELEASE %s"
	summaryDetailTemplateConstant = "%s finished in %s (run %s)"
	summaryDryRunSuffixConstant   = " [dry run]"
	summarySeparatorConstant      = " "
)

var (
	summarySuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	summaryFailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	summaryErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	summaryDetailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// renderSummary formats the one line status of a workflow run.
func renderSummary(workflowName string, result manager.Result, simulate bool) string {
	status := summaryStyleFor(result.Status).Render(fmt.Sprintf(summaryStatusTemplateConstant, strings.ToUpper(result.Status.String())))
	detail := fmt.Sprintf(summaryDetailTemplateConstant, workflowName, result.Duration().Round(time.Millisecond), result.RunID)
	if simulate {
		detail += summaryDryRunSuffixConstant
	}
	return status + summarySeparatorConstant + summaryDetailStyle.Render(detail)
}

func summaryStyleFor(code phase.ResultCode) lipgloss.Style {
	switch code {
	case phase.ResultCodeSuccess:
		return summarySuccessStyle
	case phase.ResultCodeFailure:
		return summaryFailureStyle
	default:
		return summaryErrorStyle
	}
}

func printSummary(writer io.Writer, workflowName string, result manager.Result, simulate bool) {
	fmt.Fprintln(writer, renderSummary(workflowName, result, simulate))
}
