package phase

import (
	"fmt"
	"io"
	"os"
)

const (
	reportLineTemplateConstant = "%s\n"
)

// Reporter receives the human readable messages of a phase.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer.
// A nil writer reports to standard output.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return writerReporter{writer: writer}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	fmt.Fprintf(reporter.writer, format, args...)
}

type noopReporter struct{}

func (noopReporter) Printf(string, ...any) {}
