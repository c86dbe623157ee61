// -- internal/reporting/reporter.go --
package reporting

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/magidevv/authflows/internal/scenarios"
)

// Supported report formats.
const (
	FormatJSON  = "json"
	FormatJUnit = "junit"
)

// Reporter writes the results of a scenario run to an output.
type Reporter interface {
	// Write renders the whole run. It is called once per reporter.
	Write(results scenarios.Results) error
	// Close finalizes the report and closes any underlying file handle.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format. An empty outputPath or "stdout" writes
// to stdout, anything else creates the file.
func New(format, outputPath string, stdout io.Writer) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	switch format {
	case FormatJSON, FormatJUnit:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	if isStdOut {
		writer = &nopWriteCloser{stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	if format == FormatJUnit {
		return NewJUnitReporter(writer), nil
	}
	return NewJSONReporter(writer), nil
}

// status is the one-word outcome used by every format.
func status(r scenarios.Result) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Failed():
		return "failed"
	default:
		return "passed"
	}
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
