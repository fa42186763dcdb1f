package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/utils"
)

// DiagnosticReporter renders run failures
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
	colors  bool
}

// NewDiagnosticReporter creates a reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
		colors:  !color.NoColor,
	}
}

// NewDiagnosticReporterWithWriters creates an uncolored reporter for the given writers
func NewDiagnosticReporterWithWriters(verbose bool, out, errOut io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
		errOut:  errOut,
	}
}

// ReportError renders err. A MultipleErrors is expanded entry by entry.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		fmt.Fprintf(r.errOut, "\n%d file(s) could not be annotated\n", multi.Count())
		fmt.Fprintf(r.errOut, "%s\n", strings.Repeat("=", 34))
		for _, entry := range multi.Errors {
			fmt.Fprintln(r.errOut)
			r.reportOne(entry)
		}
		fmt.Fprintln(r.errOut)
		return
	}

	fmt.Fprintf(r.errOut, "\nERROR: Annotation run failed\n")
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("=", 28))

	var typed errors.IdeHintError
	if stderrors.As(err, &typed) {
		r.reportOne(typed)
	} else {
		fmt.Fprintf(r.errOut, "Message: %s\n", err.Error())
	}
	fmt.Fprintln(r.errOut)
}

func (r *DiagnosticReporter) reportOne(err errors.IdeHintError) {
	header := fmt.Sprintf("Type: %s", err.ErrorCode())
	r.paint(r.errOut, color.New(color.FgRed, color.Bold), "%s\n", header)

	message := err.Error()
	if base, ok := err.(*errors.BaseError); ok {
		message = base.Message
		if base.Cause != nil {
			message = fmt.Sprintf("%s: %v", message, base.Cause)
		}
	}
	fmt.Fprintf(r.errOut, "Message: %s\n", message)

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n", loc)
	}

	if ctx := err.Context(); len(ctx) > 0 {
		fmt.Fprintf(r.errOut, "Context:\n")
		for _, key := range utils.SortedMapKeys(ctx) {
			fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), ctx[key])
		}
	}

	if hints := err.Suggestions(); len(hints) > 0 {
		fmt.Fprintf(r.errOut, "Suggestions:\n")
		for i, hint := range hints {
			fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, hint)
		}
	}

	if r.verbose {
		r.printErrorChain(err)
	}
}

// printErrorChain lists the wrapped causes below err
func (r *DiagnosticReporter) printErrorChain(err error) {
	cause := stderrors.Unwrap(err)
	if cause == nil {
		return
	}
	fmt.Fprintf(r.errOut, "Error Chain:\n")
	for level := 1; cause != nil; level++ {
		fmt.Fprintf(r.errOut, "   %d. %s\n", level, cause.Error())
		cause = stderrors.Unwrap(cause)
	}
}

func (r *DiagnosticReporter) paint(w io.Writer, c *color.Color, format string, args ...interface{}) {
	if r.colors {
		c.Fprintf(w, format, args...)
		return
	}
	fmt.Fprintf(w, format, args...)
}

// formatContextKey turns snake_case context keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
